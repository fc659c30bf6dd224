package xlock

import "errors"

var (
	// ErrLockNotHeld 表示锁已被释放。
	// Unlock 第二次及后续调用时返回此错误。
	ErrLockNotHeld = errors.New("xlock: lock not held")

	// ErrLockOccupied 表示非阻塞获取时锁已被占用。
	ErrLockOccupied = errors.New("xlock: lock occupied")

	// ErrClosed 表示锁已关闭。
	ErrClosed = errors.New("xlock: closed")

	// ErrInvalidMode 表示未知的获取模式。
	ErrInvalidMode = errors.New("xlock: invalid mode")
)
