package xprobe

import "errors"

var (
	// ErrInvalidCapacity 容量必须大于 0
	ErrInvalidCapacity = errors.New("xprobe: invalid capacity")

	// ErrInvalidInterval 转发周期必须大于 0
	ErrInvalidInterval = errors.New("xprobe: invalid drain interval")

	// ErrInvalidMode 未知的溢出模式
	ErrInvalidMode = errors.New("xprobe: invalid mode")

	// ErrSkipped 记录放不下，整条丢弃
	ErrSkipped = errors.New("xprobe: record skipped, buffer full")

	// ErrBusy 非阻塞写入时缓冲区正被占用
	ErrBusy = errors.New("xprobe: buffer busy")

	// ErrClosed 缓冲区已关闭
	ErrClosed = errors.New("xprobe: closed")
)
