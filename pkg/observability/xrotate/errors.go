package xrotate

import "errors"

// 配置校验错误
var (
	// ErrEmptyFilename 文件名为空
	ErrEmptyFilename = errors.New("xrotate: filename is required")

	// ErrInvalidMaxGenerations MaxGenerations 超出允许范围
	ErrInvalidMaxGenerations = errors.New("xrotate: invalid MaxGenerations")

	// ErrInvalidMaxSize MaxSize 对当前实现无效
	ErrInvalidMaxSize = errors.New("xrotate: invalid MaxSize")

	// ErrInvalidReopenAttempts 重新打开的尝试次数必须 >= 1
	ErrInvalidReopenAttempts = errors.New("xrotate: invalid reopen attempts")
)

// 生命周期错误
var (
	// ErrInit 初始化失败（文件无法打开）。sink 保持未初始化，写入退化为无操作。
	ErrInit = errors.New("xrotate: init failed")

	// ErrAlreadyInitialized 重复调用 Init
	ErrAlreadyInitialized = errors.New("xrotate: already initialized")

	// ErrNotInitialized 未调用 Init 就写入或 Deinit
	ErrNotInitialized = errors.New("xrotate: not initialized")

	// ErrClosed 轮转器已关闭
	ErrClosed = errors.New("xrotate: rotator is closed")
)

// 写入错误
var (
	// ErrIO seek/write/sync 失败，本次写入被丢弃，sink 仍可用
	ErrIO = errors.New("xrotate: io error")

	// ErrNoActiveFile 没有可写的活动文件（路径为空，或轮转后重新打开失败）
	ErrNoActiveFile = errors.New("xrotate: no active file")

	// ErrDropped 文件已超过上限且未启用代际保留，本次写入被丢弃
	ErrDropped = errors.New("xrotate: record dropped")

	// ErrLockBusy 非阻塞模式下锁被占用，本次写入被跳过
	ErrLockBusy = errors.New("xrotate: lock busy")
)

// 轮转错误
var (
	// ErrRotateFailed 轮转失败，本次写入被丢弃
	ErrRotateFailed = errors.New("xrotate: rotate failed")

	// ErrRenameFailed 代际链中的某次改名失败
	ErrRenameFailed = errors.New("xrotate: rename failed")

	// ErrReopenFailed 轮转结束后重新打开活动文件失败
	ErrReopenFailed = errors.New("xrotate: reopen failed")

	// ErrRotationDisabled MaxGenerations 为 0 时手动轮转
	ErrRotationDisabled = errors.New("xrotate: rotation disabled")
)
