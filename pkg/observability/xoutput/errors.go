package xoutput

import "errors"

var (
	// ErrInvalidChannel 通道值不在有效范围内
	ErrInvalidChannel = errors.New("xoutput: invalid channel")

	// ErrInvalidLevel 过滤级别不在 0..MaxLevel 范围内
	ErrInvalidLevel = errors.New("xoutput: invalid level")

	// ErrNotInitialized 未调用 Init，输出退化为无操作
	ErrNotInitialized = errors.New("xoutput: not initialized")

	// ErrAlreadyInitialized 重复调用 Init
	ErrAlreadyInitialized = errors.New("xoutput: already initialized")

	// ErrNoTransport 选中的通道没有注册传输
	ErrNoTransport = errors.New("xoutput: no transport for channel")

	// ErrConfig 配置持久化失败，内存值已回滚
	ErrConfig = errors.New("xoutput: config persistence failed")

	// ErrRecordNotFound 配置文件不存在
	ErrRecordNotFound = errors.New("xoutput: config record not found")

	// ErrCorruptRecord 配置记录长度或校验和不符
	ErrCorruptRecord = errors.New("xoutput: corrupt config record")

	// ErrNilStore 未提供配置存储
	ErrNilStore = errors.New("xoutput: nil store")
)
