package xrotate

import "io"

// 编译时断言：Rotator 接口是 io.WriteCloser 的超集
var _ io.WriteCloser = (Rotator)(nil)

// Rotator 日志轮转器接口
//
// 隐式实现 [io.WriteCloser]，可直接作为输出通道的文件传输。
// 所有实现都必须是并发安全的。
//
// 约定：
//   - 一次 Write 对应一条已格式化的完整日志记录
//   - Close 后调用 Write 或 Rotate 应返回 [ErrClosed]
//   - Rotate 可以在任意时刻调用
type Rotator interface {
	// Write 写入一条日志记录
	// 当触发轮转条件时自动执行轮转
	Write(p []byte) (n int, err error)

	// Close 关闭轮转器，释放资源
	// 重复调用应返回 [ErrClosed]
	Close() error

	// Rotate 手动触发日志轮转
	Rotate() error
}
