package xoutput

import (
	"context"

	"github.com/omeyang/xelog/pkg/observability/xlog"
	"github.com/omeyang/xelog/pkg/util/xlock"
)

// Transport 输出传输接口
//
// 每次调用 Write 传入一条完整的已格式化记录。
type Transport interface {
	Write(p []byte) (int, error)
}

// ModeWriter 支持按锁模式写入的传输
//
// 中断类上下文以 [xlock.ModeNonBlocking] 调用 [Router.OutputMode]，
// 实现了此接口的传输在锁被占用时应立即放弃本条记录。
type ModeWriter interface {
	Transport

	// WriteMode 按指定锁模式写入一条记录
	WriteMode(ctx context.Context, mode xlock.Mode, p []byte) (int, error)
}

// LevelApplier 日志引擎的级别应用接口
type LevelApplier interface {
	// SetLevel 把过滤级别应用到引擎
	SetLevel(level xlog.Level)
}

// Store 通道配置存储接口
//
// 不在热路径上调用，实现无需并发安全，由 Router 的配置锁串行化。
type Store interface {
	// Load 读取持久化配置
	//
	// 返回的 Config 总是可用的：记录不存在或损坏时返回 defaults 和对应错误，
	// 越界字段单独取 defaults 中的值。
	Load(defaults Config) (Config, error)

	// Save 写回配置，文件不存在时创建，存在时覆盖
	Save(cfg Config) error
}
