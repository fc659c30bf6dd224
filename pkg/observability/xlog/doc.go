// Package xlog 基于 log/slog 的日志引擎，负责格式化与级别过滤。
//
// xlog 把每条完成格式化的日志行以一次 Write 调用交给输出目标
// （通常是 xoutput.Router），自身不关心记录最终落到哪个通道。
//
// # 日志级别
//
// 六个过滤级别，数值越大越详细：
// LevelAssert(0)、LevelError(1)、LevelWarn(2)、LevelInfo(3)、LevelDebug(4)、LevelVerbose(5)。
// 过滤级别为 L 时，只输出数值 <= L 的记录。
// 级别映射到 slog.Level，可通过 [ParseLevel] 从字符串解析，
// 实现 encoding.TextMarshaler/TextUnmarshaler。
//
// # 创建 Logger
//
// 使用 Builder 模式（first-error-wins）：
//
//	logger, cleanup, err := xlog.New().
//	    SetOutput(router).
//	    SetLevel(xlog.LevelInfo).
//	    Build()
//	defer cleanup()
//
// # 动态级别
//
// [Leveler.SetLevel] 运行时生效，派生 logger 共享同一个 LevelVar。
// 输出层在过滤级别变化（或重新确认）时调用它保持引擎状态同步。
//
// # 内部错误
//
// 输出目标返回错误时不会向业务返回、不会 panic，
// 通过 [Builder.SetOnError] 回调上报，回调内置递归保护和 panic 隔离。
package xlog
