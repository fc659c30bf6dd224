package xlog

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"
)

// 编译时接口检查
var (
	_ Logger          = (*xlogger)(nil)
	_ Leveler         = (*xlogger)(nil)
	_ LoggerWithLevel = (*xlogger)(nil)
)

// xlogger Logger 接口的实现
type xlogger struct {
	handler        slog.Handler
	levelVar       *slog.LevelVar
	onError        func(error)
	errorCount     *atomic.Uint64 // 派生 logger 共享
	inErrorHandler *atomic.Bool   // 防止 onError 递归调用，派生 logger 共享
}

// log 通用日志方法
//
//go:noinline
func (l *xlogger) log(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	lv := level.Slog()
	if !l.handler.Enabled(ctx, lv) {
		return
	}

	var pcs [1]uintptr
	// skip=3: Callers → log → Info/Debug/… → 业务代码
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), lv, msg, pcs[0])
	r.AddAttrs(attrs...)
	if err := l.handler.Handle(ctx, r); err != nil {
		l.handleError(err)
	}
}

// handleError 处理输出目标返回的错误
//
// 并发期间部分错误会跳过 onError 回调，errorCount 计入所有错误。
func (l *xlogger) handleError(err error) {
	l.errorCount.Add(1)
	if l.onError == nil {
		return
	}
	if l.inErrorHandler.CompareAndSwap(false, true) {
		defer l.inErrorHandler.Store(false)
		l.safeOnError(err)
	}
}

// safeOnError 执行 onError 回调，隔离 panic
func (l *xlogger) safeOnError(err error) {
	defer func() {
		if r := recover(); r != nil {
			l.errorCount.Add(1)
		}
	}()
	l.onError(err)
}

// ErrorCount 返回内部错误计数
func (l *xlogger) ErrorCount() uint64 {
	return l.errorCount.Load()
}

// Assert 记录断言级别日志
func (l *xlogger) Assert(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelAssert, msg, attrs)
}

// Error 记录 Error 级别日志
func (l *xlogger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs)
}

// Warn 记录 Warn 级别日志
func (l *xlogger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs)
}

// Info 记录 Info 级别日志
func (l *xlogger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs)
}

// Debug 记录 Debug 级别日志
func (l *xlogger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs)
}

// Verbose 记录 Verbose 级别日志
func (l *xlogger) Verbose(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelVerbose, msg, attrs)
}

// With 返回带额外属性的派生 Logger
func (l *xlogger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	return &xlogger{
		handler:        l.handler.WithAttrs(attrs),
		levelVar:       l.levelVar,
		onError:        l.onError,
		errorCount:     l.errorCount,
		inErrorHandler: l.inErrorHandler,
	}
}

// SetLevel 动态设置过滤级别，越界值被忽略
func (l *xlogger) SetLevel(level Level) {
	if !level.Valid() {
		return
	}
	l.levelVar.Set(level.Slog())
}

// GetLevel 获取当前过滤级别
func (l *xlogger) GetLevel() Level {
	return fromSlog(l.levelVar.Level())
}

// Enabled 检查指定级别是否会输出
func (l *xlogger) Enabled(ctx context.Context, level Level) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.handler.Enabled(ctx, level.Slog())
}
