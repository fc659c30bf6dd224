package xlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Builder 日志配置构建器
type Builder struct {
	output    io.Writer
	closer    io.Closer
	levelVar  *slog.LevelVar
	level     Level
	format    string
	addSource bool
	onError   func(error)
	err       error
}

// New 创建配置构建器，默认输出 stderr、Info 级别、text 格式
func New() *Builder {
	levelVar := new(slog.LevelVar)
	levelVar.Set(LevelInfo.Slog())

	return &Builder{
		output:   os.Stderr,
		levelVar: levelVar,
		level:    LevelInfo,
		format:   "text",
	}
}

// SetOutput 设置日志输出目标，每条记录对应一次 Write 调用
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if w == nil {
		b.err = fmt.Errorf("xlog: nil output")
		return b
	}
	b.output = w
	b.closer = nil
	return b
}

// SetOwnedOutput 设置输出目标，并由 Build 返回的 cleanup 负责关闭它
func (b *Builder) SetOwnedOutput(w io.WriteCloser) *Builder {
	b.SetOutput(w)
	if w != nil {
		b.closer = w
	}
	return b
}

// SetLevel 设置过滤级别
func (b *Builder) SetLevel(level Level) *Builder {
	if !level.Valid() {
		b.err = fmt.Errorf("xlog: invalid level %d", level)
		return b
	}
	b.level = level
	b.levelVar.Set(level.Slog())
	return b
}

// SetLevelString 通过字符串设置过滤级别
func (b *Builder) SetLevelString(s string) *Builder {
	level, err := ParseLevel(s)
	if err != nil {
		b.err = err
		return b
	}
	return b.SetLevel(level)
}

// SetFormat 设置输出格式：text 或 json，空值使用 text
func (b *Builder) SetFormat(format string) *Builder {
	normalized := strings.ToLower(strings.TrimSpace(format))
	if normalized == "" {
		b.format = "text"
		return b
	}
	if normalized != "text" && normalized != "json" {
		b.err = fmt.Errorf("xlog: unknown format %q", format)
		return b
	}
	b.format = normalized
	return b
}

// SetAddSource 是否在日志中添加源码位置
func (b *Builder) SetAddSource(enable bool) *Builder {
	b.addSource = enable
	return b
}

// SetOnError 设置内部错误回调
//
// 输出目标返回错误时调用。回调在热路径同步执行，应保持轻量；
// 内置递归保护与 panic 隔离。
func (b *Builder) SetOnError(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// Build 构建 Logger 实例
//
// 返回值：
//   - LoggerWithLevel: 日志实例，同时支持动态级别控制
//   - func() error: 清理函数，关闭 SetOwnedOutput 设置的输出
//   - error: 配置错误
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	opts := &slog.HandlerOptions{
		Level:       b.levelVar,
		AddSource:   b.addSource,
		ReplaceAttr: replaceLevel,
	}

	var handler slog.Handler
	switch b.format {
	case "json":
		handler = slog.NewJSONHandler(b.output, opts)
	default:
		handler = slog.NewTextHandler(b.output, opts)
	}

	logger := &xlogger{
		handler:        handler,
		levelVar:       b.levelVar,
		onError:        b.onError,
		errorCount:     new(atomic.Uint64),
		inErrorHandler: new(atomic.Bool),
	}
	return logger, b.createCleanup(), nil
}

// createCleanup 创建只执行一次的清理函数
func (b *Builder) createCleanup() func() error {
	var once sync.Once
	closer := b.closer

	return func() error {
		var err error
		once.Do(func() {
			if closer != nil {
				err = closer.Close()
			}
		})
		return err
	}
}

// replaceLevel 把 slog 级别名替换为本包的级别名
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}
	lv, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	return slog.String(slog.LevelKey, fromSlog(lv).String())
}

// fromSlog 把 slog.Level 映射回最接近的本包级别
func fromSlog(lv slog.Level) Level {
	for l := LevelAssert; l <= MaxLevel; l++ {
		if lv >= l.Slog() {
			return l
		}
	}
	return LevelVerbose
}
