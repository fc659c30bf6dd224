package xrotate

import (
	"fmt"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/omeyang/xelog/pkg/util/xfile"
)

// bytesPerMB lumberjack 以 MB 为单位配置大小
const bytesPerMB = 1024 * 1024

// LumberjackOption lumberjack 后端配置选项函数
type LumberjackOption func(*lumberjack.Logger)

// WithCompress 设置是否 gzip 压缩备份文件
func WithCompress(compress bool) LumberjackOption {
	return func(l *lumberjack.Logger) {
		l.Compress = compress
	}
}

// WithLocalTime 设置备份文件名是否使用本地时间（默认 UTC）
func WithLocalTime(local bool) LumberjackOption {
	return func(l *lumberjack.Logger) {
		l.LocalTime = local
	}
}

// WithMaxAge 设置备份保留天数，0 表示不按天数清理
func WithMaxAge(days int) LumberjackOption {
	return func(l *lumberjack.Logger) {
		l.MaxAge = days
	}
}

// lumberjackRotator 基于 lumberjack 的 Rotator 实现
//
// 面向宿主机：备份文件名带时间戳（app-2024-01-02T15-04-05.000.log），
// 不保证每次写入后 Sync。代际数映射为 MaxBackups。
type lumberjackRotator struct {
	logger *lumberjack.Logger
	closed atomic.Bool
}

// NewLumberjack 使用 cfg 创建基于 lumberjack 的轮转器
//
// cfg.MaxSize 向上取整到 MB（至少 1MB）；cfg.MaxGenerations 必须 >= 1，
// 因为 lumberjack 的 MaxBackups=0 表示"保留全部"，与本包"0 表示不轮转"的语义相反。
func NewLumberjack(cfg Config, opts ...LumberjackOption) (Rotator, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyFilename
	}
	if cfg.MaxGenerations == 0 {
		return nil, fmt.Errorf("%w: lumberjack backend requires at least 1 generation", ErrInvalidMaxGenerations)
	}
	cfg, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureDir(cfg.Path); err != nil {
		return nil, err
	}

	l := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    sizeToMB(cfg.MaxSize),
		MaxBackups: int(cfg.MaxGenerations),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return &lumberjackRotator{logger: l}, nil
}

// sizeToMB 把字节数向上取整为 MB，最小 1
func sizeToMB(size uint64) int {
	mb := (size + bytesPerMB - 1) / bytesPerMB
	if mb < 1 {
		return 1
	}
	return int(mb)
}

// Write 实现 io.Writer 接口
func (r *lumberjackRotator) Write(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	n, err := r.logger.Write(p)
	if err != nil {
		// Write 与 Close 之间存在 TOCTOU 窗口，后置检查保证调用者得到 ErrClosed
		if r.closed.Load() {
			return n, ErrClosed
		}
		return n, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return n, nil
}

// Close 实现 io.Closer 接口
func (r *lumberjackRotator) Close() error {
	if r.closed.Swap(true) {
		return ErrClosed
	}
	return r.logger.Close()
}

// Rotate 手动触发轮转
func (r *lumberjackRotator) Rotate() error {
	if r.closed.Load() {
		return ErrClosed
	}
	if err := r.logger.Rotate(); err != nil {
		if r.closed.Load() {
			return ErrClosed
		}
		return fmt.Errorf("%w: %w", ErrRotateFailed, err)
	}
	return nil
}
