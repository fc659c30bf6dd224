package xrotate

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xelog/pkg/util/xfile"
	"github.com/omeyang/xelog/pkg/util/xlock"
)

// 编译期默认配置，Init 在未显式配置时使用
const (
	// DefaultPath 默认日志文件路径
	DefaultPath = "log/elog.txt"

	// DefaultMaxSize 默认单个日志文件最大大小（字节）
	DefaultMaxSize = 64 * 1024

	// DefaultMaxGenerations 默认保留的历史代数
	DefaultMaxGenerations = 4

	// maxGenerations 历史代数上限
	maxGenerations = 1024

	// defaultReopenDelay 重新打开重试之间的间隔
	defaultReopenDelay = 10 * time.Millisecond
)

// Config 文件 sink 配置
//
// 安装后不可变。替换配置会先关闭当前句柄，新路径非空时再打开/创建它。
type Config struct {
	// Path 活动文件路径，为空表示禁用文件 sink
	Path string

	// MaxSize 活动文件大小上限（字节），超过后下一次写入前轮转
	MaxSize uint64

	// MaxGenerations 保留的历史代数，0 表示不轮转（超限写入被丢弃）
	MaxGenerations uint
}

// DefaultConfig 返回编译期默认配置
func DefaultConfig() Config {
	return Config{
		Path:           DefaultPath,
		MaxSize:        DefaultMaxSize,
		MaxGenerations: DefaultMaxGenerations,
	}
}

// Enabled 报告配置是否启用了文件 sink
func (c Config) Enabled() bool {
	return c.Path != ""
}

// Validate 校验配置
func (c Config) Validate() error {
	_, err := c.validate()
	return err
}

// validate 校验配置，返回规范化后的副本
func (c Config) validate() (Config, error) {
	if c.MaxGenerations > maxGenerations {
		return c, fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxGenerations, c.MaxGenerations, maxGenerations)
	}
	if c.Path == "" {
		return c, nil
	}
	safe, err := xfile.SanitizePath(c.Path)
	if err != nil {
		return c, err
	}
	c.Path = safe
	return c, nil
}

// RotateEvent 一次轮转的结果
type RotateEvent struct {
	// Path 活动文件路径
	Path string
	// Size 轮转前活动文件的大小
	Size uint64
	// Generations 本次使用的代数上限
	Generations uint
	// Duration 关闭、改名链与重新打开的总耗时
	Duration time.Duration
	// Err 轮转错误，成功时为 nil
	Err error
}

// sinkOptions FileSink 的可选配置
type sinkOptions struct {
	fs             xfile.FS
	clock          clockwork.Clock
	meterProvider  metric.MeterProvider
	lockMode       xlock.Mode
	reopenAttempts uint
	reopenDelay    time.Duration
	onError        func(error)
	onRotate       func(RotateEvent)
}

func defaultSinkOptions() sinkOptions {
	return sinkOptions{
		fs:             xfile.OSFS{},
		clock:          clockwork.NewRealClock(),
		meterProvider:  otel.GetMeterProvider(),
		lockMode:       xlock.ModeBlocking,
		reopenAttempts: 1,
		reopenDelay:    defaultReopenDelay,
	}
}

// Option FileSink 配置选项函数
type Option func(*sinkOptions)

// WithFS 设置文件系统实现，默认 [xfile.OSFS]
func WithFS(fsys xfile.FS) Option {
	return func(o *sinkOptions) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithClock 设置时钟，用于测量写入与轮转耗时
func WithClock(c clockwork.Clock) Option {
	return func(o *sinkOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithMeterProvider 设置 OTel MeterProvider，默认使用全局 provider
func WithMeterProvider(p metric.MeterProvider) Option {
	return func(o *sinkOptions) {
		if p != nil {
			o.meterProvider = p
		}
	}
}

// WithLockMode 设置 Write 使用的默认锁获取模式
func WithLockMode(m xlock.Mode) Option {
	return func(o *sinkOptions) {
		o.lockMode = m
	}
}

// WithReopenAttempts 设置轮转后重新打开活动文件的尝试次数（>= 1）
// 及两次尝试之间的间隔
func WithReopenAttempts(attempts uint, delay time.Duration) Option {
	return func(o *sinkOptions) {
		o.reopenAttempts = attempts
		if delay > 0 {
			o.reopenDelay = delay
		}
	}
}

// WithOnError 设置内部告警回调
//
// 接收不影响写入结果的告警（陈旧代际删除失败、关闭旧句柄失败等）。
// 回调函数不得向同一 sink 写入数据。
func WithOnError(fn func(error)) Option {
	return func(o *sinkOptions) {
		o.onError = fn
	}
}

// WithOnRotate 设置轮转完成回调，无论成功失败都会调用
//
// 回调在持锁状态下执行，不得向同一 sink 写入数据。
func WithOnRotate(fn func(RotateEvent)) Option {
	return func(o *sinkOptions) {
		o.onRotate = fn
	}
}
