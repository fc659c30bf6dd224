package xrotate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	retry "github.com/avast/retry-go/v5"

	"github.com/omeyang/xelog/pkg/util/xfile"
	"github.com/omeyang/xelog/pkg/util/xlock"
)

// 编译时接口检查
var _ Rotator = (*FileSink)(nil)

// FileSink 代际轮转的文件 sink
//
// 独占持有唯一的活动文件句柄，句柄从不暴露给外部。
// Write、Configure、Rotate 在同一把实例锁内执行，
// 每次写入的 轮转+追加+Sync 对其他写入者是原子的。
type FileSink struct {
	mu      *xlock.Mutex
	opts    sinkOptions
	renamer Renamer
	metrics *sinkMetrics

	// 以下字段受 mu 保护
	cfg         Config
	file        xfile.File
	initialized bool

	closed atomic.Bool
}

// NewFileSink 创建文件 sink
//
// cfg 是 Init 时安装的初始配置，传入零值 Config 时使用 [DefaultConfig]。
// 构造函数不触碰文件系统，文件在 Init 时才打开。
func NewFileSink(cfg Config, opts ...Option) (*FileSink, error) {
	o := defaultSinkOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.reopenAttempts == 0 {
		return nil, ErrInvalidReopenAttempts
	}

	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	cfg, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	m, err := newSinkMetrics(o.meterProvider)
	if err != nil {
		return nil, err
	}

	return &FileSink{
		mu:      xlock.New(),
		opts:    o,
		renamer: Renamer{FS: o.fs, OnWarn: o.onError},
		metrics: m,
		cfg:     cfg,
	}, nil
}

// lock 获取实例锁，统一把锁错误映射为本包错误
func (s *FileSink) lock(ctx context.Context, mode xlock.Mode) (xlock.Handle, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	h, err := s.mu.Lock(ctx, mode)
	switch {
	case err == nil:
		return h, nil
	case errors.Is(err, xlock.ErrLockOccupied):
		return nil, ErrLockBusy
	case errors.Is(err, xlock.ErrClosed):
		return nil, ErrClosed
	default:
		return nil, err
	}
}

// unlock 释放锁；Handle 只会释放一次，错误无需处理
func unlock(h xlock.Handle) {
	_ = h.Unlock() //nolint:errcheck // 每个 Handle 只释放一次
}

// Init 打开初始配置中的活动文件
//
// 失败时返回 [ErrInit]，sink 保持未初始化，之后的写入返回 [ErrNotInitialized]。
// 重复调用返回 [ErrAlreadyInitialized]。
func (s *FileSink) Init(ctx context.Context) error {
	h, err := s.lock(ctx, xlock.ModeBlocking)
	if err != nil {
		return err
	}
	defer unlock(h)

	if s.initialized {
		return ErrAlreadyInitialized
	}
	if err := s.configureLocked(s.cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInit, err)
	}
	s.initialized = true
	return nil
}

// Deinit 以空路径重新配置，关闭活动文件
//
// 要求之前调用过 Init，否则返回 [ErrNotInitialized]。
func (s *FileSink) Deinit(ctx context.Context) error {
	h, err := s.lock(ctx, xlock.ModeBlocking)
	if err != nil {
		return err
	}
	defer unlock(h)

	if !s.initialized {
		return ErrNotInitialized
	}
	err = s.configureLocked(Config{})
	s.initialized = false
	return err
}

// Configure 安装新配置
//
// 先关闭当前句柄，再安装 cfg；cfg.Path 非空时以追加方式打开/创建它。
// 传入空路径是禁用文件 sink 的方式。
func (s *FileSink) Configure(ctx context.Context, cfg Config) error {
	cfg, err := cfg.validate()
	if err != nil {
		return err
	}

	h, err := s.lock(ctx, xlock.ModeBlocking)
	if err != nil {
		return err
	}
	defer unlock(h)

	return s.configureLocked(cfg)
}

// configureLocked 关闭旧句柄、安装配置、打开新句柄。调用方持有锁。
func (s *FileSink) configureLocked(cfg Config) error {
	s.closeFileLocked()
	s.cfg = cfg
	if !cfg.Enabled() {
		return nil
	}
	f, err := s.opts.fs.OpenFile(cfg.Path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrIO, cfg.Path, err)
	}
	s.file = f
	return nil
}

// closeFileLocked 关闭活动文件，关闭失败只告警
func (s *FileSink) closeFileLocked() {
	if s.file == nil {
		return
	}
	if err := s.file.Close(); err != nil {
		s.warn(fmt.Errorf("xrotate: close %s: %w", s.cfg.Path, err))
	}
	s.file = nil
}

// Config 返回当前安装的配置
func (s *FileSink) Config() Config {
	h, err := s.lock(context.Background(), xlock.ModeBlocking)
	if err != nil {
		return Config{}
	}
	defer unlock(h)
	return s.cfg
}

// Write 使用默认锁模式写入一条记录
func (s *FileSink) Write(p []byte) (int, error) {
	return s.WriteMode(context.Background(), s.opts.lockMode, p)
}

// WriteMode 按指定锁模式写入一条记录
//
// 在锁内执行：Seek 到末尾取大小 → 需要时轮转 → 追加 → Sync。
// 记录只有在 Sync 成功后才算提交。
func (s *FileSink) WriteMode(ctx context.Context, mode xlock.Mode, p []byte) (int, error) {
	start := s.opts.clock.Now()

	h, err := s.lock(ctx, mode)
	if err != nil {
		s.metrics.recordWrite(resultDropped, s.opts.clock.Since(start))
		return 0, err
	}
	defer unlock(h)

	n, err := s.writeLocked(p)
	result := resultOK
	switch {
	case errors.Is(err, ErrDropped):
		result = resultDropped
	case err != nil:
		result = resultError
	}
	s.metrics.recordWrite(result, s.opts.clock.Since(start))
	return n, err
}

func (s *FileSink) writeLocked(p []byte) (int, error) {
	if !s.initialized {
		return 0, ErrNotInitialized
	}
	if s.file == nil {
		if !s.cfg.Enabled() {
			return 0, ErrNoActiveFile
		}
		// 上一次轮转后的重新打开失败，写入前再尝试一次
		if err := s.reopenLocked(); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrNoActiveFile, err)
		}
	}

	size, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("%w: seek %s: %w", ErrIO, s.cfg.Path, err)
	}

	if ShouldRotate(uint64(size), s.cfg.MaxSize) {
		if s.cfg.MaxGenerations == 0 {
			return 0, fmt.Errorf("%w: %s at %d bytes exceeds %d", ErrDropped, s.cfg.Path, size, s.cfg.MaxSize)
		}
		if err := s.rotateLocked(uint64(size)); err != nil {
			return 0, err
		}
	}

	n, err := s.file.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return n, fmt.Errorf("%w: write %s: %w", ErrIO, s.cfg.Path, err)
	}
	if err := s.file.Sync(); err != nil {
		return n, fmt.Errorf("%w: sync %s: %w", ErrIO, s.cfg.Path, err)
	}
	return n, nil
}

// Rotate 不论当前大小，立即执行一次代际轮转
func (s *FileSink) Rotate() error {
	h, err := s.lock(context.Background(), xlock.ModeBlocking)
	if err != nil {
		return err
	}
	defer unlock(h)

	if !s.initialized {
		return ErrNotInitialized
	}
	if !s.cfg.Enabled() {
		return ErrNoActiveFile
	}
	if s.cfg.MaxGenerations == 0 {
		return ErrRotationDisabled
	}

	var size uint64
	if s.file != nil {
		off, err := s.file.Seek(0, io.SeekEnd)
		if err != nil {
			s.warn(fmt.Errorf("xrotate: seek %s before rotate: %w", s.cfg.Path, err))
		} else {
			size = uint64(off)
		}
	}
	return s.rotateLocked(size)
}

// rotateLocked 关闭活动文件、推进代际链，并且无论成败都强制重新打开活动文件
//
// 改名失败时不会继续写入半轮转的链；重新打开失败时句柄保持为空，
// 下一次写入、轮转或 Configure 会再次尝试打开。
func (s *FileSink) rotateLocked(size uint64) error {
	start := s.opts.clock.Now()

	s.closeFileLocked()
	chainErr := s.renamer.Rotate(s.cfg.Path, s.cfg.MaxGenerations)
	reopenErr := s.reopenLocked()

	var err error
	switch {
	case chainErr != nil && reopenErr != nil:
		err = fmt.Errorf("%w: %w", ErrRotateFailed, errors.Join(chainErr, reopenErr))
	case chainErr != nil:
		err = fmt.Errorf("%w: %w", ErrRotateFailed, chainErr)
	case reopenErr != nil:
		err = fmt.Errorf("%w: %w", ErrRotateFailed, reopenErr)
	}

	s.metrics.recordRotation(err)
	if s.opts.onRotate != nil {
		s.notifyRotate(RotateEvent{
			Path:        s.cfg.Path,
			Size:        size,
			Generations: s.cfg.MaxGenerations,
			Duration:    s.opts.clock.Since(start),
			Err:         err,
		})
	}
	return err
}

// reopenLocked 以追加方式重新打开活动文件，按配置重试
func (s *FileSink) reopenLocked() error {
	err := retry.New(
		retry.Attempts(s.opts.reopenAttempts),
		retry.Delay(s.opts.reopenDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	).Do(func() error {
		f, err := s.opts.fs.OpenFile(s.cfg.Path)
		if err != nil {
			return err
		}
		s.file = f
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReopenFailed, s.cfg.Path, err)
	}
	return nil
}

// Close 关闭 sink，释放活动文件
//
// 关闭后调用 Write/Rotate/Configure 返回 [ErrClosed]，重复调用 Close 也返回 [ErrClosed]。
func (s *FileSink) Close() error {
	if s.closed.Swap(true) {
		return ErrClosed
	}
	h, err := s.mu.Acquire(context.Background())
	if err != nil {
		return err
	}
	var closeErr error
	if s.file != nil {
		closeErr = s.file.Close()
		s.file = nil
	}
	s.initialized = false
	unlock(h)
	return errors.Join(closeErr, s.mu.Close())
}

// warn 通过回调上报内部告警，回调 panic 被隔离
func (s *FileSink) warn(err error) {
	if err == nil || s.opts.onError == nil {
		return
	}
	defer func() { recover() }() //nolint:errcheck // recover 返回值无需检查
	s.opts.onError(err)
}

func (s *FileSink) notifyRotate(ev RotateEvent) {
	defer func() { recover() }() //nolint:errcheck // recover 返回值无需检查
	s.opts.onRotate(ev)
}
