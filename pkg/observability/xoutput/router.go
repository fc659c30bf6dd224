package xoutput

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xelog/pkg/observability/xlog"
	"github.com/omeyang/xelog/pkg/util/xlock"
)

// Stats 路由统计快照
type Stats struct {
	// Records 调用 Output 的次数（不含未初始化时的调用）
	Records uint64
	// Failures 至少一个传输失败的次数
	Failures uint64
	// MaxLatency 单次输出的最大耗时
	MaxLatency time.Duration
}

// Router 通道路由器
//
// 热路径 Output 只读取原子化的通道值，不持有配置锁；
// SetChannel/SetLevel 在配置锁内完成 比较→更新→持久化→失败回滚。
type Router struct {
	store   Store
	opts    routerOptions
	metrics *routerMetrics

	mu  sync.Mutex // 保护 cfg 的修改与持久化
	cfg Config

	channel     atomic.Uint32
	level       atomic.Uint32
	initialized atomic.Bool

	records    atomic.Uint64
	failures   atomic.Uint64
	maxLatency atomic.Int64
}

// New 创建路由器
//
// 构造函数不读取存储，持久化配置在 Init 时加载。
func New(store Store, opts ...Option) (*Router, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	o := defaultRouterOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if !o.defaults.Channel.Valid() {
		return nil, fmt.Errorf("%w: default %d", ErrInvalidChannel, o.defaults.Channel)
	}
	if !o.defaults.Level.Valid() {
		return nil, fmt.Errorf("%w: default %d", ErrInvalidLevel, o.defaults.Level)
	}
	for ch := range o.transports {
		if ch == ChannelNone || !ch.Valid() {
			return nil, fmt.Errorf("%w: transport registered for %s", ErrInvalidChannel, ch)
		}
	}

	m, err := newRouterMetrics(o.meterProvider)
	if err != nil {
		return nil, err
	}

	r := &Router{store: store, opts: o, metrics: m}
	r.install(o.defaults)
	return r, nil
}

// install 更新内存配置与原子镜像。调用方持有 mu 或处于构造阶段。
func (r *Router) install(cfg Config) {
	r.cfg = cfg
	r.channel.Store(uint32(cfg.Channel))
	r.level.Store(uint32(cfg.Level))
}

// Init 加载持久化配置并把级别应用到日志引擎
//
// 记录不存在时使用默认配置；记录损坏时使用默认配置并输出诊断告警；
// 其他读取错误同样回退到默认配置，同时返回 [ErrConfig]。
// 三种情况下路由器都会进入已初始化状态，日志不会因为配置问题而停止。
func (r *Router) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized.Load() {
		return ErrAlreadyInitialized
	}

	cfg, err := r.store.Load(r.opts.defaults)
	var retErr error
	switch {
	case err == nil:
	case errors.Is(err, ErrRecordNotFound):
		cfg = r.opts.defaults
		r.debug(ctx, "no persisted output config, using defaults")
	case errors.Is(err, ErrCorruptRecord):
		cfg = r.opts.defaults
		r.warn(ctx, "persisted output config is corrupt, using defaults", xlog.Err(err))
	default:
		cfg = r.opts.defaults
		retErr = fmt.Errorf("%w: %w", ErrConfig, err)
		r.warn(ctx, "load output config failed, using defaults", xlog.Err(err))
	}

	r.install(cfg)
	r.apply(cfg.Level)
	r.initialized.Store(true)
	return retErr
}

// Deinit 停止输出，之后的 Output 返回 [ErrNotInitialized]
func (r *Router) Deinit() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized.Swap(false) {
		return ErrNotInitialized
	}
	return nil
}

// Output 把一条记录分发到当前通道对应的传输
func (r *Router) Output(ctx context.Context, p []byte) error {
	return r.OutputMode(ctx, xlock.ModeBlocking, p)
}

// OutputMode 按指定锁模式分发一条记录
//
// 实现了 [ModeWriter] 的传输会收到 mode，其余传输忽略它。
// 所有目标传输都会被尝试，错误合并后返回。
func (r *Router) OutputMode(ctx context.Context, mode xlock.Mode, p []byte) error {
	if !r.initialized.Load() {
		return ErrNotInitialized
	}

	selected := Channel(r.channel.Load())
	targets := r.opts.plan(selected)
	if len(targets) == 0 {
		return nil
	}

	start := r.opts.clock.Now()
	var errs []error
	for _, ch := range targets {
		err := r.dispatch(ctx, ch, mode, p)
		r.metrics.record(ctx, ch, err)
		if err != nil {
			errs = append(errs, err)
		}
	}
	r.observeLatency(ctx, selected, r.opts.clock.Since(start))

	r.records.Add(1)
	if len(errs) > 0 {
		r.failures.Add(1)
		return errors.Join(errs...)
	}
	return nil
}

func (r *Router) dispatch(ctx context.Context, ch Channel, mode xlock.Mode, p []byte) error {
	t, ok := r.opts.transports[ch]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTransport, ch)
	}

	var err error
	if mw, ok := t.(ModeWriter); ok {
		_, err = mw.WriteMode(ctx, mode, p)
	} else {
		_, err = t.Write(p)
	}
	if err != nil {
		return fmt.Errorf("xoutput: %s: %w", ch, err)
	}
	return nil
}

// Write 实现 io.Writer 接口，使 Router 可以直接作为日志引擎的输出
func (r *Router) Write(p []byte) (int, error) {
	if err := r.Output(context.Background(), p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// observeLatency 记录新的最大延迟并输出诊断
func (r *Router) observeLatency(ctx context.Context, ch Channel, d time.Duration) {
	for {
		cur := r.maxLatency.Load()
		if int64(d) <= cur {
			return
		}
		if r.maxLatency.CompareAndSwap(cur, int64(d)) {
			break
		}
	}

	attrs := []slog.Attr{xlog.Duration(d), slog.String("channel", ch.String())}
	if d > r.opts.latencyWarn {
		r.warn(ctx, "output latency reached new maximum", attrs...)
		return
	}
	r.debug(ctx, "output latency reached new maximum", attrs...)
}

// SetChannel 切换输出通道并持久化
//
// 值未变化时不写存储。持久化失败时回滚内存值并返回 [ErrConfig]。
func (r *Router) SetChannel(ch Channel) error {
	if !ch.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized.Load() {
		return ErrNotInitialized
	}
	if r.cfg.Channel == ch {
		return nil
	}

	prev := r.cfg
	next := prev
	next.Channel = ch
	r.install(next)
	if err := r.store.Save(next); err != nil {
		r.install(prev)
		return fmt.Errorf("%w: set channel %s: %w", ErrConfig, ch, err)
	}
	return nil
}

// GetChannel 返回当前输出通道
func (r *Router) GetChannel() Channel {
	return Channel(r.channel.Load())
}

// SetLevel 设置过滤级别、持久化并应用到日志引擎
//
// 值未变化时不写存储，但仍会把级别重新应用到引擎。
// 持久化失败时回滚内存值，引擎保持原级别，返回 [ErrConfig]。
func (r *Router) SetLevel(level xlog.Level) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized.Load() {
		return ErrNotInitialized
	}
	if r.cfg.Level == level {
		r.apply(level)
		return nil
	}

	prev := r.cfg
	next := prev
	next.Level = level
	r.install(next)
	if err := r.store.Save(next); err != nil {
		r.install(prev)
		return fmt.Errorf("%w: set level %s: %w", ErrConfig, level, err)
	}
	r.apply(level)
	return nil
}

// GetLevel 返回当前过滤级别
func (r *Router) GetLevel() xlog.Level {
	return xlog.Level(r.level.Load())
}

// Config 返回当前配置快照
func (r *Router) Config() Config {
	return Config{Channel: r.GetChannel(), Level: r.GetLevel()}
}

// SetLevelApplier 在构造之后绑定日志引擎
//
// 用于引擎以 Router 为输出、无法先于 Router 创建的场景。
// 已初始化时立即把当前级别应用到引擎。
func (r *Router) SetLevelApplier(a LevelApplier) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.opts.engine = a
	if r.initialized.Load() {
		r.apply(r.cfg.Level)
	}
}

// MaxLatency 返回观测到的最大单次输出耗时
func (r *Router) MaxLatency() time.Duration {
	return time.Duration(r.maxLatency.Load())
}

// Stats 返回统计快照
func (r *Router) Stats() Stats {
	return Stats{
		Records:    r.records.Load(),
		Failures:   r.failures.Load(),
		MaxLatency: r.MaxLatency(),
	}
}

func (r *Router) apply(level xlog.Level) {
	if r.opts.engine != nil {
		r.opts.engine.SetLevel(level)
	}
}

func (r *Router) warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if r.opts.diag != nil {
		r.opts.diag.Warn(ctx, msg, attrs...)
	}
}

func (r *Router) debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if r.opts.diag != nil {
		r.opts.diag.Debug(ctx, msg, attrs...)
	}
}
