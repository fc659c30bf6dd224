package xoutput

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xelog/pkg/observability/xlog"
)

// DefaultLatencyWarn 输出延迟告警阈值
const DefaultLatencyWarn = 50 * time.Millisecond

type routerOptions struct {
	transports    map[Channel]Transport
	plan          Plan
	engine        LevelApplier
	diag          xlog.Logger
	latencyWarn   time.Duration
	clock         clockwork.Clock
	meterProvider metric.MeterProvider
	defaults      Config
}

func defaultRouterOptions() routerOptions {
	return routerOptions{
		transports:    make(map[Channel]Transport),
		plan:          SinglePlan,
		latencyWarn:   DefaultLatencyWarn,
		clock:         clockwork.NewRealClock(),
		meterProvider: otel.GetMeterProvider(),
		defaults:      DefaultConfig(),
	}
}

// Option Router 配置选项函数
type Option func(*routerOptions)

// WithTransport 为通道注册传输，t 为 nil 时移除
func WithTransport(ch Channel, t Transport) Option {
	return func(o *routerOptions) {
		if t == nil {
			delete(o.transports, ch)
			return
		}
		o.transports[ch] = t
	}
}

// WithPlan 设置分发计划，默认 [SinglePlan]
func WithPlan(p Plan) Option {
	return func(o *routerOptions) {
		if p != nil {
			o.plan = p
		}
	}
}

// WithLevelApplier 设置日志引擎，Init 与 SetLevel 会把级别应用到它
func WithLevelApplier(a LevelApplier) Option {
	return func(o *routerOptions) {
		o.engine = a
	}
}

// WithLogger 设置诊断 logger
//
// 诊断 logger 的输出不能经过同一个 Router，否则会递归。
func WithLogger(l xlog.Logger) Option {
	return func(o *routerOptions) {
		o.diag = l
	}
}

// WithLatencyWarn 设置输出延迟告警阈值，<= 0 时保持默认值
func WithLatencyWarn(d time.Duration) Option {
	return func(o *routerOptions) {
		if d > 0 {
			o.latencyWarn = d
		}
	}
}

// WithClock 设置时钟，测试时注入 clockwork.FakeClock
func WithClock(c clockwork.Clock) Option {
	return func(o *routerOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认使用全局 provider
func WithMeterProvider(p metric.MeterProvider) Option {
	return func(o *routerOptions) {
		if p != nil {
			o.meterProvider = p
		}
	}
}

// WithDefaults 设置编译期默认配置，存储中没有有效记录时使用
func WithDefaults(cfg Config) Option {
	return func(o *routerOptions) {
		o.defaults = cfg
	}
}
