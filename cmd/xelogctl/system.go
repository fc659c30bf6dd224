package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/omeyang/xelog/pkg/config/xconf"
	"github.com/omeyang/xelog/pkg/observability/xlog"
	"github.com/omeyang/xelog/pkg/observability/xoutput"
	"github.com/omeyang/xelog/pkg/observability/xrotate"
	"github.com/omeyang/xelog/pkg/transport/xprobe"
	"github.com/omeyang/xelog/pkg/transport/xserial"
)

// system 一次命令运行所需的组件
//
// 组装顺序：诊断 logger → 文件 sink → 传输 → 路由器 → 日志引擎。
// 日志引擎以路由器为输出，诊断 logger 直接写 stderr。
type system struct {
	settings xconf.Settings
	diag     xlog.Logger

	sink   *xrotate.FileSink // generation 后端；lumberjack 后端时为 nil
	file   xoutput.Transport
	probe  *xprobe.Buffer
	serial *xserial.Port
	router *xoutput.Router
	engine xlog.LoggerWithLevel

	closers []func() error
}

// loadSettings 加载配置；path 为空时使用默认配置
func loadSettings(path string) (*xconf.Source, xconf.Settings, error) {
	var (
		src *xconf.Source
		err error
	)
	if path == "" {
		src, err = xconf.FromBytes(nil, xconf.FormatYAML)
	} else {
		src, err = xconf.Open(path)
	}
	if err != nil {
		return nil, xconf.Settings{}, err
	}
	settings, err := src.Settings()
	if err != nil {
		return nil, xconf.Settings{}, err
	}
	return src, settings, nil
}

// newDiag 创建写到 w 的诊断 logger
func newDiag(s xconf.Settings, w io.Writer) (xlog.Logger, func() error, error) {
	l, cleanup, err := xlog.New().
		SetOutput(w).
		SetLevel(s.Diag.Level).
		SetFormat(s.Diag.Format).
		Build()
	if err != nil {
		return nil, nil, err
	}
	return l.With(xlog.Component("xelogctl")), cleanup, nil
}

// newFileSink 创建并初始化 generation 后端的文件 sink
func newFileSink(ctx context.Context, s xconf.Settings, diag xlog.Logger) (*xrotate.FileSink, error) {
	sink, err := xrotate.NewFileSink(s.SinkConfig(),
		xrotate.WithReopenAttempts(s.File.ReopenAttempts, 0),
		xrotate.WithOnError(func(err error) {
			diag.Warn(context.Background(), "file sink warning", xlog.Err(err))
		}),
		xrotate.WithOnRotate(func(ev xrotate.RotateEvent) {
			if ev.Err != nil {
				diag.Error(context.Background(), "rotation failed",
					xlog.Err(ev.Err), xlog.Duration(ev.Duration))
				return
			}
			diag.Debug(context.Background(), "rotated "+ev.Path, xlog.Duration(ev.Duration))
		}),
	)
	if err != nil {
		return nil, err
	}
	if err := sink.Init(ctx); err != nil {
		return nil, errors.Join(err, sink.Close())
	}
	return sink, nil
}

// newStore 创建通道配置存储
func newStore(s xconf.Settings) (*xoutput.FileStore, error) {
	return xoutput.NewFileStore(nil, s.Output.ConfigPath)
}

// newRouter 创建并初始化只带配置存储的路由器，用于 channel/level 命令
func newRouter(ctx context.Context, s xconf.Settings, diag xlog.Logger, opts ...xoutput.Option) (*xoutput.Router, error) {
	store, err := newStore(s)
	if err != nil {
		return nil, err
	}
	opts = append([]xoutput.Option{
		xoutput.WithDefaults(s.OutputDefaults()),
		xoutput.WithPlan(s.Plan()),
		xoutput.WithLatencyWarn(s.Output.LatencyWarn),
		xoutput.WithLogger(diag),
	}, opts...)

	r, err := xoutput.New(store, opts...)
	if err != nil {
		return nil, err
	}
	// 读取失败时路由器已回退到默认配置，只告警
	if err := r.Init(ctx); err != nil {
		diag.Warn(ctx, "output config unavailable", xlog.Err(err))
	}
	return r, nil
}

// newSystem 组装完整的输出链路
//
// withProbe 为 false 时不创建调试探针缓冲区。
func newSystem(ctx context.Context, s xconf.Settings, diag xlog.Logger, withProbe bool) (*system, error) {
	sys := &system{settings: s, diag: diag}
	if err := sys.build(ctx, withProbe); err != nil {
		return nil, errors.Join(err, sys.Close())
	}
	return sys, nil
}

func (sys *system) build(ctx context.Context, withProbe bool) error {
	s := sys.settings
	var opts []xoutput.Option
	if s.File.Path != "" {
		if err := sys.openFile(ctx); err != nil {
			return err
		}
		opts = append(opts, xoutput.WithTransport(xoutput.ChannelFile, sys.file))
	}

	if s.Serial.Device != "" {
		port, err := xserial.Open(s.Serial.Device,
			xserial.WithBaud(s.Serial.Baud),
			xserial.WithCRLF(s.Serial.CRLF),
		)
		if err != nil {
			return err
		}
		sys.serial = port
		sys.closers = append(sys.closers, port.Close)
		opts = append(opts, xoutput.WithTransport(xoutput.ChannelSerial, port))
	}

	if withProbe {
		buf, err := xprobe.New(s.Probe.Capacity, s.ProbeMode())
		if err != nil {
			return err
		}
		sys.probe = buf
		sys.closers = append(sys.closers, buf.Close)
		opts = append(opts, xoutput.WithTransport(xoutput.ChannelDebugProbe, buf))
	}

	router, err := newRouter(ctx, s, sys.diag, opts...)
	if err != nil {
		return err
	}
	sys.router = router

	engine, cleanup, err := xlog.New().
		SetOutput(router).
		SetLevel(router.GetLevel()).
		SetOnError(func(err error) {
			sys.diag.Warn(context.Background(), "output failed", xlog.Err(err))
		}).
		Build()
	if err != nil {
		return err
	}
	router.SetLevelApplier(engine)
	sys.engine = engine
	sys.closers = append(sys.closers, cleanup)
	return nil
}

func (sys *system) openFile(ctx context.Context) error {
	s := sys.settings
	switch s.File.Backend {
	case xconf.BackendLumberjack:
		r, err := xrotate.NewLumberjack(s.SinkConfig(), xrotate.WithCompress(s.File.Compress))
		if err != nil {
			return err
		}
		sys.file = r
		sys.closers = append(sys.closers, r.Close)
	default:
		sink, err := newFileSink(ctx, s, sys.diag)
		if err != nil {
			return err
		}
		sys.sink = sink
		sys.file = sink
		sys.closers = append(sys.closers, func() error {
			return errors.Join(sink.Deinit(context.Background()), sink.Close())
		})
	}
	return nil
}

// Close 逆序关闭所有组件
func (sys *system) Close() error {
	var errs []error
	if sys.router != nil {
		if err := sys.router.Deinit(); err != nil && !errors.Is(err, xoutput.ErrNotInitialized) {
			errs = append(errs, err)
		}
	}
	for i := len(sys.closers) - 1; i >= 0; i-- {
		if err := sys.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	sys.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("close: %w", errors.Join(errs...))
	}
	return nil
}
