package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xelog/pkg/config/xconf"
	"github.com/omeyang/xelog/pkg/observability/xlog"
	"github.com/omeyang/xelog/pkg/observability/xoutput"
)

// probeDrainInterval 调试探针缓冲区转发到 stdout 的周期
const probeDrainInterval = 50 * time.Millisecond

// usageError 参数错误，映射为退出码 2
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// onUsageError 把 flag 解析错误包装为 usageError
func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{err: err}
}

// env 命令共享的运行环境
type env struct {
	src      *xconf.Source
	settings xconf.Settings
	diag     xlog.Logger
	cleanup  func() error
	stdin    io.Reader
	stdout   io.Writer
}

// newEnv 加载配置并创建写到 stderr 的诊断 logger
func newEnv(cmd *cli.Command) (*env, error) {
	root := cmd.Root()
	src, settings, err := loadSettings(root.String("config"))
	if err != nil {
		if errors.Is(err, xconf.ErrInvalidSettings) || errors.Is(err, xconf.ErrUnsupportedFormat) {
			return nil, &usageError{err: err}
		}
		return nil, err
	}
	diag, cleanup, err := newDiag(settings, root.ErrWriter)
	if err != nil {
		return nil, err
	}
	return &env{
		src:      src,
		settings: settings,
		diag:     diag,
		cleanup:  cleanup,
		stdin:    root.Reader,
		stdout:   root.Writer,
	}, nil
}

func (e *env) close() {
	_ = e.cleanup()
}

// 创建所有子命令
func createCommands() []*cli.Command {
	return []*cli.Command{
		createWriteCommand(),
		createChannelCommand(),
		createLevelCommand(),
		createRotateCommand(),
	}
}

// createWriteCommand 创建 write 子命令
func createWriteCommand() *cli.Command {
	return &cli.Command{
		Name:      "write",
		Aliases:   []string{"w"},
		Usage:     "把 stdin 的每一行作为一条日志写入当前通道",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "as",
				Usage: "记录级别 (assert/error/warn/info/debug/verbose)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: "附加到每条记录的 component 属性",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "配置文件变更时重新配置文件 sink（需要 --config）",
			},
			&cli.BoolFlag{
				Name:  "probe",
				Usage: "启用调试探针通道，缓冲区内容转发到 stdout",
			},
		},
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			level, err := xlog.ParseLevel(cmd.String("as"))
			if err != nil {
				return &usageError{err: err}
			}
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()
			if cmd.Bool("watch") && e.src.Path() == "" {
				return usagef("--watch requires --config")
			}
			return cmdWrite(ctx, e, writeOptions{
				level: level,
				tag:   cmd.String("tag"),
				watch: cmd.Bool("watch"),
				probe: cmd.Bool("probe"),
			})
		},
	}
}

type writeOptions struct {
	level xlog.Level
	tag   string
	watch bool
	probe bool
}

// cmdWrite 组装输出链路并逐行写入
//
// 读取 stdin、配置监视、探针转发在同一个 errgroup 中运行，
// stdin 读完后取消其余任务。
func cmdWrite(ctx context.Context, e *env, opts writeOptions) (err error) {
	sys, err := newSystem(ctx, e.settings, e.diag, opts.probe)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, sys.Close()) }()

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	if opts.watch {
		if sys.sink == nil {
			e.diag.Warn(ctx, "--watch ignored: backend does not support reconfigure",
				slog.String("backend", e.settings.File.Backend))
		} else {
			w, err := xconf.Watch(e.src, xconf.SinkReloader(runCtx, sys.sink, func(err error) {
				e.diag.Error(context.Background(), "reload failed", xlog.Err(err))
			}))
			if err != nil {
				return err
			}
			g.Go(func() error { return w.Run(runCtx) })
		}
	}

	if sys.probe != nil {
		g.Go(func() error {
			return sys.probe.Drain(runCtx, e.stdout, probeDrainInterval, nil)
		})
	}

	logger := xlog.Logger(sys.engine)
	if opts.tag != "" {
		logger = logger.With(xlog.Component(opts.tag))
	}
	g.Go(func() error {
		defer cancel()
		return pipeLines(runCtx, e.stdin, logger, opts.level)
	})
	return g.Wait()
}

// pipeLines 把 r 的每一行按 level 写入 logger，空行跳过
func pipeLines(ctx context.Context, r io.Reader, logger xlog.Logger, level xlog.Level) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := sc.Text()
		if line == "" {
			continue
		}
		logAt(ctx, logger, level, line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}

func logAt(ctx context.Context, l xlog.Logger, level xlog.Level, msg string) {
	switch level {
	case xlog.LevelAssert:
		l.Assert(ctx, msg)
	case xlog.LevelError:
		l.Error(ctx, msg)
	case xlog.LevelWarn:
		l.Warn(ctx, msg)
	case xlog.LevelInfo:
		l.Info(ctx, msg)
	case xlog.LevelDebug:
		l.Debug(ctx, msg)
	default:
		l.Verbose(ctx, msg)
	}
}

// createChannelCommand 创建 channel 子命令
func createChannelCommand() *cli.Command {
	return &cli.Command{
		Name:         "channel",
		Aliases:      []string{"ch"},
		Usage:        "查看/设置持久化的输出通道 (none/probe/serial/file)",
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdGetChannel(ctx, cmd)
		},
		Commands: []*cli.Command{
			{
				Name:         "get",
				Usage:        "查看当前通道",
				OnUsageError: onUsageError,
				Action:       cmdGetChannel,
			},
			{
				Name:         "set",
				Usage:        "设置通道",
				ArgsUsage:    "<channel>",
				OnUsageError: onUsageError,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return usagef("channel set requires exactly one argument")
					}
					ch, err := xoutput.ParseChannel(cmd.Args().First())
					if err != nil {
						return &usageError{err: err}
					}
					return withRouter(ctx, cmd, func(r *xoutput.Router, out io.Writer) error {
						if err := r.SetChannel(ch); err != nil {
							return err
						}
						_, err := fmt.Fprintln(out, r.GetChannel())
						return err
					})
				},
			},
		},
	}
}

func cmdGetChannel(ctx context.Context, cmd *cli.Command) error {
	return withRouter(ctx, cmd, func(r *xoutput.Router, out io.Writer) error {
		_, err := fmt.Fprintln(out, r.GetChannel())
		return err
	})
}

// createLevelCommand 创建 level 子命令
func createLevelCommand() *cli.Command {
	return &cli.Command{
		Name:         "level",
		Aliases:      []string{"lv"},
		Usage:        "查看/设置持久化的过滤级别 (assert/error/warn/info/debug/verbose 或 0-5)",
		OnUsageError: onUsageError,
		Action:       cmdGetLevel,
		Commands: []*cli.Command{
			{
				Name:         "get",
				Usage:        "查看当前级别",
				OnUsageError: onUsageError,
				Action:       cmdGetLevel,
			},
			{
				Name:         "set",
				Usage:        "设置级别",
				ArgsUsage:    "<level>",
				OnUsageError: onUsageError,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return usagef("level set requires exactly one argument")
					}
					level, err := xlog.ParseLevel(cmd.Args().First())
					if err != nil {
						return &usageError{err: err}
					}
					return withRouter(ctx, cmd, func(r *xoutput.Router, out io.Writer) error {
						if err := r.SetLevel(level); err != nil {
							return err
						}
						_, err := fmt.Fprintln(out, r.GetLevel())
						return err
					})
				},
			},
		},
	}
}

func cmdGetLevel(ctx context.Context, cmd *cli.Command) error {
	return withRouter(ctx, cmd, func(r *xoutput.Router, out io.Writer) error {
		_, err := fmt.Fprintln(out, r.GetLevel())
		return err
	})
}

// withRouter 创建只带配置存储的路由器并执行 fn
func withRouter(ctx context.Context, cmd *cli.Command, fn func(*xoutput.Router, io.Writer) error) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	r, err := newRouter(ctx, e.settings, e.diag)
	if err != nil {
		return err
	}
	defer func() { _ = r.Deinit() }()
	return fn(r, e.stdout)
}

// createRotateCommand 创建 rotate 子命令
func createRotateCommand() *cli.Command {
	return &cli.Command{
		Name:         "rotate",
		Usage:        "立即轮转文件 sink（仅 generation 后端）",
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()
			return cmdRotate(ctx, e)
		},
	}
}

func cmdRotate(ctx context.Context, e *env) (err error) {
	s := e.settings
	if s.File.Path == "" {
		return usagef("file sink is disabled (file.path is empty)")
	}
	if s.File.Backend != xconf.BackendGeneration {
		return usagef("rotate is only supported by the %s backend", xconf.BackendGeneration)
	}

	sink, err := newFileSink(ctx, s, e.diag)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sink.Deinit(context.Background()), sink.Close())
	}()

	if err := sink.Rotate(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.stdout, "rotated %s (%d generations)\n", s.File.Path, s.File.MaxGenerations)
	return err
}
