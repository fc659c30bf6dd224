package xconf

import (
	"fmt"
	"time"

	"github.com/omeyang/xelog/pkg/observability/xlog"
	"github.com/omeyang/xelog/pkg/observability/xoutput"
	"github.com/omeyang/xelog/pkg/observability/xrotate"
	"github.com/omeyang/xelog/pkg/transport/xprobe"
	"github.com/omeyang/xelog/pkg/transport/xserial"
)

// 文件 sink 后端
const (
	BackendGeneration = "generation"
	BackendLumberjack = "lumberjack"
)

// Settings 启动配置
type Settings struct {
	File   FileSettings   `koanf:"file"`
	Output OutputSettings `koanf:"output"`
	Serial SerialSettings `koanf:"serial"`
	Probe  ProbeSettings  `koanf:"probe"`
	Diag   DiagSettings   `koanf:"diag"`
}

// FileSettings 文件 sink 配置
type FileSettings struct {
	Path           string `koanf:"path"`
	MaxSize        uint64 `koanf:"max_size"`
	MaxGenerations uint   `koanf:"max_generations"`
	Backend        string `koanf:"backend"`
	ReopenAttempts uint   `koanf:"reopen_attempts"`
	// Compress 只对 lumberjack 后端生效
	Compress bool `koanf:"compress"`
}

// OutputSettings 通道路由配置
type OutputSettings struct {
	ConfigPath  string          `koanf:"config_path"`
	Channel     xoutput.Channel `koanf:"channel"`
	Level       xlog.Level      `koanf:"level"`
	Plan        string          `koanf:"plan"`
	LatencyWarn time.Duration   `koanf:"latency_warn"`
}

// SerialSettings 串口传输配置，Device 为空表示不启用
type SerialSettings struct {
	Device string `koanf:"device"`
	Baud   int    `koanf:"baud"`
	CRLF   bool   `koanf:"crlf"`
}

// ProbeSettings 调试探针缓冲区配置
type ProbeSettings struct {
	Capacity int    `koanf:"capacity"`
	Mode     string `koanf:"mode"`
}

// DiagSettings 诊断日志配置，诊断日志写到 stderr
type DiagSettings struct {
	Level  xlog.Level `koanf:"level"`
	Format string     `koanf:"format"`
}

// Default 返回默认配置
func Default() Settings {
	sink := xrotate.DefaultConfig()
	out := xoutput.DefaultConfig()
	return Settings{
		File: FileSettings{
			Path:           sink.Path,
			MaxSize:        sink.MaxSize,
			MaxGenerations: sink.MaxGenerations,
			Backend:        BackendGeneration,
			ReopenAttempts: 1,
		},
		Output: OutputSettings{
			ConfigPath:  xoutput.DefaultConfigPath,
			Channel:     out.Channel,
			Level:       out.Level,
			Plan:        "single",
			LatencyWarn: xoutput.DefaultLatencyWarn,
		},
		Serial: SerialSettings{Baud: xserial.DefaultBaud},
		Probe:  ProbeSettings{Capacity: xprobe.DefaultCapacity, Mode: "skip"},
		Diag:   DiagSettings{Level: xlog.LevelWarn, Format: "text"},
	}
}

// Validate 校验配置值
func (s Settings) Validate() error {
	if err := s.SinkConfig().Validate(); err != nil {
		return fmt.Errorf("%w: file: %w", ErrInvalidSettings, err)
	}
	switch s.File.Backend {
	case BackendGeneration:
	case BackendLumberjack:
		if s.File.MaxGenerations == 0 {
			return fmt.Errorf("%w: file: lumberjack backend requires max_generations >= 1", ErrInvalidSettings)
		}
	default:
		return fmt.Errorf("%w: file.backend %q", ErrInvalidSettings, s.File.Backend)
	}
	if s.File.ReopenAttempts == 0 {
		return fmt.Errorf("%w: file.reopen_attempts must be >= 1", ErrInvalidSettings)
	}

	if !s.Output.Channel.Valid() {
		return fmt.Errorf("%w: output.channel %d", ErrInvalidSettings, s.Output.Channel)
	}
	if !s.Output.Level.Valid() {
		return fmt.Errorf("%w: output.level %d", ErrInvalidSettings, s.Output.Level)
	}
	if _, ok := xoutput.ParsePlan(s.Output.Plan); !ok {
		return fmt.Errorf("%w: output.plan %q", ErrInvalidSettings, s.Output.Plan)
	}
	if s.Output.LatencyWarn < 0 {
		return fmt.Errorf("%w: output.latency_warn %s", ErrInvalidSettings, s.Output.LatencyWarn)
	}

	if s.Probe.Capacity <= 0 {
		return fmt.Errorf("%w: probe.capacity %d", ErrInvalidSettings, s.Probe.Capacity)
	}
	if _, err := xprobe.ParseMode(s.Probe.Mode); err != nil {
		return fmt.Errorf("%w: probe.mode: %w", ErrInvalidSettings, err)
	}

	if !s.Diag.Level.Valid() {
		return fmt.Errorf("%w: diag.level %d", ErrInvalidSettings, s.Diag.Level)
	}
	switch s.Diag.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: diag.format %q", ErrInvalidSettings, s.Diag.Format)
	}
	return nil
}

// SinkConfig 返回 file 段对应的 sink 配置
func (s Settings) SinkConfig() xrotate.Config {
	return xrotate.Config{
		Path:           s.File.Path,
		MaxSize:        s.File.MaxSize,
		MaxGenerations: s.File.MaxGenerations,
	}
}

// OutputDefaults 返回没有持久化记录时使用的通道配置
func (s Settings) OutputDefaults() xoutput.Config {
	return xoutput.Config{Channel: s.Output.Channel, Level: s.Output.Level}
}

// Plan 返回 output.plan 对应的分发计划
func (s Settings) Plan() xoutput.Plan {
	p, ok := xoutput.ParsePlan(s.Output.Plan)
	if !ok {
		return xoutput.SinglePlan
	}
	return p
}

// ProbeMode 返回 probe.mode 对应的溢出模式
func (s Settings) ProbeMode() xprobe.Mode {
	m, err := xprobe.ParseMode(s.Probe.Mode)
	if err != nil {
		return xprobe.ModeSkip
	}
	return m
}
