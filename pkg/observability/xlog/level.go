package xlog

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Level 过滤级别，0 最严重，数值越大越详细
type Level uint8

// 日志级别常量
const (
	LevelAssert Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelVerbose
)

// MaxLevel 最大有效级别
const MaxLevel = LevelVerbose

// slogLevels 与 slog.Level 的映射
//
// Assert 高于 slog.LevelError，Verbose 低于 slog.LevelDebug。
var slogLevels = [...]slog.Level{
	LevelAssert:  slog.LevelError + 4,
	LevelError:   slog.LevelError,
	LevelWarn:    slog.LevelWarn,
	LevelInfo:    slog.LevelInfo,
	LevelDebug:   slog.LevelDebug,
	LevelVerbose: slog.LevelDebug - 4,
}

var levelNames = [...]string{
	LevelAssert:  "ASSERT",
	LevelError:   "ERROR",
	LevelWarn:    "WARN",
	LevelInfo:    "INFO",
	LevelDebug:   "DEBUG",
	LevelVerbose: "VERBOSE",
}

// Valid 报告级别是否在 0..MaxLevel 范围内
func (l Level) Valid() bool {
	return l <= MaxLevel
}

// Slog 返回对应的 slog.Level，越界值按 Verbose 处理
func (l Level) Slog() slog.Level {
	if !l.Valid() {
		return slogLevels[MaxLevel]
	}
	return slogLevels[l]
}

// String 返回级别名称，越界值返回 "Level(n)"
func (l Level) String() string {
	if !l.Valid() {
		return "Level(" + strconv.Itoa(int(l)) + ")"
	}
	return levelNames[l]
}

// MarshalText 实现 encoding.TextMarshaler 接口
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("xlog: invalid level %d", l)
	}
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 解析字符串为日志级别
//
// 支持名称 assert/error/warn/warning/info/debug/verbose（大小写不敏感）
// 以及数字 0~5。输入会自动 TrimSpace。
func ParseLevel(s string) (Level, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "assert", "a":
		return LevelAssert, nil
	case "error", "e":
		return LevelError, nil
	case "warn", "warning", "w":
		return LevelWarn, nil
	case "info", "i":
		return LevelInfo, nil
	case "debug", "d":
		return LevelDebug, nil
	case "verbose", "v":
		return LevelVerbose, nil
	}
	if n, err := strconv.ParseUint(v, 10, 8); err == nil && Level(n).Valid() {
		return Level(n), nil
	}
	return LevelInfo, fmt.Errorf("xlog: unknown level %q", s)
}
