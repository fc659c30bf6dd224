package xoutput

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/omeyang/xelog/pkg/observability/xlog"
)

// Channel 输出通道选择
type Channel uint8

// 通道常量，数值即持久化值
const (
	ChannelNone Channel = iota
	ChannelDebugProbe
	ChannelSerial
	ChannelFile
)

// maxChannel 最大有效通道值
const maxChannel = ChannelFile

var channelNames = [...]string{
	ChannelNone:       "none",
	ChannelDebugProbe: "probe",
	ChannelSerial:     "serial",
	ChannelFile:       "file",
}

// Valid 报告通道值是否有效
func (c Channel) Valid() bool {
	return c <= maxChannel
}

// String 返回通道名称
func (c Channel) String() string {
	if !c.Valid() {
		return "Channel(" + strconv.Itoa(int(c)) + ")"
	}
	return channelNames[c]
}

// MarshalText 实现 encoding.TextMarshaler 接口
func (c Channel) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannel, c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口
func (c *Channel) UnmarshalText(data []byte) error {
	parsed, err := ParseChannel(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseChannel 解析通道名称或数字（大小写不敏感）
func ParseChannel(s string) (Channel, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "none", "off":
		return ChannelNone, nil
	case "probe", "debugprobe", "rtt":
		return ChannelDebugProbe, nil
	case "serial", "uart", "usb":
		return ChannelSerial, nil
	case "file":
		return ChannelFile, nil
	}
	if n, err := strconv.ParseUint(v, 10, 8); err == nil && Channel(n).Valid() {
		return Channel(n), nil
	}
	return ChannelNone, fmt.Errorf("%w: %q", ErrInvalidChannel, s)
}

// Config 通道配置，对应持久化记录
type Config struct {
	// Channel 选中的输出通道
	Channel Channel
	// Level 过滤级别 0..xlog.MaxLevel
	Level xlog.Level
}

// DefaultConfig 返回编译期默认配置：文件通道、Info 级别
func DefaultConfig() Config {
	return Config{Channel: ChannelFile, Level: xlog.LevelInfo}
}
