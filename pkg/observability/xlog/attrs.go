package xlog

import (
	"log/slog"
	"time"
)

// 常用属性 Key
const (
	// KeyError 错误字段
	KeyError = "error"

	// KeyComponent 组件名称字段
	KeyComponent = "component"

	// KeyDuration 耗时字段
	KeyDuration = "duration"
)

// Err 创建错误属性，err 为 nil 时返回空属性（会被 slog 忽略）
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Component 创建组件名称属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Duration 创建耗时属性，输出人类可读格式（如 "1.5ms"）
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}
