package xserial

import "errors"

var (
	// ErrEmptyDevice 未指定设备路径
	ErrEmptyDevice = errors.New("xserial: empty device path")

	// ErrUnsupportedBaud 不支持的波特率
	ErrUnsupportedBaud = errors.New("xserial: unsupported baud rate")

	// ErrBusy 非阻塞写入时端口正被占用
	ErrBusy = errors.New("xserial: port busy")

	// ErrClosed 端口已关闭
	ErrClosed = errors.New("xserial: closed")
)
