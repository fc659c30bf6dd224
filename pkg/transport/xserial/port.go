package xserial

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/omeyang/xelog/pkg/util/xlock"
)

// DefaultBaud 默认波特率
const DefaultBaud = 115200

type options struct {
	baud int
	crlf bool
}

// Option 端口配置选项函数
type Option func(*options)

// WithBaud 设置波特率，只在设备是终端时生效
func WithBaud(baud int) Option {
	return func(o *options) {
		o.baud = baud
	}
}

// WithCRLF 把记录中的 "\n" 转换为 "\r\n"
func WithCRLF(enable bool) Option {
	return func(o *options) {
		o.crlf = enable
	}
}

// Port 串口输出端口
type Port struct {
	mu       *xlock.Mutex
	f        *os.File
	device   string
	crlf     bool
	terminal bool
}

// Open 以只写方式打开设备
func Open(device string, opts ...Option) (*Port, error) {
	if device == "" {
		return nil, ErrEmptyDevice
	}
	o := options{baud: DefaultBaud}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	//#nosec G304 -- 设备路径来自运维配置
	f, err := os.OpenFile(device, openFlags, 0)
	if err != nil {
		return nil, fmt.Errorf("xserial: open %s: %w", device, err)
	}

	terminal, err := configure(f, o.baud)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("xserial: configure %s: %w", device, err), f.Close())
	}

	return &Port{
		mu:       xlock.New(),
		f:        f,
		device:   device,
		crlf:     o.crlf,
		terminal: terminal,
	}, nil
}

// Device 返回设备路径
func (p *Port) Device() string {
	return p.device
}

// IsTerminal 报告设备是否为终端
func (p *Port) IsTerminal() bool {
	return p.terminal
}

// Write 阻塞写入一条记录
func (p *Port) Write(b []byte) (int, error) {
	return p.WriteMode(context.Background(), xlock.ModeBlocking, b)
}

// WriteMode 按锁模式写入一条记录
//
// 成功时返回 len(b)，与 CRLF 转换后实际发送的字节数无关。
func (p *Port) WriteMode(ctx context.Context, mode xlock.Mode, b []byte) (int, error) {
	h, err := p.mu.Lock(ctx, mode)
	switch {
	case errors.Is(err, xlock.ErrLockOccupied):
		return 0, ErrBusy
	case errors.Is(err, xlock.ErrClosed):
		return 0, ErrClosed
	case err != nil:
		return 0, err
	}
	defer func() { _ = h.Unlock() }()

	out := b
	if p.crlf {
		out = toCRLF(b)
	}
	n, err := p.f.Write(out)
	if err == nil && n < len(out) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return 0, fmt.Errorf("xserial: write %s: %w", p.device, err)
	}
	return len(b), nil
}

// toCRLF 把单独的 "\n" 替换为 "\r\n"，已有的 "\r\n" 保持不变
func toCRLF(b []byte) []byte {
	if bytes.IndexByte(b, '\n') < 0 {
		return b
	}
	out := make([]byte, 0, len(b)+bytes.Count(b, []byte{'\n'}))
	for i, c := range b {
		if c == '\n' && (i == 0 || b[i-1] != '\r') {
			out = append(out, '\r')
		}
		out = append(out, c)
	}
	return out
}

// Close 关闭端口
func (p *Port) Close() error {
	if err := p.mu.Close(); err != nil {
		return ErrClosed
	}
	return p.f.Close()
}
