package xprobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/omeyang/xelog/pkg/util/xlock"
)

// DefaultCapacity 默认缓冲区容量
const DefaultCapacity = 1024

// Mode 缓冲区满时的处理方式
type Mode uint8

const (
	// ModeSkip 放不下时丢弃整条记录
	ModeSkip Mode = iota
	// ModeTrim 放不下时截断记录
	ModeTrim
)

// String 返回模式名称
func (m Mode) String() string {
	switch m {
	case ModeSkip:
		return "skip"
	case ModeTrim:
		return "trim"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode 解析模式名称，空字符串为 skip
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return ModeSkip, nil
	case "trim":
		return ModeTrim, nil
	default:
		return ModeSkip, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Stats 缓冲区统计
type Stats struct {
	// Written 已写入缓冲区的字节数
	Written uint64
	// Dropped 因空间不足或锁被占用而丢弃的字节数
	Dropped uint64
	// DroppedRecords 完全或部分丢弃的记录数
	DroppedRecords uint64
}

// Buffer 调试探针上行缓冲区
type Buffer struct {
	mu   *xlock.Mutex
	mode Mode

	// 以下字段受 mu 保护
	data  []byte
	rd    int
	n     int
	stats Stats

	// 非阻塞获取失败时无法持锁，丢弃计数走原子变量
	busyBytes   atomic.Uint64
	busyRecords atomic.Uint64
}

// New 创建容量为 capacity 字节的缓冲区
func New(capacity int, mode Mode) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if mode != ModeSkip && mode != ModeTrim {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, mode)
	}
	return &Buffer{
		mu:   xlock.New(),
		mode: mode,
		data: make([]byte, capacity),
	}, nil
}

func (b *Buffer) lock(ctx context.Context, mode xlock.Mode) (xlock.Handle, error) {
	h, err := b.mu.Lock(ctx, mode)
	switch {
	case err == nil:
		return h, nil
	case errors.Is(err, xlock.ErrLockOccupied):
		return nil, ErrBusy
	case errors.Is(err, xlock.ErrClosed):
		return nil, ErrClosed
	default:
		return nil, err
	}
}

// Write 阻塞获取缓冲区锁后写入一条记录
func (b *Buffer) Write(p []byte) (int, error) {
	return b.WriteMode(context.Background(), xlock.ModeBlocking, p)
}

// WriteMode 按锁模式写入一条记录
//
// ModeSkip 下放不下时返回 (0, ErrSkipped)；ModeTrim 下返回实际写入的字节数
// 和 io.ErrShortWrite。非阻塞获取失败时整条记录计入丢弃并返回 [ErrBusy]。
func (b *Buffer) WriteMode(ctx context.Context, mode xlock.Mode, p []byte) (int, error) {
	h, err := b.lock(ctx, mode)
	if err != nil {
		if errors.Is(err, ErrBusy) {
			b.busyBytes.Add(uint64(len(p)))
			b.busyRecords.Add(1)
		}
		return 0, err
	}
	defer func() { _ = h.Unlock() }()

	free := len(b.data) - b.n
	if len(p) > free {
		b.stats.DroppedRecords++
		if b.mode == ModeSkip {
			b.stats.Dropped += uint64(len(p))
			return 0, ErrSkipped
		}
		b.stats.Dropped += uint64(len(p) - free)
		b.put(p[:free])
		return free, io.ErrShortWrite
	}
	b.put(p)
	return len(p), nil
}

// put 把 p 写入环形区，调用方保证空间足够
func (b *Buffer) put(p []byte) {
	wr := (b.rd + b.n) % len(b.data)
	c := copy(b.data[wr:], p)
	copy(b.data, p[c:])
	b.n += len(p)
	b.stats.Written += uint64(len(p))
}

// Read 由主机侧调用，取出最多 len(p) 字节
//
// 缓冲区为空时返回 (0, nil)，不阻塞。
func (b *Buffer) Read(p []byte) (int, error) {
	h, err := b.lock(context.Background(), xlock.ModeBlocking)
	if err != nil {
		return 0, err
	}
	defer func() { _ = h.Unlock() }()

	n := min(len(p), b.n)
	c := copy(p[:n], b.data[b.rd:])
	copy(p[c:n], b.data)
	b.rd = (b.rd + n) % len(b.data)
	b.n -= n
	if b.n == 0 {
		b.rd = 0
	}
	return n, nil
}

// Len 返回待读取的字节数
func (b *Buffer) Len() int {
	h, err := b.lock(context.Background(), xlock.ModeBlocking)
	if err != nil {
		return 0
	}
	defer func() { _ = h.Unlock() }()
	return b.n
}

// Cap 返回缓冲区容量
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Stats 返回统计快照
func (b *Buffer) Stats() Stats {
	h, err := b.lock(context.Background(), xlock.ModeBlocking)
	if err != nil {
		return Stats{}
	}
	defer func() { _ = h.Unlock() }()

	st := b.stats
	st.Dropped += b.busyBytes.Load()
	st.DroppedRecords += b.busyRecords.Load()
	return st
}

// Close 关闭缓冲区，之后的读写返回 [ErrClosed]
func (b *Buffer) Close() error {
	if err := b.mu.Close(); err != nil {
		return ErrClosed
	}
	return nil
}

// Drain 每隔 interval 把缓冲区内容转发到 w，直到 ctx 结束
//
// 退出前做最后一次转发。clock 为 nil 时使用真实时钟。
// interval 不大于 0 时返回 [ErrInvalidInterval]。
func (b *Buffer) Drain(ctx context.Context, w io.Writer, interval time.Duration, clock clockwork.Clock) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	buf := make([]byte, len(b.data))
	for {
		select {
		case <-ctx.Done():
			if err := b.flushTo(w, buf); err != nil {
				return err
			}
			return nil
		case <-ticker.Chan():
			if err := b.flushTo(w, buf); err != nil {
				return err
			}
		}
	}
}

func (b *Buffer) flushTo(w io.Writer, buf []byte) error {
	for {
		n, err := b.Read(buf)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return fmt.Errorf("xprobe: drain: %w", err)
		}
	}
}
