package xlock

import (
	"context"
	"strconv"
	"sync/atomic"
)

// Mode 锁获取模式
type Mode int

const (
	// ModeBlocking 阻塞获取，直到成功、ctx 结束或锁关闭。
	ModeBlocking Mode = iota

	// ModeNonBlocking 非阻塞获取，锁被占用时返回 [ErrLockOccupied]。
	ModeNonBlocking
)

// String 返回模式的可读名称
func (m Mode) String() string {
	switch m {
	case ModeBlocking:
		return "blocking"
	case ModeNonBlocking:
		return "nonblocking"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Handle 表示一次成功的锁获取。
// Unlock 是幂等的：第一次调用释放锁并返回 nil，后续调用返回 [ErrLockNotHeld]。
type Handle interface {
	Unlock() error
}

// Mutex 互斥锁
//
// ch 是 size=1 的 channel：发送成功 = 获取锁，接收 = 释放锁。
// 锁是非可重入的，与 sync.Mutex 一致。
type Mutex struct {
	ch     chan struct{}
	done   chan struct{}
	closed atomic.Bool
}

type handle struct {
	m        *Mutex
	released atomic.Bool
}

// 编译期接口检查
var _ Handle = (*handle)(nil)

// New 创建互斥锁
func New() *Mutex {
	return &Mutex{
		ch:   make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Acquire 阻塞式获取锁
//
// ctx 取消时返回 ctx.Err()，锁关闭时返回 [ErrClosed]。
// 当 Close 与 ctx 取消同时发生时，两种错误都有可能（select 语义）。
func (m *Mutex) Acquire(ctx context.Context) (Handle, error) {
	if ctx == nil {
		panic("xlock: nil Context")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.closed.Load() {
		return nil, ErrClosed
	}
	select {
	case m.ch <- struct{}{}:
		return &handle{m: m}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, ErrClosed
	}
}

// TryAcquire 非阻塞获取锁
func (m *Mutex) TryAcquire() (Handle, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	select {
	case m.ch <- struct{}{}:
		return &handle{m: m}, nil
	default:
		return nil, ErrLockOccupied
	}
}

// Lock 按调用点指定的模式获取锁
func (m *Mutex) Lock(ctx context.Context, mode Mode) (Handle, error) {
	switch mode {
	case ModeBlocking:
		return m.Acquire(ctx)
	case ModeNonBlocking:
		return m.TryAcquire()
	default:
		return nil, ErrInvalidMode
	}
}

// Close 关闭锁，唤醒所有阻塞等待者。
// 已持有的 Handle 仍可正常 Unlock。重复调用返回 [ErrClosed]。
func (m *Mutex) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	close(m.done)
	return nil
}

func (h *handle) Unlock() error {
	if !h.released.CompareAndSwap(false, true) {
		return ErrLockNotHeld
	}
	<-h.m.ch
	return nil
}
