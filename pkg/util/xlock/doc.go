// Package xlock 提供单实例互斥锁，支持阻塞与非阻塞两种获取模式。
//
// 同一把锁上的两种获取方式由调用点选择，而不是由平台条件决定：
//
//   - [ModeBlocking]: 普通任务上下文，阻塞直到获得锁或 ctx 结束
//   - [ModeNonBlocking]: 中断相邻/不可阻塞的上下文，锁被占用时立即返回
//     [ErrLockOccupied]，调用方应跳过本次操作而不是等待
//
// 锁基于容量为 1 的 channel 实现，因此阻塞获取可以和 ctx 取消、
// 锁关闭一起参与 select。
//
// 示例：
//
//	mu := xlock.New()
//	h, err := mu.Lock(ctx, xlock.ModeNonBlocking)
//	if errors.Is(err, xlock.ErrLockOccupied) {
//	    return // 尽力而为，放弃本次写入
//	}
//	defer h.Unlock()
package xlock
