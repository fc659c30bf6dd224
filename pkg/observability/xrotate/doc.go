// Package xrotate 提供按大小轮转的日志文件落盘能力。
//
// Rotator 接口定义了轮转器的核心行为（Write/Close/Rotate），所有实现并发安全。
//
// # 当前实现
//
//   - [FileSink]: 面向 flash 文件系统的代际轮转（base、base.0 … base.(N-1)），
//     每次写入后强制 Sync
//   - [NewLumberjack]: 基于 lumberjack v2 的宿主机实现，备份文件带时间戳
//
// # 代际链
//
// 对基础路径 P 和上限 N，文件 P、P.0、P.1 … P.(N-1) 从新到旧排列。
// 轮转时删除 P.(N-1)，P.(k-1) 依次改名为 P.k，P 改名为 P.0，
// 最后重新打开一个空的 P 继续追加。
//
// MaxGenerations 为 0 表示不保留历史：文件超过上限后的写入被丢弃
// （返回 [ErrDropped]），不会无限增长。
//
// # 写入流程
//
// 在实例锁内依次执行：Seek 到末尾取得当前大小 → [ShouldRotate] 判断 →
// 必要时由 [Renamer] 轮转并重新打开 → 追加 → Sync。
// 任何一步失败都只影响本次写入，锁在所有返回路径上释放。
//
// # 锁模式
//
// [FileSink.Write] 使用 [WithLockMode] 指定的默认模式（阻塞）。
// 不可阻塞的调用点使用 [FileSink.WriteMode] 传入 xlock.ModeNonBlocking，
// 锁被占用时返回 [ErrLockBusy]。
package xrotate
