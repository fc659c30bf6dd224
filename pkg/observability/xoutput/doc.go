// Package xoutput 负责把已格式化的日志记录路由到选中的输出通道，
// 并持久化通道与过滤级别配置。
//
// # 通道
//
// [ChannelNone]、[ChannelDebugProbe]、[ChannelSerial]、[ChannelFile]。
// 通道是单选值而非位掩码，选中后由 [Plan] 决定实际触发哪些传输：
//
//   - [SinglePlan]（默认）：只触发选中的通道
//   - [CascadePlan]：按显式列表逐级触发，
//     DebugProbe → {DebugProbe, Serial, File}，Serial → {Serial, File}，File → {File}
//
// # 配置持久化
//
// [Router.SetChannel] 与 [Router.SetLevel] 先更新内存，再通过 [Store] 写回存储，
// 写回失败时回滚内存值并返回 [ErrConfig]。值未变化时不写存储；
// 但 SetLevel 即使值未变也会把级别重新应用到日志引擎。
//
// [FileStore] 以固定 12 字节记录保存配置：
//
//	[0]    channel (uint8)
//	[1]    level   (uint8)
//	[2:4]  保留，写 0
//	[4:12] xxhash64(bytes[0:4])，小端
//
// 长度或校验和不符的记录视为不存在；越界字段单独回退到默认值。
//
// # 延迟诊断
//
// Router 记录单次输出的最大耗时。出现新的最大值时通过注入的诊断 logger
// 上报（超过阈值为 Warn，否则为 Debug），用于发现慢传输造成的背压。
// 诊断 logger 不得以同一个 Router 作为输出。
package xoutput
