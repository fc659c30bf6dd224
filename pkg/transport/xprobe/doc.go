// Package xprobe 实现调试探针通道的上行缓冲区。
//
// Buffer 是固定容量的环形缓冲区，目标侧写入、主机侧读取，
// 写入从不阻塞等待空间：
//
//   - [ModeSkip]：放不下的整条记录被丢弃
//   - [ModeTrim]：只写入放得下的前缀
//
// 丢弃的字节数与记录数通过 [Buffer.Stats] 暴露。
// [Buffer.Drain] 在主机侧周期性地把缓冲区内容转发到 io.Writer。
package xprobe
