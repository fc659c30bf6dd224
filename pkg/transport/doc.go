// Package transport 包含日志记录的非文件输出传输：
//
//   - xserial: 串口/USB CDC 设备
//   - xprobe: 调试探针的上行环形缓冲区
package transport
