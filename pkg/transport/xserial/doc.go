// Package xserial 把日志记录写到串口或 USB CDC 设备。
//
// Linux 下打开 tty 设备后通过 termios 设置 raw 模式与波特率；
// 设备不是终端（普通文件、FIFO）时按普通文件写入。
// 其他平台不做终端配置。
package xserial
