package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// setupSignalHandler 第一次信号取消 ctx，第二次信号强制退出（退出码 130）
//
// write 命令阻塞在读取 stdin 时，ctx 取消无法打断读取，需要第二次信号。
// 返回的函数停止信号订阅。
func setupSignalHandler(cancel context.CancelFunc) func() {
	sigCh := make(chan os.Signal, 2)
	done := make(chan struct{})
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-done:
			return
		}
		select {
		case <-sigCh:
			os.Exit(130)
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
