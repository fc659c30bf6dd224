// xelogctl 是 xelog 日志输出链路的命令行工具。
//
// 用法:
//
//	xelogctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config   配置文件路径（.yaml/.yml/.json），为空时使用默认配置
//
// 命令:
//
//	write              把 stdin 的每一行作为一条日志写入当前通道
//	channel [get|set]  查看/设置持久化的输出通道
//	level [get|set]    查看/设置持久化的过滤级别
//	rotate             立即轮转文件 sink
//
// 退出码:
//
//	0: 成功
//	1: 执行失败
//	2: 参数错误（无效通道、无效级别、缺少参数、未知 flag 等）
//
// 示例:
//
//	dmesg | xelogctl -c elog.yaml write --as warn
//	xelogctl -c elog.yaml write --watch       # 配置文件变更时重新配置文件 sink
//	xelogctl channel set serial
//	xelogctl level set debug
//	xelogctl rotate
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入）
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

// 退出码
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// createApp 创建 CLI 应用
func createApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xelogctl",
		Usage:     "xelog 日志输出链路命令行工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（.yaml/.yml/.json）",
			},
		},
		Commands:     createCommands(),
		OnUsageError: onUsageError,
		// 禁止 urfave/cli 直接调用 os.Exit，退出码统一由 run 映射
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			var ec cli.ExitCoder
			if errors.As(err, &ec) {
				_, _ = fmt.Fprintln(stderr, err)
			}
		},
	}
}

// run 执行命令并返回退出码
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := setupSignalHandler(cancel)
	defer stop()

	return exitCode(createApp(stdin, stdout, stderr).Run(ctx, args), stderr)
}

// exitCode 把命令错误映射为退出码
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	var ue *usageError
	if errors.As(err, &ue) {
		_, _ = fmt.Fprintf(stderr, "参数错误: %v\n", ue)
		return exitUsage
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return exitUsage
	}
	_, _ = fmt.Fprintf(stderr, "错误: %v\n", err)
	return exitFailure
}
