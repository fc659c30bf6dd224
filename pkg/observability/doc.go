// Package observability 提供日志输出相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志引擎，基于 log/slog 扩展，六级过滤
//   - xrotate: 代际轮转的日志文件 sink
//   - xoutput: 输出通道路由与持久化通道/级别配置
package observability
