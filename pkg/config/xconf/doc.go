// Package xconf 加载 xelog 的启动配置并支持热重载，基于 koanf 实现。
//
// # 配置结构
//
//	file:
//	  path: log/elog.txt        # 为空表示禁用文件 sink
//	  max_size: 65536           # 字节
//	  max_generations: 4        # 0 表示不轮转，超限写入被丢弃
//	  backend: generation       # generation | lumberjack
//	  reopen_attempts: 3
//	output:
//	  config_path: log/elog.cfg # 通道/级别持久化记录
//	  channel: file             # none | probe | serial | file
//	  level: info               # assert..verbose 或 0..5
//	  plan: single              # single | cascade
//	  latency_warn: 50ms
//	serial:
//	  device: /dev/ttyUSB0
//	  baud: 115200
//	  crlf: false
//	probe:
//	  capacity: 1024
//	  mode: skip                # skip | trim
//	diag:
//	  level: warn
//	  format: text
//
// 未出现的字段保持 [Default] 中的值。output.channel 与 output.level
// 只是没有持久化记录时的默认值，运行时修改以持久化记录为准。
//
// # 支持的格式
//
//   - YAML：.yaml, .yml
//   - JSON：.json
//
// # 热重载
//
// [Watch] 监视配置文件所在目录（兼容编辑器的原子写入），防抖后重新解析，
// 把新的 [Settings] 交给回调。[SinkReloader] 是把 file 段重新应用到
// 文件 sink 的回调。从字节数据创建的 [Source] 不支持监视。
package xconf
