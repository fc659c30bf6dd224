// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 文件操作工具，路径校验、目录创建与可替换的文件系统接口
//   - xlock: 支持 context 超时和非阻塞获取的进程内互斥锁
//
// 设计原则：
//   - 安全处理路径遍历
//   - 文件系统与锁均以接口注入，便于测试注入故障
package util
