// Package xfile 提供日志落盘所需的文件系统能力抽象。
//
// 核心逻辑（轮转、配置持久化）只依赖 [FS] 和 [File] 两个接口，
// 不直接调用 os 包。不同目标平台（宿主机、带 littlefs 的设备、测试桩）
// 各自实现 FS 即可，无需条件编译。
//
// # 默认实现
//
//   - [OSFS]: 基于 os 标准库，打开前对路径做格式净化并创建父目录
//
// # 路径净化
//
// [SanitizePath] 拒绝空路径、空字节、相对路径穿越（".." 路径段）和目录路径。
// 以 ".." 开头的合法文件名（如 "..config"）不会被误判。
//
// # 错误处理
//
// 预定义错误变量支持 [errors.Is] 判断：
//
//	_, err := xfile.SanitizePath("../etc/passwd")
//	if errors.Is(err, xfile.ErrPathTraversal) {
//	    // 处理路径穿越
//	}
package xfile
