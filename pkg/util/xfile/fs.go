package xfile

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// DefaultFileMode 日志与配置文件的默认权限
const DefaultFileMode = 0600

// File 已打开文件的最小能力集合
//
// 与 flash 文件系统驱动的 write/seek/tell/sync/close 原语一一对应：
// tell 通过 Seek(0, io.SeekCurrent) 或 Seek(0, io.SeekEnd) 的返回值获得。
type File interface {
	io.Writer
	io.Seeker
	io.Closer

	// Sync 将已写入的数据强制刷入持久化存储。
	Sync() error
}

// FS 文件系统能力接口
//
// 所有方法都可能失败，调用方必须检查每一个错误。
// 实现不要求并发安全，由上层的锁负责串行化。
type FS interface {
	// OpenFile 以 创建|追加|读写 方式打开文件，不存在时创建。
	OpenFile(name string) (File, error)

	// Create 以截断方式创建或覆盖文件。
	Create(name string) (File, error)

	// ReadFile 读取整个文件。文件不存在时返回的错误满足 errors.Is(err, fs.ErrNotExist)。
	ReadFile(name string) ([]byte, error)

	// Exists 检查文件是否存在。除"不存在"以外的错误会原样返回。
	Exists(name string) (bool, error)

	// Rename 重命名文件，目标已存在时的行为由实现决定。
	Rename(oldpath, newpath string) error

	// Remove 删除文件。
	Remove(name string) error
}

// 编译时接口检查
var (
	_ FS   = OSFS{}
	_ File = (*os.File)(nil)
)

// OSFS 基于 os 标准库的 FS 实现
//
// 打开/创建文件前会经过 [SanitizePath] 并自动创建父目录。
// 零值可直接使用，Mode 为 0 时使用 [DefaultFileMode]。
type OSFS struct {
	// Mode 新建文件的权限
	Mode os.FileMode
}

func (o OSFS) mode() os.FileMode {
	if o.Mode == 0 {
		return DefaultFileMode
	}
	return o.Mode
}

func (o OSFS) open(name string, flag int) (File, error) {
	safe, err := SanitizePath(name)
	if err != nil {
		return nil, err
	}
	if err := EnsureDir(safe); err != nil {
		return nil, err
	}
	//#nosec G304 -- 路径已经过 SanitizePath 净化
	f, err := os.OpenFile(safe, flag, o.mode())
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OpenFile 以 O_CREATE|O_APPEND|O_RDWR 打开文件
func (o OSFS) OpenFile(name string) (File, error) {
	return o.open(name, os.O_CREATE|os.O_APPEND|os.O_RDWR)
}

// Create 以 O_CREATE|O_TRUNC|O_WRONLY 创建文件
func (o OSFS) Create(name string) (File, error) {
	return o.open(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY)
}

// ReadFile 读取整个文件
func (OSFS) ReadFile(name string) ([]byte, error) {
	safe, err := SanitizePath(name)
	if err != nil {
		return nil, err
	}
	//#nosec G304 -- 路径已经过 SanitizePath 净化
	return os.ReadFile(safe)
}

// Exists 检查文件是否存在
func (OSFS) Exists(name string) (bool, error) {
	_, err := os.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Rename 重命名文件
func (OSFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Remove 删除文件
func (OSFS) Remove(name string) error {
	return os.Remove(name)
}
