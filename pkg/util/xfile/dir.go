package xfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDirPerm 日志目录的默认权限
const DefaultDirPerm = 0750

// EnsureDir 以 [DefaultDirPerm] 创建 name 所在的目录
func EnsureDir(name string) error {
	return EnsureDirWithPerm(name, DefaultDirPerm)
}

// EnsureDirWithPerm 创建 name 所在的目录（含中间目录）
//
// 目录已存在时既不报错也不修改权限。perm 缺少所有者执行位时返回 [ErrInvalidPerm]。
func EnsureDirWithPerm(name string, perm os.FileMode) error {
	switch {
	case name == "":
		return ErrEmptyPath
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q", ErrNullByte, name)
	case perm&0o100 == 0:
		return fmt.Errorf("%w: %04o", ErrInvalidPerm, perm)
	}
	if dir := filepath.Dir(name); dir != "." {
		return os.MkdirAll(dir, perm)
	}
	return nil
}
