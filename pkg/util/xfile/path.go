package xfile

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// isSep 同时接受 '/' 与 '\'，在任何平台上都按两种分隔符拆分路径段
func isSep(r rune) bool {
	return r == '/' || r == '\\'
}

// escapes 报告规范化后的路径是否仍有 ".." 段
func escapes(cleaned string) bool {
	for _, seg := range strings.FieldsFunc(cleaned, isSep) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// SanitizePath 校验并规范化日志/配置文件路径
//
// 以下情况被拒绝：空路径、含 NUL 字节、以分隔符结尾（目录）、
// 规范化后仍向上越出的相对路径。绝对路径中的 ".." 由 filepath.Clean 消解。
// 不限制路径所在的目录。
func SanitizePath(name string) (string, error) {
	switch {
	case name == "":
		return "", ErrEmptyPath
	case strings.ContainsRune(name, 0):
		return "", fmt.Errorf("%w: %q", ErrNullByte, name)
	case strings.HasSuffix(name, "/") || strings.HasSuffix(name, "\\"):
		// 先于 Clean 检查，Clean 会去掉尾部分隔符
		return "", fmt.Errorf("%w: %s is a directory", ErrInvalidPath, name)
	}

	cleaned := filepath.Clean(name)
	if escapes(cleaned) {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, name)
	}
	if base := filepath.Base(cleaned); base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %s has no file name", ErrInvalidPath, name)
	}
	return cleaned, nil
}

// GenerationPath 返回第 n 代归档文件路径：base + "." + n
func GenerationPath(base string, n uint) string {
	return base + "." + strconv.FormatUint(uint64(n), 10)
}
