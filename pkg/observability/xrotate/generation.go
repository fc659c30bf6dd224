package xrotate

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/omeyang/xelog/pkg/util/xfile"
)

// Renamer 代际改名器
//
// 把 base.(n-1) 移到 base.n、base 移到 base.0，为新的活动文件腾出位置。
// 不负责关闭或重新打开活动文件，由 [FileSink] 处理。
type Renamer struct {
	// FS 文件系统能力
	FS xfile.FS

	// OnWarn 接收不影响链推进的告警（如陈旧文件删除失败），可为 nil
	OnWarn func(error)
}

// Rotate 对 base 执行一次代际轮转
//
// 对 n 从 maxGenerations-1 递减到 0：
//  1. new = base.n，old = n==0 ? base : base.(n-1)
//  2. new 存在则删除；删除失败只告警，链继续推进
//  3. old 存在则改名为 new；改名失败立即中止并返回 [ErrRenameFailed]
//
// maxGenerations 为 0 时不做任何操作。
func (r Renamer) Rotate(base string, maxGenerations uint) error {
	if base == "" {
		return ErrEmptyFilename
	}
	for n := int(maxGenerations) - 1; n >= 0; n-- {
		newPath := xfile.GenerationPath(base, uint(n))
		oldPath := base
		if n > 0 {
			oldPath = xfile.GenerationPath(base, uint(n-1))
		}

		r.removeStale(newPath)

		exists, err := r.FS.Exists(oldPath)
		if err != nil {
			return fmt.Errorf("%w: stat %s: %w", ErrRenameFailed, oldPath, err)
		}
		if !exists {
			continue
		}
		if err := r.FS.Rename(oldPath, newPath); err != nil {
			return fmt.Errorf("%w: %s -> %s: %w", ErrRenameFailed, oldPath, newPath, err)
		}
	}
	return nil
}

// removeStale 删除目标位置上的旧文件，"不存在"不算错误
func (r Renamer) removeStale(path string) {
	exists, err := r.FS.Exists(path)
	if err != nil {
		r.warn(fmt.Errorf("xrotate: stat %s: %w", path, err))
		return
	}
	if !exists {
		return
	}
	if err := r.FS.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.warn(fmt.Errorf("xrotate: remove %s: %w", path, err))
	}
}

// warn 通过回调上报告警，回调 panic 被隔离
func (r Renamer) warn(err error) {
	if r.OnWarn == nil {
		return
	}
	defer func() { recover() }() //nolint:errcheck // recover 返回值无需检查
	r.OnWarn(err)
}
