package xrotate

import (
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omeyang/xelog/pkg/util/xfile"
)

var errInjected = errors.New("injected fault")

// faultFS 在 OSFS 之上按路径注入故障
type faultFS struct {
	xfile.OSFS

	mu           sync.Mutex
	renameErr    map[string]error // key: oldpath
	removeErr    map[string]error
	openFailures int // 接下来失败的 OpenFile 次数
	seekErr      error
	syncErr      error
	opens        int
}

func newFaultFS() *faultFS {
	return &faultFS{
		renameErr: make(map[string]error),
		removeErr: make(map[string]error),
	}
}

func (f *faultFS) OpenFile(name string) (xfile.File, error) {
	f.mu.Lock()
	f.opens++
	if f.openFailures > 0 {
		f.openFailures--
		f.mu.Unlock()
		return nil, errInjected
	}
	f.mu.Unlock()

	file, err := f.OSFS.OpenFile(name)
	if err != nil {
		return nil, err
	}
	return &faultFile{File: file, fs: f}, nil
}

func (f *faultFS) Rename(oldpath, newpath string) error {
	f.mu.Lock()
	err := f.renameErr[oldpath]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.OSFS.Rename(oldpath, newpath)
}

func (f *faultFS) Remove(name string) error {
	f.mu.Lock()
	err := f.removeErr[name]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.OSFS.Remove(name)
}

func (f *faultFS) set(fn func(f *faultFS)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type faultFile struct {
	xfile.File
	fs *faultFS
}

func (f *faultFile) Seek(offset int64, whence int) (int64, error) {
	f.fs.mu.Lock()
	err := f.fs.seekErr
	f.fs.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return f.File.Seek(offset, whence)
}

func (f *faultFile) Sync() error {
	f.fs.mu.Lock()
	err := f.fs.syncErr
	f.fs.mu.Unlock()
	if err != nil {
		return err
	}
	return f.File.Sync()
}

// fillFile 写入 n 字节的填充内容
func fillFile(t *testing.T, path string, n int, b byte) {
	t.Helper()
	data := make([]byte, n)
	for i := range data {
		data[i] = b
	}
	require.NoError(t, os.WriteFile(path, data, 0600))
}

// readFile 读取文件内容，不存在时返回空串
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}
