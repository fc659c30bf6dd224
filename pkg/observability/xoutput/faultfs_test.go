package xoutput

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xelog/pkg/observability/xlog"
	"github.com/omeyang/xelog/pkg/util/xfile"
)

var errInjected = errors.New("injected fault")

// faultFS 在 OSFS 之上为 Create 出来的文件和 Rename 注入故障
type faultFS struct {
	xfile.OSFS

	mu        sync.Mutex
	createErr error
	writeErr  error
	syncErr   error
	closeErr  error
	renameErr error
}

func (f *faultFS) set(fn func(f *faultFS)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *faultFS) Create(name string) (xfile.File, error) {
	f.mu.Lock()
	err := f.createErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	file, err := f.OSFS.Create(name)
	if err != nil {
		return nil, err
	}
	return &faultFile{File: file, fs: f}, nil
}

func (f *faultFS) Rename(oldpath, newpath string) error {
	f.mu.Lock()
	err := f.renameErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.OSFS.Rename(oldpath, newpath)
}

type faultFile struct {
	xfile.File
	fs *faultFS
}

func (f *faultFile) Write(p []byte) (int, error) {
	f.fs.mu.Lock()
	err := f.fs.writeErr
	f.fs.mu.Unlock()
	if err != nil {
		// 写入一部分后失败
		n, _ := f.File.Write(p[:len(p)/2])
		return n, err
	}
	return f.File.Write(p)
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

func (f *faultFile) Close() error {
	cerr := f.File.Close()
	f.fs.mu.Lock()
	err := f.fs.closeErr
	f.fs.mu.Unlock()
	if err != nil {
		return err
	}
	return cerr
}

func newFaultStore(t *testing.T) (*FileStore, *faultFS) {
	t.Helper()
	fsys := &faultFS{}
	s, err := NewFileStore(fsys, filepath.Join(t.TempDir(), "cfg", "elog.cfg"))
	require.NoError(t, err)
	return s, fsys
}

func TestFileStore_SaveFailureKeepsPreviousRecord(t *testing.T) {
	saved := Config{Channel: ChannelSerial, Level: xlog.LevelDebug}
	next := Config{Channel: ChannelDebugProbe, Level: xlog.LevelVerbose}

	tests := []struct {
		name   string
		inject func(f *faultFS)
		want   string
	}{
		{name: "create", inject: func(f *faultFS) { f.createErr = errInjected }, want: "create"},
		{name: "write", inject: func(f *faultFS) { f.writeErr = errInjected }, want: "write"},
		{name: "sync", inject: func(f *faultFS) { f.syncErr = errInjected }, want: "sync"},
		{name: "close", inject: func(f *faultFS) { f.closeErr = errInjected }, want: "close"},
		{name: "rename", inject: func(f *faultFS) { f.renameErr = errInjected }, want: "rename"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fsys := newFaultStore(t)
			require.NoError(t, s.Save(saved))

			fsys.set(tt.inject)
			err := s.Save(next)
			require.ErrorIs(t, err, errInjected)
			assert.Contains(t, err.Error(), tt.want)

			got, err := s.Load(DefaultConfig())
			require.NoError(t, err)
			assert.Equal(t, saved, got)

			_, err = os.Stat(s.Path() + tmpSuffix)
			assert.True(t, errors.Is(err, os.ErrNotExist), "临时文件应被清理")
		})
	}
}

func TestFileStore_SaveFailureWithoutPreviousRecord(t *testing.T) {
	s, fsys := newFaultStore(t)
	fsys.set(func(f *faultFS) { f.syncErr = errInjected })

	require.ErrorIs(t, s.Save(DefaultConfig()), errInjected)
	_, err := s.Load(DefaultConfig())
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRouter_FailedSaveKeepsDiskAndMemoryInSync(t *testing.T) {
	s, fsys := newFaultStore(t)
	r, err := New(s)
	require.NoError(t, err)
	require.NoError(t, r.Init(context.Background()))
	t.Cleanup(func() { _ = r.Deinit() })

	require.NoError(t, r.SetChannel(ChannelSerial))

	fsys.set(func(f *faultFS) { f.writeErr = errInjected })
	err = r.SetChannel(ChannelDebugProbe)
	require.ErrorIs(t, err, ErrConfig)
	require.ErrorIs(t, err, errInjected)
	err = r.SetLevel(xlog.LevelVerbose)
	require.ErrorIs(t, err, ErrConfig)

	assert.Equal(t, ChannelSerial, r.GetChannel())
	assert.Equal(t, xlog.LevelInfo, r.GetLevel())

	got, err := s.Load(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, r.Config(), got)
}
