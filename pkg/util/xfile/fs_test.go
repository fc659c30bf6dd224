package xfile

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFS_OpenFileAppends(t *testing.T) {
	fsys := OSFS{}
	name := filepath.Join(t.TempDir(), "log", "elog.txt")

	f, err := fsys.OpenFile(name)
	require.NoError(t, err)
	_, err = f.Write([]byte("first\n"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	f, err = fsys.OpenFile(name)
	require.NoError(t, err)
	size, err := f.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(6), size)
	_, err = f.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := fsys.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))

	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(DefaultFileMode), info.Mode().Perm())
}

func TestOSFS_CreateTruncates(t *testing.T) {
	fsys := OSFS{Mode: 0644}
	name := filepath.Join(t.TempDir(), "cfg.bin")
	require.NoError(t, os.WriteFile(name, []byte("0123456789"), 0600))

	f, err := fsys.Create(name)
	require.NoError(t, err)
	_, err = f.Write([]byte("ab"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(data))
}

func TestOSFS_ExistsRenameRemove(t *testing.T) {
	fsys := OSFS{}
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")

	ok, err := fsys.Exists(a)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(a, []byte("x"), 0600))
	ok, err = fsys.Exists(a)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, fsys.Rename(a, b))
	assert.NoFileExists(t, a)
	assert.FileExists(t, b)

	require.NoError(t, fsys.Remove(b))
	assert.NoFileExists(t, b)
	assert.Error(t, fsys.Remove(b))
}

func TestOSFS_RejectsBadPath(t *testing.T) {
	fsys := OSFS{}
	_, err := fsys.OpenFile("")
	require.ErrorIs(t, err, ErrEmptyPath)
	_, err = fsys.Create("../x")
	require.ErrorIs(t, err, ErrPathTraversal)
	_, err = fsys.ReadFile("dir/")
	require.ErrorIs(t, err, ErrInvalidPath)
}
