package xrotate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xelog/pkg/util/xfile"
)

func TestRenamer_ShiftsChain(t *testing.T) {
	base := filepath.Join(t.TempDir(), "elog.txt")
	fillFile(t, base, 3, 'a')
	fillFile(t, base+".0", 3, 'b')
	fillFile(t, base+".1", 3, 'c')
	fillFile(t, base+".2", 3, 'd')

	r := Renamer{FS: xfile.OSFS{}}
	require.NoError(t, r.Rotate(base, 3))

	assert.NoFileExists(t, base)
	assert.Equal(t, "aaa", readFile(t, base+".0"))
	assert.Equal(t, "bbb", readFile(t, base+".1"))
	assert.Equal(t, "ccc", readFile(t, base+".2"))
	// 边界之外的代际被淘汰
	assert.NoFileExists(t, base+".3")
}

func TestRenamer_ToleratesMissingFiles(t *testing.T) {
	base := filepath.Join(t.TempDir(), "elog.txt")
	fillFile(t, base, 1, 'a')
	// 中间代缺失
	fillFile(t, base+".1", 1, 'c')

	r := Renamer{FS: xfile.OSFS{}}
	require.NoError(t, r.Rotate(base, 4))

	assert.Equal(t, "a", readFile(t, base+".0"))
	assert.NoFileExists(t, base+".1")
	assert.Equal(t, "c", readFile(t, base+".2"))
}

func TestRenamer_ZeroGenerationsIsNoop(t *testing.T) {
	base := filepath.Join(t.TempDir(), "elog.txt")
	fillFile(t, base, 2, 'a')

	require.NoError(t, Renamer{FS: xfile.OSFS{}}.Rotate(base, 0))
	assert.Equal(t, "aa", readFile(t, base))
	assert.NoFileExists(t, base+".0")
}

func TestRenamer_EmptyBase(t *testing.T) {
	assert.ErrorIs(t, Renamer{FS: xfile.OSFS{}}.Rotate("", 2), ErrEmptyFilename)
}

func TestRenamer_RemoveFailureWarnsAndContinues(t *testing.T) {
	base := filepath.Join(t.TempDir(), "elog.txt")
	fillFile(t, base, 1, 'a')
	fillFile(t, base+".1", 1, 'z')

	fsys := newFaultFS()
	fsys.removeErr[base+".1"] = errInjected

	var warnings []error
	r := Renamer{FS: fsys, OnWarn: func(err error) { warnings = append(warnings, err) }}
	require.NoError(t, r.Rotate(base, 2))

	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], errInjected)
	assert.Equal(t, "a", readFile(t, base+".0"))
}

func TestRenamer_RenameFailureAborts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "elog.txt")
	fillFile(t, base, 1, 'a')
	fillFile(t, base+".0", 1, 'b')

	fsys := newFaultFS()
	fsys.renameErr[base+".0"] = errInjected

	err := Renamer{FS: fsys}.Rotate(base, 3)
	require.ErrorIs(t, err, ErrRenameFailed)
	require.ErrorIs(t, err, errInjected)

	// 链在第一次失败处停止，base 未被移动
	assert.Equal(t, "a", readFile(t, base))
	assert.Equal(t, "b", readFile(t, base+".0"))
}

func TestRenamer_WarnPanicIsolated(t *testing.T) {
	base := filepath.Join(t.TempDir(), "elog.txt")
	fillFile(t, base+".0", 1, 'b')

	fsys := newFaultFS()
	fsys.removeErr[base+".0"] = errInjected

	r := Renamer{FS: fsys, OnWarn: func(error) { panic("boom") }}
	assert.NotPanics(t, func() { _ = r.Rotate(base, 1) })
}
