package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	dir     string
	config  string
	logPath string
	cfgPath string
}

func newTestEnv(t *testing.T, extra string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	e := &testEnv{
		dir:     dir,
		config:  filepath.Join(dir, "elog.yaml"),
		logPath: filepath.Join(dir, "log", "app.log"),
		cfgPath: filepath.Join(dir, "log", "elog.cfg"),
	}
	content := fmt.Sprintf("file:\n  path: %s\n  max_size: 4096\n  max_generations: 2\noutput:\n  config_path: %s\n%s",
		e.logPath, e.cfgPath, extra)
	require.NoError(t, os.WriteFile(e.config, []byte(content), 0o600))
	return e
}

// exec 运行一次命令，返回退出码、stdout、stderr
func (e *testEnv) exec(stdin string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	full := append([]string{"xelogctl", "-c", e.config}, args...)
	code := run(full, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestChannel_GetSet(t *testing.T) {
	e := newTestEnv(t, "")

	code, out, _ := e.exec("", "channel")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "file\n", out)

	code, out, _ = e.exec("", "channel", "set", "serial")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "serial\n", out)

	code, out, _ = e.exec("", "channel", "get")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "serial\n", out)

	data, err := os.ReadFile(e.cfgPath)
	require.NoError(t, err)
	assert.Len(t, data, 12)
}

func TestChannel_UsageErrors(t *testing.T) {
	e := newTestEnv(t, "")

	code, _, stderr := e.exec("", "channel", "set", "bluetooth")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "参数错误")

	code, _, _ = e.exec("", "channel", "set")
	assert.Equal(t, exitUsage, code)
}

func TestLevel_GetSet(t *testing.T) {
	e := newTestEnv(t, "  level: warn\n")

	code, out, _ := e.exec("", "level")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "WARN\n", out, "无持久化记录时使用配置文件中的默认值")

	code, out, _ = e.exec("", "level", "set", "4")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "DEBUG\n", out)

	code, out, _ = e.exec("", "level", "get")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "DEBUG\n", out)

	code, _, _ = e.exec("", "level", "set", "loud")
	assert.Equal(t, exitUsage, code)
}

func TestWrite_File(t *testing.T) {
	e := newTestEnv(t, "")

	code, _, stderr := e.exec("boot ok\n\nlink up\n", "write", "--tag", "net")
	require.Equal(t, exitOK, code, stderr)

	data, err := os.ReadFile(e.logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `msg="boot ok"`)
	assert.Contains(t, lines[0], "component=net")
	assert.Contains(t, lines[1], `msg="link up"`)
}

func TestWrite_FilteredByPersistedLevel(t *testing.T) {
	e := newTestEnv(t, "")

	code, _, _ := e.exec("", "level", "set", "error")
	require.Equal(t, exitOK, code)

	code, _, _ = e.exec("chatty\n", "write", "--as", "info")
	require.Equal(t, exitOK, code)
	code, _, _ = e.exec("broken\n", "write", "--as", "error")
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(e.logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "chatty")
	assert.Contains(t, string(data), "broken")
}

func TestWrite_Rotates(t *testing.T) {
	e := newTestEnv(t, "")
	require.NoError(t, os.WriteFile(e.config, []byte(fmt.Sprintf(
		"file: {path: %s, max_size: 64, max_generations: 2}\noutput: {config_path: %s}\n",
		e.logPath, e.cfgPath)), 0o600))

	var in strings.Builder
	for i := range 10 {
		fmt.Fprintf(&in, "record number %d\n", i)
	}
	code, _, stderr := e.exec(in.String(), "write")
	require.Equal(t, exitOK, code, stderr)

	for _, p := range []string{e.logPath, e.logPath + ".0", e.logPath + ".1"} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	_, err := os.Stat(e.logPath + ".2")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWrite_Probe(t *testing.T) {
	e := newTestEnv(t, "")
	code, _, _ := e.exec("", "channel", "set", "probe")
	require.Equal(t, exitOK, code)

	code, out, stderr := e.exec("via probe\n", "write", "--probe")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, `msg="via probe"`)

	// 单选计划下文件通道不输出
	data, err := os.ReadFile(e.logPath)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWrite_UsageErrors(t *testing.T) {
	e := newTestEnv(t, "")

	code, _, _ := e.exec("", "write", "--as", "shout")
	assert.Equal(t, exitUsage, code)

	code, _, _ = e.exec("", "write", "--nope")
	assert.Equal(t, exitUsage, code)

	var stdout, stderr bytes.Buffer
	code = run([]string{"xelogctl", "write", "--watch"}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "--watch requires --config")
}

func TestRotate(t *testing.T) {
	e := newTestEnv(t, "")

	code, _, _ := e.exec("first\n", "write")
	require.Equal(t, exitOK, code)

	code, out, stderr := e.exec("", "rotate")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, out, "rotated")

	rotated, err := os.ReadFile(e.logPath + ".0")
	require.NoError(t, err)
	assert.Contains(t, string(rotated), "first")
	active, err := os.ReadFile(e.logPath)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRotate_Unsupported(t *testing.T) {
	e := newTestEnv(t, "")
	require.NoError(t, os.WriteFile(e.config, []byte(fmt.Sprintf(
		"file: {path: %s, backend: lumberjack, max_generations: 1}\n", e.logPath)), 0o600))

	code, _, _ := e.exec("", "rotate")
	assert.Equal(t, exitUsage, code)
}

func TestInvalidConfig(t *testing.T) {
	e := newTestEnv(t, "")
	require.NoError(t, os.WriteFile(e.config, []byte("file: {backend: syslog}\n"), 0o600))

	code, _, _ := e.exec("", "channel")
	assert.Equal(t, exitUsage, code)

	var stdout, stderr bytes.Buffer
	code = run([]string{"xelogctl", "-c", filepath.Join(e.dir, "missing.yaml"), "channel"},
		strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
}

func TestExitCode(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, exitOK, exitCode(nil, &stderr))
	assert.Equal(t, exitUsage, exitCode(usagef("bad"), &stderr))
	assert.Equal(t, exitUsage, exitCode(fmt.Errorf("wrapped: %w", usagef("bad")), &stderr))
	assert.Equal(t, exitFailure, exitCode(errors.New("boom"), &stderr))
}
