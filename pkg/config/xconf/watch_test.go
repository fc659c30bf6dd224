package xconf

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xelog/pkg/observability/xrotate"
)

type recordingSink struct {
	mu   sync.Mutex
	cfgs []xrotate.Config
	err  error
}

func (r *recordingSink) Configure(_ context.Context, cfg xrotate.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfgs = append(r.cfgs, cfg)
	return r.err
}

func (r *recordingSink) last() (xrotate.Config, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cfgs) == 0 {
		return xrotate.Config{}, 0
	}
	return r.cfgs[len(r.cfgs)-1], len(r.cfgs)
}

func TestWatch_ReloadReconfiguresSink(t *testing.T) {
	path := createTempFile(t, "elog.yaml", "file: {path: a.log}\n")
	src, err := Open(path)
	require.NoError(t, err)

	sink := &recordingSink{}
	w, err := Watch(src, SinkReloader(context.Background(), sink, nil), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()
	defer func() { _ = w.Stop() }()

	// 等待监视器启动
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("file: {path: b.log, max_generations: 1}\n"), 0o600))

	assert.Eventually(t, func() bool {
		cfg, _ := sink.last()
		return cfg.Path == "b.log" && cfg.MaxGenerations == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_DebounceCoalesces(t *testing.T) {
	path := createTempFile(t, "elog.yaml", "file: {path: a.log}\n")
	src, err := Open(path)
	require.NoError(t, err)

	sink := &recordingSink{}
	w, err := Watch(src, SinkReloader(context.Background(), sink, nil), WithDebounce(200*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()
	defer func() { _ = w.Stop() }()

	time.Sleep(50 * time.Millisecond)
	for _, p := range []string{"b.log", "c.log", "d.log"} {
		require.NoError(t, os.WriteFile(path, []byte("file: {path: "+p+"}\n"), 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		cfg, _ := sink.last()
		return cfg.Path == "d.log"
	}, 2*time.Second, 10*time.Millisecond)
	_, n := sink.last()
	assert.Equal(t, 1, n)
}

func TestWatch_ReloadErrorKeepsSink(t *testing.T) {
	path := createTempFile(t, "elog.yaml", "file: {path: a.log}\n")
	src, err := Open(path)
	require.NoError(t, err)

	sink := &recordingSink{}
	errCh := make(chan error, 8)
	w, err := Watch(src, SinkReloader(context.Background(), sink, func(err error) { errCh <- err }),
		WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	w.StartAsync()
	defer func() { _ = w.Stop() }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("file: {backend: bogus}\n"), 0o600))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrInvalidSettings)
	case <-time.After(2 * time.Second):
		t.Fatal("未收到重载错误")
	}
	_, n := sink.last()
	assert.Zero(t, n)
}

func TestSinkReloader_ConfigureError(t *testing.T) {
	sink := &recordingSink{err: errors.New("open failed")}
	var got error
	cb := SinkReloader(context.Background(), sink, func(err error) { got = err })
	cb(Default(), nil)
	assert.EqualError(t, got, "open failed")
	cfg, n := sink.last()
	assert.Equal(t, 1, n)
	assert.Equal(t, xrotate.DefaultConfig(), cfg)
}

func TestWatch_Errors(t *testing.T) {
	src, err := FromBytes(nil, FormatYAML)
	require.NoError(t, err)
	_, err = Watch(src, nil)
	assert.ErrorIs(t, err, ErrNotFromFile)

	_, err = Watch(nil, nil)
	assert.ErrorIs(t, err, ErrNotFromFile)
}

func TestWatch_RunStopsWithContext(t *testing.T) {
	src, err := Open(createTempFile(t, "elog.yaml", ""))
	require.NoError(t, err)
	w, err := Watch(src, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run 未在 ctx 取消后返回")
	}
	assert.NoError(t, w.Stop(), "重复 Stop 返回 nil")
}
