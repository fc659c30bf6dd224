package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/omeyang/xelog/pkg/observability/xrotate"
)

// DefaultDebounce 默认防抖时间
const DefaultDebounce = 100 * time.Millisecond

// WatchCallback 配置变更回调
//
// err 非 nil 时 settings 为零值，调用方应继续使用旧配置。
type WatchCallback func(settings Settings, err error)

// WatchOption 监视器配置选项
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
}

// WithDebounce 设置防抖时间，窗口内的多次变更只触发一次重载
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// Watcher 配置文件监视器
type Watcher struct {
	src      *Source
	watcher  *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	running bool
	timer   *time.Timer
	wg      sync.WaitGroup
}

// Watch 创建配置文件监视器
//
// 监视配置文件所在的目录而不是文件本身：编辑器保存时可能先删除再创建。
// 返回的 Watcher 需要调用 Run 或 StartAsync 开始监视。
func Watch(src *Source, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if src == nil || src.isBytes || src.path == "" {
		return nil, ErrNotFromFile
	}

	options := &watchOptions{debounce: DefaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: failed to create watcher: %w", err)
	}
	dir := filepath.Dir(src.path)
	if err := fsWatcher.Add(dir); err != nil {
		return nil, errors.Join(
			fmt.Errorf("xconf: failed to watch directory %s: %w", dir, err),
			fsWatcher.Close(),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		src:      src,
		watcher:  fsWatcher,
		callback: callback,
		debounce: options.debounce,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Run 阻塞运行监视循环，直到 ctx 结束或 Stop 被调用
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = w.Stop() })
	defer stop()

	w.run()
	return nil
}

// StartAsync 在后台 goroutine 中运行监视循环
func (w *Watcher) StartAsync() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		w.run()
	}()
}

// Stop 停止监视
//
// 返回后不会再有新的回调开始执行。重复调用返回 nil。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.ctx.Err() != nil {
		w.mu.Unlock()
		return nil
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.cancel()
	w.running = false
	err := w.watcher.Close()
	w.mu.Unlock()

	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	filename := filepath.Base(w.src.path)
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.notify(Settings{}, fmt.Errorf("xconf: watch error: %w", err))
		}
	}
}

// handleEvent 处理可能表示配置更新的事件：Write、Create、Rename（原子写入）
func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	if filepath.Base(event.Name) != filename {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.ctx.Err() != nil {
			return
		}
		w.notify(w.src.Reload())
	})
}

func (w *Watcher) notify(settings Settings, err error) {
	if w.callback != nil {
		w.callback(settings, err)
	}
}

// SinkConfigurer 可以在运行时重新配置的文件 sink
type SinkConfigurer interface {
	Configure(ctx context.Context, cfg xrotate.Config) error
}

// SinkReloader 返回把 file 段重新应用到 sink 的回调
//
// 重载失败或 Configure 失败都交给 onError，sink 保持原配置或按 Configure 的语义处理。
func SinkReloader(ctx context.Context, sink SinkConfigurer, onError func(error)) WatchCallback {
	return func(settings Settings, err error) {
		if err == nil {
			err = sink.Configure(ctx, settings.SinkConfig())
		}
		if err != nil && onError != nil {
			onError(err)
		}
	}
}
