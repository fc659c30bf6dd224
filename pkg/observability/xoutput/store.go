package xoutput

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"

	"github.com/cespare/xxhash/v2"

	"github.com/omeyang/xelog/pkg/observability/xlog"
	"github.com/omeyang/xelog/pkg/util/xfile"
)

// DefaultConfigPath 默认配置文件路径
const DefaultConfigPath = "log/elog.cfg"

// recordSize 持久化记录长度
const recordSize = 12

// tmpSuffix 保存时临时文件的后缀
const tmpSuffix = ".tmp"

// 编译时接口检查
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// FileStore 基于 xfile.FS 的配置存储
type FileStore struct {
	fs   xfile.FS
	path string
}

// NewFileStore 创建文件配置存储，fsys 为 nil 时使用 xfile.OSFS
func NewFileStore(fsys xfile.FS, path string) (*FileStore, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	safe, err := xfile.SanitizePath(path)
	if err != nil {
		return nil, err
	}
	if fsys == nil {
		fsys = xfile.OSFS{}
	}
	return &FileStore{fs: fsys, path: safe}, nil
}

// Path 返回配置文件路径
func (s *FileStore) Path() string {
	return s.path
}

// Load 读取并校验配置记录
func (s *FileStore) Load(defaults Config) (Config, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults, ErrRecordNotFound
		}
		return defaults, fmt.Errorf("xoutput: read %s: %w", s.path, err)
	}
	cfg, err := decodeRecord(data, defaults)
	if err != nil {
		return defaults, fmt.Errorf("%w: %s", err, s.path)
	}
	return cfg, nil
}

// Save 写入配置记录
//
// 记录先写入同目录的临时文件并 Sync、Close，再改名覆盖正式文件。
// 任一步失败时正式文件保持上一次保存的内容，错误原样返回。
func (s *FileStore) Save(cfg Config) error {
	rec := encodeRecord(cfg)
	tmp := s.path + tmpSuffix
	if err := s.writeTemp(tmp, rec[:]); err != nil {
		_ = s.fs.Remove(tmp)
		return err
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("xoutput: rename %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) writeTemp(name string, rec []byte) error {
	f, err := s.fs.Create(name)
	if err != nil {
		return fmt.Errorf("xoutput: create %s: %w", name, err)
	}
	if _, err := f.Write(rec); err != nil {
		_ = f.Close()
		return fmt.Errorf("xoutput: write %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("xoutput: sync %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("xoutput: close %s: %w", name, err)
	}
	return nil
}

func encodeRecord(cfg Config) [recordSize]byte {
	var rec [recordSize]byte
	rec[0] = byte(cfg.Channel)
	rec[1] = byte(cfg.Level)
	binary.LittleEndian.PutUint64(rec[4:], xxhash.Sum64(rec[:4]))
	return rec
}

// decodeRecord 解码记录；越界字段单独回退到默认值
func decodeRecord(data []byte, defaults Config) (Config, error) {
	if len(data) != recordSize {
		return defaults, ErrCorruptRecord
	}
	if binary.LittleEndian.Uint64(data[4:]) != xxhash.Sum64(data[:4]) {
		return defaults, ErrCorruptRecord
	}

	cfg := defaults
	if ch := Channel(data[0]); ch.Valid() {
		cfg.Channel = ch
	}
	if lv := xlog.Level(data[1]); lv.Valid() {
		cfg.Level = lv
	}
	return cfg, nil
}

// MemoryStore 内存配置存储，用于不需要持久化的场景
type MemoryStore struct {
	cfg   Config
	saved bool
}

// Load 返回最近一次保存的配置，从未保存时返回 defaults 和 ErrRecordNotFound
func (m *MemoryStore) Load(defaults Config) (Config, error) {
	if !m.saved {
		return defaults, ErrRecordNotFound
	}
	return m.cfg, nil
}

// Save 保存配置
func (m *MemoryStore) Save(cfg Config) error {
	m.cfg = cfg
	m.saved = true
	return nil
}
