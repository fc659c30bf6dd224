package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 配置文件格式
type Format string

// 支持的配置格式
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Source 已加载的配置源
//
// 持有解析后的 koanf 实例，Settings 每次在默认值之上重新反序列化。
// 所有方法并发安全。
type Source struct {
	mu      sync.RWMutex
	k       *koanf.Koanf
	path    string
	format  Format
	opts    *Options
	isBytes bool
}

// Open 从文件加载配置，根据扩展名检测格式
func Open(path string, opts ...Option) (*Source, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	//#nosec G304 -- 配置路径来自命令行
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	options := applyOptions(opts)
	k, err := parse(data, format, options)
	if err != nil {
		return nil, err
	}
	return &Source{k: k, path: path, format: format, opts: options}, nil
}

// FromBytes 从字节数据加载配置，空数据得到全部默认值
func FromBytes(data []byte, format Format, opts ...Option) (*Source, error) {
	if !isValidFormat(format) {
		return nil, ErrUnsupportedFormat
	}
	options := applyOptions(opts)
	k, err := parse(data, format, options)
	if err != nil {
		return nil, err
	}
	return &Source{k: k, format: format, opts: options, isBytes: true}, nil
}

func applyOptions(opts []Option) *Options {
	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	return options
}

// Settings 在 [Default] 之上反序列化并校验配置
func (s *Source) Settings() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Default()
	if err := s.k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{Tag: structTag}); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	if err := out.Validate(); err != nil {
		return Settings{}, err
	}
	return out, nil
}

// Reload 重新读取配置文件并返回新的 Settings
//
// 解析或校验失败时保留旧配置。
func (s *Source) Reload() (Settings, error) {
	if s.isBytes {
		return Settings{}, ErrNotFromFile
	}

	//#nosec G304 -- 配置路径来自命令行
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	k, err := parse(data, s.format, s.opts)
	if err != nil {
		return Settings{}, err
	}

	next := &Source{k: k, opts: s.opts}
	settings, err := next.Settings()
	if err != nil {
		return Settings{}, err
	}

	s.mu.Lock()
	s.k = k
	s.mu.Unlock()
	return settings, nil
}

// Client 返回底层的 koanf 实例，Reload 后旧指针指向旧配置
func (s *Source) Client() *koanf.Koanf {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.k
}

// Path 返回配置文件路径，从字节数据创建时为空
func (s *Source) Path() string {
	return s.path
}

// Format 返回配置格式
func (s *Source) Format() Format {
	return s.format
}

// detectFormat 根据文件扩展名检测配置格式
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, ext)
	}
}

func isValidFormat(format Format) bool {
	return format == FormatYAML || format == FormatJSON
}

// parse 把数据解析为新的 koanf 实例
func parse(data []byte, format Format, opts *Options) (*koanf.Koanf, error) {
	k := koanf.New(opts.Delim)
	if len(data) == 0 {
		return k, nil
	}

	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, ErrUnsupportedFormat
	}

	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return k, nil
}
