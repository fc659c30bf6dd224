package xconf

// structTag Settings 字段使用的结构体标签
const structTag = "koanf"

// Options 配置加载选项
type Options struct {
	// Delim 配置键的分隔符，默认为 "."。
	Delim string
}

// Option 配置选项函数
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{Delim: "."}
}

// WithDelim 设置 Client 查询配置键时使用的分隔符，空值保持默认
func WithDelim(delim string) Option {
	return func(o *Options) {
		if delim != "" {
			o.Delim = delim
		}
	}
}
