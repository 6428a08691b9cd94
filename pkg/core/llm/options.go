package llm

import (
	"io"
	"log/slog"
	"net/http"
	"os"
)

// Option 客户端构造选项函数
type Option func(*Options)

// Options 客户端构造选项
type Options struct {
	// Logger 日志器
	Logger *slog.Logger
	// HTTPClient 自定义 HTTP 客户端
	HTTPClient *http.Client
	// Getenv 环境变量读取函数
	Getenv func(string) string
}

// DefaultOptions 返回默认选项
func DefaultOptions() *Options {
	return &Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Getenv: os.Getenv,
	}
}

// WithLogger 设置日志器
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithHTTPClient 设置 HTTP 客户端
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

// WithGetenv 设置环境变量读取函数
func WithGetenv(getenv func(string) string) Option {
	return func(o *Options) {
		o.Getenv = getenv
	}
}

func applyOptions(opts []Option) *Options {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// RequestOption 请求选项函数
type RequestOption func(*Request)

// WithTemperature 设置请求温度
func WithTemperature(t float64) RequestOption {
	return func(r *Request) {
		r.Temperature = &t
	}
}

// WithMaxTokens 设置请求最大 token
func WithMaxTokens(n int) RequestOption {
	return func(r *Request) {
		r.MaxTokens = &n
	}
}

// WithTools 设置可用工具
func WithTools(tools []ToolDefinition) RequestOption {
	return func(r *Request) {
		r.Tools = tools
	}
}

// WithToolChoice 设置工具选择策略
func WithToolChoice(choice string) RequestOption {
	return func(r *Request) {
		r.ToolChoice = choice
	}
}

// WithStop 设置停止序列
func WithStop(stop ...string) RequestOption {
	return func(r *Request) {
		r.Stop = stop
	}
}
