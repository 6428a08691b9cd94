package chat

import (
	"io"
	"log/slog"

	"github.com/easyops/hellochains-go/pkg/memory"
	"github.com/easyops/hellochains-go/pkg/prompt"
)

// Option 角色对话配置选项
type Option func(*Options)

// Options 角色对话配置
type Options struct {
	// MemoryK 保留的最近对话轮数，0 表示不截断
	MemoryK int
	// Temperature 调用模型的温度
	Temperature float64
	// Logger 日志器
	Logger *slog.Logger
	// Verbose 是否记录每次发送的完整提示词
	Verbose bool
	// TokenCounter Verbose 模式下估算提示词 Token
	TokenCounter prompt.TokenCounter
	// Store 对话记录持久化，为 nil 时不持久化
	Store memory.Store
	// SessionID 持久化使用的会话标识
	SessionID string
}

// DefaultOptions 返回默认配置
func DefaultOptions() *Options {
	return &Options{
		MemoryK:      3,
		Temperature:  0.7,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		TokenCounter: prompt.EstimatedCounter{},
	}
}

// WithMemoryK 设置保留轮数
func WithMemoryK(k int) Option {
	return func(o *Options) {
		o.MemoryK = k
	}
}

// WithTemperature 设置温度
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = t
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

// WithVerbose 开启提示词日志
func WithVerbose(counter prompt.TokenCounter) Option {
	return func(o *Options) {
		o.Verbose = true
		if counter != nil {
			o.TokenCounter = counter
		}
	}
}

// WithSession 设置持久化存储和会话标识
func WithSession(store memory.Store, sessionID string) Option {
	return func(o *Options) {
		o.Store = store
		o.SessionID = sessionID
	}
}
