package agents

import (
	"io"
	"log/slog"
	"time"

	"github.com/easyops/hellochains-go/pkg/core/config"
)

// Option Agent 配置选项
type Option func(*AgentOptions)

// AgentOptions Agent 配置
type AgentOptions struct {
	Name          string
	SystemPrompt  string
	MaxIterations int
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration
	ToolTimeout   time.Duration
	// Verbose 以 Info 级别记录每个推理步骤
	Verbose bool
	Logger  *slog.Logger
}

// DefaultAgentOptions 返回默认选项
func DefaultAgentOptions() *AgentOptions {
	return &AgentOptions{
		Name:          "ReActAgent",
		MaxIterations: 10,
		Temperature:   0,
		MaxTokens:     1024,
		Timeout:       5 * time.Minute,
		ToolTimeout:   30 * time.Second,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithName 设置 Agent 名称
func WithName(name string) Option {
	return func(o *AgentOptions) {
		o.Name = name
	}
}

// WithSystemPrompt 设置系统提示词
func WithSystemPrompt(prompt string) Option {
	return func(o *AgentOptions) {
		o.SystemPrompt = prompt
	}
}

// WithMaxIterations 设置最大迭代次数
func WithMaxIterations(n int) Option {
	return func(o *AgentOptions) {
		o.MaxIterations = n
	}
}

// WithAgentTemperature 设置温度
func WithAgentTemperature(t float64) Option {
	return func(o *AgentOptions) {
		o.Temperature = t
	}
}

// WithAgentMaxTokens 设置最大 token 数
func WithAgentMaxTokens(n int) Option {
	return func(o *AgentOptions) {
		o.MaxTokens = n
	}
}

// WithAgentTimeout 设置单次查询超时
func WithAgentTimeout(d time.Duration) Option {
	return func(o *AgentOptions) {
		o.Timeout = d
	}
}

// WithToolTimeout 设置单次工具调用超时
func WithToolTimeout(d time.Duration) Option {
	return func(o *AgentOptions) {
		o.ToolTimeout = d
	}
}

// WithVerbose 记录推理步骤
func WithVerbose(v bool) Option {
	return func(o *AgentOptions) {
		o.Verbose = v
	}
}

// WithLogger 设置日志器
func WithLogger(logger *slog.Logger) Option {
	return func(o *AgentOptions) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithConfig 从配置设置选项
func WithConfig(cfg config.AgentConfig) Option {
	return func(o *AgentOptions) {
		if cfg.Name != "" {
			o.Name = cfg.Name
		}
		if cfg.SystemPrompt != "" {
			o.SystemPrompt = cfg.SystemPrompt
		}
		if cfg.MaxIterations > 0 {
			o.MaxIterations = cfg.MaxIterations
		}
		o.Temperature = cfg.Temperature
		if cfg.MaxTokens > 0 {
			o.MaxTokens = cfg.MaxTokens
		}
		if cfg.Timeout > 0 {
			o.Timeout = cfg.Timeout
		}
	}
}
