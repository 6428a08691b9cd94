package config

import "time"

// Provider LLM 提供商类型
type Provider string

const (
	// ProviderOpenRouter OpenRouter（OpenAI 兼容协议）
	ProviderOpenRouter Provider = "openrouter"
	// ProviderOpenAI OpenAI 提供商
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic Anthropic 提供商
	ProviderAnthropic Provider = "anthropic"
)

// IsValid 检查提供商是否有效
func (p Provider) IsValid() bool {
	switch p {
	case ProviderOpenRouter, ProviderOpenAI, ProviderAnthropic:
		return true
	default:
		return false
	}
}

// LLMConfig LLM 配置
//
// 空字段在创建客户端时由提供商默认值表补全。
type LLMConfig struct {
	// Provider 提供商，为空时由命令选择
	Provider Provider `koanf:"provider"`
	// Model 模型名称
	Model string `koanf:"model"`
	// APIKey API 密钥，为空时读取提供商对应的环境变量
	APIKey string `koanf:"api_key"`
	// BaseURL 自定义 API 端点
	BaseURL string `koanf:"base_url"`
	// EmbeddingModel 嵌入模型名称
	EmbeddingModel string `koanf:"embedding_model"`
	// MaxTokens 最大输出 token 数，0 表示交给服务端决定
	MaxTokens int `koanf:"max_tokens"`
	// Timeout 请求超时时间
	// 默认: 60s, 最大: 5m
	Timeout time.Duration `koanf:"timeout"`
	// MaxRetries 最大重试次数
	// 默认: 0, 最大: 10
	MaxRetries int `koanf:"max_retries"`
	// RetryDelay 重试间隔基数
	// 默认: 1s
	RetryDelay time.Duration `koanf:"retry_delay"`
}

// Validate 验证 LLM 配置
func (c *LLMConfig) Validate() error {
	if c.Provider != "" && !c.Provider.IsValid() {
		return ErrInvalidProvider
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.Timeout > 5*time.Minute {
		c.Timeout = 5 * time.Minute
	}
	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}
	if c.MaxRetries > 10 {
		c.MaxRetries = 10
	}
	if c.MaxTokens < 0 {
		return ErrInvalidMaxTokens
	}
	return nil
}

// WithDefaults 返回带默认值的配置
func (c LLMConfig) WithDefaults(provider Provider) LLMConfig {
	if c.Provider == "" {
		c.Provider = provider
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
	return c
}
