package llm

import (
	"fmt"

	"github.com/easyops/hellochains-go/pkg/core/config"
	"github.com/easyops/hellochains-go/pkg/core/errors"
)

// New 按提供商名称创建客户端
func New(cfg ClientConfig, opts ...Option) (Provider, error) {
	switch cfg.Provider {
	case "", ProviderOpenRouter, ProviderOpenAI:
		return NewCompatClient(cfg, opts...)
	case ProviderAnthropic:
		return NewAnthropic(cfg, opts...)
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownProvider, cfg.Provider)
	}
}

// FromConfig 从加载的配置创建 LLM Provider
//
// provider 在配置未指定提供商时使用，temperature 为该用途的默认温度。
func FromConfig(cfg config.LLMConfig, provider config.Provider, temperature float64, opts ...Option) (Provider, error) {
	cfg = cfg.WithDefaults(provider)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return New(ClientConfigFrom(cfg, temperature), opts...)
}

// ClientConfigFrom 将配置转换为客户端配置
func ClientConfigFrom(cfg config.LLMConfig, temperature float64) ClientConfig {
	return ClientConfig{
		Provider:       string(cfg.Provider),
		Model:          cfg.Model,
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Temperature:    temperature,
		MaxTokens:      cfg.MaxTokens,
		EmbeddingModel: cfg.EmbeddingModel,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	}
}
