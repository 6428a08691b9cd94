package llm

import (
	"fmt"
	"net/http"
	"time"

	"github.com/easyops/hellochains-go/pkg/core/errors"
)

// 提供商名称
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
)

// 可由默认值表补全的字段
const (
	FieldModel          = "model"
	FieldBaseURL        = "base_url"
	FieldAPIKey         = "api_key"
	FieldEmbeddingModel = "embedding_model"
)

// ClientConfig 客户端配置
//
// 显式传给客户端构造函数，空字段由 Resolve 按默认值表补全。
type ClientConfig struct {
	// Provider 提供商名称
	Provider string
	// Model 模型名称
	Model string
	// APIKey API 密钥
	APIKey string
	// APIKeyEnv 读取 API 密钥的环境变量名，为空时使用默认值表
	APIKeyEnv string
	// BaseURL API 端点
	BaseURL string
	// BaseURLEnv 读取 API 端点的环境变量名，为空时使用默认值表
	BaseURLEnv string
	// Temperature 请求未指定温度时使用
	Temperature float64
	// MaxTokens 请求未指定时的最大输出 token，0 表示不限制
	MaxTokens int
	// EmbeddingModel 嵌入模型
	EmbeddingModel string
	// Timeout 单次 HTTP 请求超时
	Timeout time.Duration
	// MaxRetries 可重试错误的最大重试次数
	MaxRetries int
	// RetryDelay 重试间隔基数
	RetryDelay time.Duration
}

// Default 默认值表中的一项
type Default struct {
	// Field 字段名
	Field string
	// Value 默认值
	Value string
	// EnvKey 优先读取的环境变量，为空表示只用 Value
	EnvKey string
}

var defaultTable = map[string][]Default{
	ProviderOpenRouter: {
		{Field: FieldModel, Value: "moonshotai/moonlight-16b-a3b-instruct:free"},
		{Field: FieldBaseURL, Value: "https://openrouter.ai/api/v1"},
		{Field: FieldAPIKey, EnvKey: "OPENROUTER_API_KEY"},
	},
	ProviderOpenAI: {
		{Field: FieldModel, Value: "gpt-3.5-turbo"},
		{Field: FieldBaseURL, Value: "https://api.openai.com/v1", EnvKey: "OPENAI_BASE_URL"},
		{Field: FieldAPIKey, EnvKey: "OPENAI_API_KEY"},
		{Field: FieldEmbeddingModel, Value: "text-embedding-3-small"},
	},
	ProviderAnthropic: {
		{Field: FieldModel, Value: "claude-3-5-haiku-latest"},
		{Field: FieldBaseURL, EnvKey: "ANTHROPIC_BASE_URL"},
		{Field: FieldAPIKey, EnvKey: "ANTHROPIC_API_KEY"},
	},
}

// Defaults 返回提供商的默认值表，未知提供商返回 nil
func Defaults(provider string) []Default {
	table, ok := defaultTable[provider]
	if !ok {
		return nil
	}
	out := make([]Default, len(table))
	copy(out, table)
	return out
}

// Resolve 按默认值表补全空字段
//
// getenv 通常为 os.Getenv。缺失的 API 密钥不在此处报错，
// 由后端在调用时返回 errors.ErrInvalidAPIKey。
func (c ClientConfig) Resolve(getenv func(string) string) (ClientConfig, error) {
	if c.Provider == "" {
		c.Provider = ProviderOpenRouter
	}
	table := Defaults(c.Provider)
	if table == nil {
		return c, fmt.Errorf("%w: %s", errors.ErrUnknownProvider, c.Provider)
	}

	for _, d := range table {
		switch d.Field {
		case FieldModel:
			c.Model = firstNonEmpty(c.Model, d.Value)
		case FieldBaseURL:
			envKey := firstNonEmpty(c.BaseURLEnv, d.EnvKey)
			c.BaseURL = firstNonEmpty(c.BaseURL, lookup(getenv, envKey), d.Value)
		case FieldAPIKey:
			envKey := firstNonEmpty(c.APIKeyEnv, d.EnvKey)
			c.APIKey = firstNonEmpty(c.APIKey, lookup(getenv, envKey), d.Value)
		case FieldEmbeddingModel:
			c.EmbeddingModel = firstNonEmpty(c.EmbeddingModel, d.Value)
		}
	}

	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	return c, nil
}

// httpClient 返回带超时的 HTTP 客户端
func (c ClientConfig) httpClient(override *http.Client) *http.Client {
	if override != nil {
		return override
	}
	return &http.Client{Timeout: c.Timeout}
}

func lookup(getenv func(string) string, key string) string {
	if key == "" || getenv == nil {
		return ""
	}
	return getenv(key)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
