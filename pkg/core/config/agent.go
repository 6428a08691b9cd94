package config

import "time"

// AgentConfig Agent 配置
type AgentConfig struct {
	// Name Agent 名称
	Name string `koanf:"name"`
	// SystemPrompt 系统提示词，为空时使用内置 ReAct 提示词
	SystemPrompt string `koanf:"system_prompt"`
	// MaxIterations 最大迭代次数
	// 默认: 10, 范围: [1, 100]
	MaxIterations int `koanf:"max_iterations"`
	// Temperature LLM 温度参数
	// 默认: 0, 范围: [0, 2]
	Temperature float64 `koanf:"temperature"`
	// MaxTokens 最大输出 token 数
	// 默认: 1024
	MaxTokens int `koanf:"max_tokens"`
	// Timeout 单个查询的执行超时时间
	// 默认: 5m
	Timeout time.Duration `koanf:"timeout"`
	// WikipediaURL MediaWiki API 地址
	WikipediaURL string `koanf:"wikipedia_url"`
}

// Validate 验证 Agent 配置
func (c *AgentConfig) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if c.MaxIterations < 1 || c.MaxIterations > 100 {
		return ErrInvalidMaxIterations
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return ErrInvalidTemperature
	}
	if c.MaxTokens < 1 {
		return ErrInvalidMaxTokens
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}
