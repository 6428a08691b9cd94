// Package config 提供配置加载和管理功能
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "HELLOCHAINS_"

// Config 全局配置结构
type Config struct {
	// LLM LLM 配置
	LLM LLMConfig `koanf:"llm"`
	// Chat 角色对话配置
	Chat ChatConfig `koanf:"chat"`
	// Agent Agent 配置
	Agent AgentConfig `koanf:"agent"`
	// RAG 检索增强配置
	RAG RAGConfig `koanf:"rag"`
	// Log 日志配置
	Log LogConfig `koanf:"log"`
	// Observability 可观测性配置
	Observability ObservabilityConfig `koanf:"observability"`
}

// Validate 验证全部配置
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Chat.Validate(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.RAG.Validate(); err != nil {
		return fmt.Errorf("rag: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}

// Loader 配置加载器
type Loader struct {
	k *koanf.Koanf
}

// NewLoader 创建配置加载器，并预置默认值
func NewLoader() *Loader {
	l := &Loader{k: koanf.New(".")}
	for key, value := range defaultValues() {
		_ = l.k.Set(key, value)
	}
	return l
}

// LoadDotenv 加载 .env 文件
//
// 文件中的变量导出到进程环境，已存在的环境变量不会被覆盖。
// 文件不存在时不报错。
func (l *Loader) LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	dk := koanf.New(".")
	if err := dk.Load(file.Provider(path), dotenv.Parser()); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	for key, value := range dk.All() {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(value)); err != nil {
			return fmt.Errorf("export %s: %w", key, err)
		}
	}
	return nil
}

// LoadEnv 从环境变量加载配置
func (l *Loader) LoadEnv(prefix string) error {
	return l.k.Load(env.Provider(prefix, ".", func(s string) string {
		return envKey(prefix, s)
	}), nil)
}

// envKey 转换环境变量名: HELLOCHAINS_LLM_API_KEY -> llm.api_key
func envKey(prefix, s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, prefix))
	section, field, ok := strings.Cut(s, "_")
	if !ok {
		return s
	}
	return section + "." + field
}

// Set 覆盖单个配置值（用于命令行参数）
func (l *Loader) Set(key string, value interface{}) error {
	return l.k.Set(key, value)
}

// Unmarshal 解析配置到结构体
func (l *Loader) Unmarshal(cfg *Config) error {
	return l.k.Unmarshal("", cfg)
}

// GetString 获取字符串配置值
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// GetInt 获取整数配置值
func (l *Loader) GetInt(key string) int {
	return l.k.Int(key)
}

// GetBool 获取布尔配置值
func (l *Loader) GetBool(key string) bool {
	return l.k.Bool(key)
}

// GetDuration 获取时间间隔配置值
func (l *Loader) GetDuration(key string) time.Duration {
	return l.k.Duration(key)
}

// Load 加载完整配置（默认值 + .env + 环境变量）
func Load(envFile string) (*Config, error) {
	loader := NewLoader()

	if err := loader.LoadDotenv(envFile); err != nil {
		return nil, err
	}

	// 环境变量优先级最高
	if err := loader.LoadEnv(EnvPrefix); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := loader.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default 返回全部默认配置
func Default() *Config {
	cfg := &Config{}
	_ = NewLoader().Unmarshal(cfg)
	return cfg
}

// defaultValues 以扁平键描述默认配置
func defaultValues() map[string]interface{} {
	return map[string]interface{}{
		"llm.timeout":     "60s",
		"llm.max_retries": 0,
		"llm.retry_delay": "1s",

		"chat.memory_k":    3,
		"chat.temperature": 0.7,
		"chat.db_path":     "hellochains.db",

		"agent.name":           "ReActAgent",
		"agent.max_iterations": 10,
		"agent.temperature":    0.0,
		"agent.max_tokens":     1024,
		"agent.timeout":        "5m",
		"agent.wikipedia_url":  "https://en.wikipedia.org/w/api.php",

		"rag.sample_path":   "sample_data.txt",
		"rag.chunk_size":    200,
		"rag.chunk_overlap": 20,
		"rag.separator":     "\n",
		"rag.top_k":         2,

		"log.level":  "info",
		"log.format": "text",

		"observability.enabled":      false,
		"observability.exporter":     "none",
		"observability.endpoint":     "localhost:4317",
		"observability.insecure":     true,
		"observability.service_name": "hellochains",
		"observability.sample_rate":  1.0,
	}
}
