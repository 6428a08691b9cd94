package config

import "errors"

// 配置验证相关错误
var (
	// ErrInvalidProvider 提供商无效
	ErrInvalidProvider = errors.New("provider must be one of openrouter, openai, anthropic")
	// ErrInvalidTimeout 超时时间无效
	ErrInvalidTimeout = errors.New("invalid timeout value")
	// ErrInvalidMaxRetries 重试次数无效
	ErrInvalidMaxRetries = errors.New("invalid max retries value")
	// ErrNameRequired Agent 名称必填
	ErrNameRequired = errors.New("agent name is required")
	// ErrInvalidMaxIterations 迭代次数无效
	ErrInvalidMaxIterations = errors.New("max iterations must be between 1 and 100")
	// ErrInvalidTemperature 温度值无效
	ErrInvalidTemperature = errors.New("temperature must be between 0 and 2")
	// ErrInvalidMaxTokens Token 数无效
	ErrInvalidMaxTokens = errors.New("max tokens must be positive")
	// ErrInvalidPersona 角色编号无效
	ErrInvalidPersona = errors.New("persona index must not be negative")
	// ErrInvalidMemoryK 记忆轮数无效
	ErrInvalidMemoryK = errors.New("memory k must not be negative")
	// ErrDBPathRequired 持久化会话需要数据库路径
	ErrDBPathRequired = errors.New("db path is required when session is set")
	// ErrInvalidChunkSize 分块大小无效
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
	// ErrInvalidChunkOverlap 分块重叠无效
	ErrInvalidChunkOverlap = errors.New("chunk overlap must be in [0, chunk size)")
	// ErrInvalidTopK 检索数量无效
	ErrInvalidTopK = errors.New("top k must be positive")
	// ErrInvalidLogLevel 日志级别无效
	ErrInvalidLogLevel = errors.New("log level must be one of debug, info, warn, error")
	// ErrInvalidLogFormat 日志格式无效
	ErrInvalidLogFormat = errors.New("log format must be text or json")
	// ErrInvalidExporter 导出器类型无效
	ErrInvalidExporter = errors.New("exporter must be one of none, stdout, otlp-grpc, otlp-http")
	// ErrInvalidSampleRate 采样率无效
	ErrInvalidSampleRate = errors.New("sample rate must be between 0 and 1")
)
