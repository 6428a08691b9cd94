package otel

import (
	"time"

	"github.com/easyops/hellochains-go/pkg/core/config"
)

// Config 可观测性配置
type Config struct {
	// Enabled 是否启用追踪和指标
	Enabled bool
	// ServiceName 服务名称
	ServiceName string
	// ServiceVersion 服务版本
	ServiceVersion string
	// Exporter 导出器配置
	Exporter ExporterConfig
	// SampleRate 采样率 (0.0-1.0)
	SampleRate float64
	// MetricInterval 指标导出间隔
	MetricInterval time.Duration
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	// Level 日志级别 (debug, info, warn, error)
	Level string
	// Format 日志格式 (text, json)
	Format string
	// IncludeTraceID 是否附加 trace_id 和 span_id
	IncludeTraceID bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		ServiceName:    "hellochains",
		ServiceVersion: "0.1.0",
		Exporter:       DefaultExporterConfig(),
		SampleRate:     1.0,
		MetricInterval: 60 * time.Second,
	}
}

// FromConfig 从全局配置转换
func FromConfig(cfg config.ObservabilityConfig) Config {
	c := Config{
		Enabled:     cfg.Enabled,
		ServiceName: cfg.ServiceName,
		SampleRate:  cfg.SampleRate,
		Exporter: ExporterConfig{
			Type:     ExporterType(cfg.Exporter),
			Endpoint: cfg.Endpoint,
			Insecure: cfg.Insecure,
		},
	}
	return c.WithDefaults()
}

// LoggingFromConfig 从全局日志配置转换
func LoggingFromConfig(cfg config.LogConfig) LoggingConfig {
	return LoggingConfig{
		Level:          cfg.Level,
		Format:         cfg.Format,
		IncludeTraceID: true,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return ErrInvalidSampleRate
	}
	switch c.Exporter.Type {
	case ExporterNone, ExporterStdout, ExporterOTLPGRPC, ExporterOTLPHTTP:
	default:
		return ErrInvalidExporter
	}
	return nil
}

// WithDefaults 返回带默认值的配置
//
// 采样率为 0 视为未设置。
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()

	if c.ServiceName == "" {
		c.ServiceName = defaults.ServiceName
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = defaults.ServiceVersion
	}
	if c.SampleRate == 0 {
		c.SampleRate = defaults.SampleRate
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = defaults.MetricInterval
	}
	if c.Exporter.Type == "" {
		c.Exporter.Type = ExporterNone
	}
	if c.Exporter.Endpoint == "" {
		c.Exporter.Endpoint = defaults.Exporter.Endpoint
	}
	if c.Exporter.Timeout == 0 {
		c.Exporter.Timeout = defaults.Exporter.Timeout
	}
	return c
}
