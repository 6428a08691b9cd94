// Package otel 提供基于 OpenTelemetry 的追踪、指标和日志支持
package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/easyops/hellochains-go/pkg/core/llm"
	"github.com/easyops/hellochains-go/pkg/tools"
)

// ScopeName 埋点作用域名称
const ScopeName = "github.com/easyops/hellochains-go/pkg/otel"

// Provider 可观测性提供者
//
// 持有 TracerProvider 与 MeterProvider，并负责关闭时刷新导出器。
type Provider struct {
	config         Config
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	shutdown       []func(context.Context) error
}

// Setup 按配置初始化追踪和指标
//
// 未启用或导出器为 none 时返回 noop 提供者，且不修改全局设置。
// 否则将创建的提供者注册为全局提供者。
func Setup(ctx context.Context, cfg Config) (*Provider, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		config:         cfg,
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}
	if !cfg.Enabled || cfg.Exporter.Type == ExporterNone {
		return p, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	spanExporter, err := NewSpanExporter(ctx, cfg.Exporter)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SampleRate)),
		sdktrace.WithBatcher(spanExporter),
	)
	p.shutdown = append(p.shutdown, tp.Shutdown)

	metricExporter, err := NewMetricExporter(ctx, cfg.Exporter)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(cfg.MetricInterval),
		)),
	)
	p.shutdown = append(p.shutdown, mp.Shutdown)

	p.tracerProvider = tp
	p.meterProvider = mp

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return p, nil
}

// newSampler 根据采样率选择采样器
func newSampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

// Enabled 是否在导出遥测数据
func (p *Provider) Enabled() bool {
	return len(p.shutdown) > 0
}

// TracerProvider 返回追踪提供者
func (p *Provider) TracerProvider() trace.TracerProvider {
	return p.tracerProvider
}

// MeterProvider 返回指标提供者
func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.meterProvider
}

// WrapProvider 用当前提供者的追踪和指标包装 LLM 客户端
func (p *Provider) WrapProvider(provider llm.Provider) (*TracedProvider, error) {
	return NewTracedProvider(provider,
		WithTracerProvider(p.tracerProvider),
		WithMeterProvider(p.meterProvider),
	)
}

// WrapTools 用当前提供者的追踪和指标包装工具
func (p *Provider) WrapTools(list []tools.Tool) ([]tools.Tool, error) {
	return TraceTools(list,
		WithTracerProvider(p.tracerProvider),
		WithMeterProvider(p.meterProvider),
	)
}

// Shutdown 刷新并关闭导出器
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(p.shutdown) - 1; i >= 0; i-- {
		if err := p.shutdown[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.shutdown = nil
	return errors.Join(errs...)
}
