package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/easyops/hellochains-go/pkg/core/llm"
)

// tracedOptions 包装器选项
type tracedOptions struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// TracedOption 配置带追踪的包装器
type TracedOption func(*tracedOptions)

// WithTracerProvider 指定追踪提供者，默认使用全局提供者
func WithTracerProvider(tp trace.TracerProvider) TracedOption {
	return func(o *tracedOptions) {
		o.tracerProvider = tp
	}
}

// WithMeterProvider 指定指标提供者，默认使用全局提供者
func WithMeterProvider(mp metric.MeterProvider) TracedOption {
	return func(o *tracedOptions) {
		o.meterProvider = mp
	}
}

func applyTracedOptions(opts []TracedOption) tracedOptions {
	o := tracedOptions{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// TracedProvider 为 LLM Provider 增加追踪和指标
//
// 每次 Generate 或 Embed 调用开启一个 client span，并记录请求数、错误数、
// 耗时和 Token 用量。
type TracedProvider struct {
	provider llm.Provider
	tracer   trace.Tracer
	inst     *llmInstruments
}

// NewTracedProvider 创建带追踪的 LLM Provider
func NewTracedProvider(provider llm.Provider, opts ...TracedOption) (*TracedProvider, error) {
	o := applyTracedOptions(opts)

	inst, err := newLLMInstruments(o.meterProvider.Meter(ScopeName))
	if err != nil {
		return nil, err
	}

	return &TracedProvider{
		provider: provider,
		tracer:   o.tracerProvider.Tracer(ScopeName),
		inst:     inst,
	}, nil
}

// Unwrap 返回被包装的 Provider
func (p *TracedProvider) Unwrap() llm.Provider {
	return p.provider
}

// Generate 生成响应
func (p *TracedProvider) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	ctx, span := p.tracer.Start(ctx, "llm.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			LLMProvider(p.provider.Name()),
			LLMModel(p.provider.Model()),
			attribute.Int(AttrLLMMessageCount, len(req.Messages)),
			attribute.Int(AttrLLMToolCount, len(req.Tools)),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := p.provider.Generate(ctx, req)
	p.record(ctx, "generate", time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}

	usage := resp.TokenUsage
	span.SetAttributes(LLMTokens(usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)...)
	span.SetAttributes(attribute.String(AttrLLMFinishReason, resp.FinishReason))
	span.SetStatus(codes.Ok, "")

	attrs := metric.WithAttributes(LLMProvider(p.provider.Name()), LLMModel(p.provider.Model()))
	p.inst.promptTokens.Add(ctx, int64(usage.PromptTokens), attrs)
	p.inst.completionTokens.Add(ctx, int64(usage.CompletionTokens), attrs)
	p.inst.totalTokens.Add(ctx, int64(usage.TotalTokens), attrs)

	return resp, nil
}

// Embed 生成文本嵌入向量
func (p *TracedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, span := p.tracer.Start(ctx, "llm.embed",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			LLMProvider(p.provider.Name()),
			LLMModel(p.provider.Model()),
			attribute.Int(AttrLLMInputCount, len(texts)),
		),
	)
	defer span.End()

	start := time.Now()
	result, err := p.provider.Embed(ctx, texts)
	p.record(ctx, "embed", time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// record 记录请求数、错误数和耗时
func (p *TracedProvider) record(ctx context.Context, op string, d time.Duration, err error) {
	base := []attribute.KeyValue{
		LLMProvider(p.provider.Name()),
		LLMModel(p.provider.Model()),
		LLMOperation(op),
	}

	p.inst.requests.Add(ctx, 1, metric.WithAttributes(append(base, Status(err))...))
	p.inst.duration.Record(ctx, float64(d.Microseconds())/1000, metric.WithAttributes(base...))
	if err != nil {
		p.inst.errors.Add(ctx, 1, metric.WithAttributes(base...))
	}
}

// Name 返回提供商名称
func (p *TracedProvider) Name() string {
	return p.provider.Name()
}

// Model 返回模型名称
func (p *TracedProvider) Model() string {
	return p.provider.Model()
}

// Close 关闭被包装的 Provider
func (p *TracedProvider) Close() error {
	return p.provider.Close()
}

var _ llm.Provider = (*TracedProvider)(nil)
