package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/easyops/hellochains-go/pkg/tools"
)

// TracedTool 为工具调用增加追踪和指标
type TracedTool struct {
	tools.Tool
	tracer trace.Tracer
	inst   *toolInstruments
}

// NewTracedTool 包装单个工具
func NewTracedTool(tool tools.Tool, opts ...TracedOption) (*TracedTool, error) {
	o := applyTracedOptions(opts)

	inst, err := newToolInstruments(o.meterProvider.Meter(ScopeName))
	if err != nil {
		return nil, err
	}
	return &TracedTool{
		Tool:   tool,
		tracer: o.tracerProvider.Tracer(ScopeName),
		inst:   inst,
	}, nil
}

// TraceTools 包装一组工具
func TraceTools(list []tools.Tool, opts ...TracedOption) ([]tools.Tool, error) {
	traced := make([]tools.Tool, 0, len(list))
	for _, t := range list {
		tt, err := NewTracedTool(t, opts...)
		if err != nil {
			return nil, err
		}
		traced = append(traced, tt)
	}
	return traced, nil
}

// Validate 转发给被包装工具的参数校验
func (t *TracedTool) Validate(args map[string]interface{}) error {
	if v, ok := t.Tool.(tools.ToolWithValidation); ok {
		return v.Validate(args)
	}
	return nil
}

// Execute 执行工具
func (t *TracedTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	ctx, span := t.tracer.Start(ctx, "tool.execute",
		trace.WithAttributes(ToolName(t.Name())),
	)
	defer span.End()

	start := time.Now()
	result, err := t.Tool.Execute(ctx, args)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	name := metric.WithAttributes(ToolName(t.Name()))
	t.inst.calls.Add(ctx, 1, metric.WithAttributes(ToolName(t.Name()), Status(err)))
	t.inst.duration.Record(ctx, elapsed, name)

	if err != nil {
		t.inst.errors.Add(ctx, 1, name)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("tool.result_length", len(result)))
	span.SetStatus(codes.Ok, "")
	return result, nil
}

var _ tools.ToolWithValidation = (*TracedTool)(nil)
