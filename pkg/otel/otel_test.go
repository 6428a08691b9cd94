package otel_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/easyops/hellochains-go/pkg/core/config"
	"github.com/easyops/hellochains-go/pkg/core/llm"
	"github.com/easyops/hellochains-go/pkg/core/message"
	"github.com/easyops/hellochains-go/pkg/otel"
	"github.com/easyops/hellochains-go/pkg/tools"
)

type stubProvider struct {
	resp   llm.Response
	err    error
	closed bool
}

func (p *stubProvider) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	return p.resp, p.err
}

func (p *stubProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if p.err != nil {
		return nil, p.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (p *stubProvider) Name() string  { return "openai" }
func (p *stubProvider) Model() string { return "gpt-4o-mini" }
func (p *stubProvider) Close() error {
	p.closed = true
	return nil
}

type harness struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	opts   []otel.TracedOption
}

func newHarness() *harness {
	sr := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	return &harness{
		spans:  sr,
		reader: reader,
		opts: []otel.TracedOption{
			otel.WithTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))),
			otel.WithMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))),
		},
	}
}

func (h *harness) collect(t *testing.T) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := h.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}
	return rm
}

// sumInt64 汇总某个计数器在所有属性组合上的值
func sumInt64(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func histogramCount(rm metricdata.ResourceMetrics, name string) uint64 {
	var total uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if h, ok := m.Data.(metricdata.Histogram[float64]); ok {
				for _, dp := range h.DataPoints {
					total += dp.Count
				}
			}
		}
	}
	return total
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracedProvider_Generate(t *testing.T) {
	h := newHarness()
	stub := &stubProvider{resp: llm.Response{
		Content:      "hi",
		FinishReason: "stop",
		TokenUsage:   message.TokenUsage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5},
	}}

	traced, err := otel.NewTracedProvider(stub, h.opts...)
	if err != nil {
		t.Fatalf("NewTracedProvider: %v", err)
	}

	resp, err := traced.Generate(context.Background(), llm.NewRequest([]message.Message{
		message.NewUserMessage("hello"),
	}))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Content != "hi" {
		t.Fatalf("content = %q", resp.Content)
	}

	ended := h.spans.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	span := ended[0]
	if span.Name() != "llm.generate" {
		t.Errorf("span name = %q", span.Name())
	}
	if span.SpanKind() != trace.SpanKindClient {
		t.Errorf("span kind = %v", span.SpanKind())
	}
	if span.Status().Code != codes.Ok {
		t.Errorf("status = %v", span.Status().Code)
	}
	if v, ok := attrValue(span.Attributes(), otel.AttrLLMTotalTokens); !ok || v.AsInt64() != 5 {
		t.Errorf("total tokens attribute = %v (found %v)", v.AsInt64(), ok)
	}
	if v, ok := attrValue(span.Attributes(), otel.AttrLLMProvider); !ok || v.AsString() != "openai" {
		t.Errorf("provider attribute = %q", v.AsString())
	}
	if v, _ := attrValue(span.Attributes(), otel.AttrLLMMessageCount); v.AsInt64() != 1 {
		t.Errorf("message count = %d", v.AsInt64())
	}

	rm := h.collect(t)
	if got := sumInt64(rm, otel.MetricLLMRequests); got != 1 {
		t.Errorf("requests = %d", got)
	}
	if got := sumInt64(rm, otel.MetricLLMErrors); got != 0 {
		t.Errorf("errors = %d", got)
	}
	if got := sumInt64(rm, otel.MetricLLMTokensPrompt); got != 3 {
		t.Errorf("prompt tokens = %d", got)
	}
	if got := sumInt64(rm, otel.MetricLLMTokensCompletion); got != 2 {
		t.Errorf("completion tokens = %d", got)
	}
	if got := sumInt64(rm, otel.MetricLLMTokensTotal); got != 5 {
		t.Errorf("total tokens = %d", got)
	}
	if got := histogramCount(rm, otel.MetricLLMRequestDuration); got != 1 {
		t.Errorf("duration samples = %d", got)
	}
}

func TestTracedProvider_GenerateError(t *testing.T) {
	h := newHarness()
	boom := errors.New("upstream down")
	traced, err := otel.NewTracedProvider(&stubProvider{err: boom}, h.opts...)
	if err != nil {
		t.Fatalf("NewTracedProvider: %v", err)
	}

	_, err = traced.Generate(context.Background(), llm.Request{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}

	span := h.spans.Ended()[0]
	if span.Status().Code != codes.Error {
		t.Errorf("status = %v", span.Status().Code)
	}
	if len(span.Events()) == 0 || span.Events()[0].Name != "exception" {
		t.Errorf("expected recorded exception event, got %v", span.Events())
	}

	rm := h.collect(t)
	if got := sumInt64(rm, otel.MetricLLMRequests); got != 1 {
		t.Errorf("requests = %d", got)
	}
	if got := sumInt64(rm, otel.MetricLLMErrors); got != 1 {
		t.Errorf("errors = %d", got)
	}
	if got := sumInt64(rm, otel.MetricLLMTokensTotal); got != 0 {
		t.Errorf("no tokens expected on failure, got %d", got)
	}
}

func TestTracedProvider_EmbedAndDelegation(t *testing.T) {
	h := newHarness()
	stub := &stubProvider{}
	traced, err := otel.NewTracedProvider(stub, h.opts...)
	if err != nil {
		t.Fatalf("NewTracedProvider: %v", err)
	}

	vecs, err := traced.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}

	span := h.spans.Ended()[0]
	if span.Name() != "llm.embed" {
		t.Errorf("span name = %q", span.Name())
	}
	if v, _ := attrValue(span.Attributes(), otel.AttrLLMInputCount); v.AsInt64() != 2 {
		t.Errorf("input count = %d", v.AsInt64())
	}

	if traced.Name() != "openai" || traced.Model() != "gpt-4o-mini" {
		t.Errorf("name/model not delegated: %s/%s", traced.Name(), traced.Model())
	}
	if traced.Unwrap() != stub {
		t.Error("Unwrap should return the wrapped provider")
	}
	if err := traced.Close(); err != nil || !stub.closed {
		t.Errorf("Close not delegated: %v", err)
	}
}

func TestTracedTool(t *testing.T) {
	h := newHarness()
	echo := tools.NewFuncTool("echo", "Echo the input back",
		tools.ParameterSchema{
			Type:       "object",
			Properties: map[string]tools.PropertySchema{"text": {Type: "string"}},
			Required:   []string{"text"},
		},
		func(ctx context.Context, args map[string]interface{}) (string, error) {
			text := args["text"].(string)
			if text == "fail" {
				return "", errors.New("refused")
			}
			return text, nil
		},
	)

	traced, err := otel.TraceTools([]tools.Tool{echo}, h.opts...)
	if err != nil {
		t.Fatalf("TraceTools: %v", err)
	}
	tool := traced[0].(*otel.TracedTool)

	if tool.Name() != "echo" {
		t.Fatalf("name = %q", tool.Name())
	}
	if err := tool.Validate(map[string]interface{}{}); err == nil {
		t.Error("expected validation error for missing required field")
	}

	out, err := tool.Execute(context.Background(), map[string]interface{}{"text": "ok"})
	if err != nil || out != "ok" {
		t.Fatalf("Execute = %q, %v", out, err)
	}
	if _, err := tool.Execute(context.Background(), map[string]interface{}{"text": "fail"}); err == nil {
		t.Fatal("expected tool error")
	}

	ended := h.spans.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(ended))
	}
	if ended[1].Status().Code != codes.Error {
		t.Errorf("failed call status = %v", ended[1].Status().Code)
	}

	rm := h.collect(t)
	if got := sumInt64(rm, otel.MetricToolCalls); got != 2 {
		t.Errorf("tool calls = %d", got)
	}
	if got := sumInt64(rm, otel.MetricToolErrors); got != 1 {
		t.Errorf("tool errors = %d", got)
	}
}

func TestNewLogger_TraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := otel.NewLogger(otel.LoggingConfig{Level: "debug", Format: "json", IncludeTraceID: true}, &buf)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	logger.InfoContext(ctx, "inside span", "k", "v")
	span.End()

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if record["trace_id"] != span.SpanContext().TraceID().String() {
		t.Errorf("trace_id = %v", record["trace_id"])
	}
	if record["span_id"] != span.SpanContext().SpanID().String() {
		t.Errorf("span_id = %v", record["span_id"])
	}
	if record["k"] != "v" {
		t.Errorf("k = %v", record["k"])
	}

	buf.Reset()
	logger.With("component", "chat").InfoContext(context.Background(), "no span")
	if strings.Contains(buf.String(), "trace_id") {
		t.Errorf("unexpected trace_id without span: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"component":"chat"`) {
		t.Errorf("With attributes lost: %s", buf.String())
	}
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := otel.NewLogger(otel.LoggingConfig{Level: "warn", Format: "text"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "msg=shown") {
		t.Errorf("unexpected text output: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := otel.ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_FromConfigAndValidate(t *testing.T) {
	cfg := otel.FromConfig(config.ObservabilityConfig{Enabled: true, Exporter: "stdout"})
	if cfg.ServiceName != "hellochains" {
		t.Errorf("service name = %q", cfg.ServiceName)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("sample rate = %v", cfg.SampleRate)
	}
	if cfg.Exporter.Endpoint != "localhost:4317" {
		t.Errorf("endpoint = %q", cfg.Exporter.Endpoint)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	bad := otel.DefaultConfig()
	bad.SampleRate = 1.5
	if err := bad.Validate(); !errors.Is(err, otel.ErrInvalidSampleRate) {
		t.Errorf("expected ErrInvalidSampleRate, got %v", err)
	}

	bad = otel.DefaultConfig()
	bad.Exporter.Type = "zipkin"
	if err := bad.Validate(); !errors.Is(err, otel.ErrInvalidExporter) {
		t.Errorf("expected ErrInvalidExporter, got %v", err)
	}
}

func TestSetup_Disabled(t *testing.T) {
	p, err := otel.Setup(context.Background(), otel.DefaultConfig())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if p.Enabled() {
		t.Error("default config should not export")
	}

	_, span := p.TracerProvider().Tracer("test").Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("noop tracer should produce invalid span contexts")
	}
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestSetup_StdoutFlushesOnShutdown(t *testing.T) {
	var buf bytes.Buffer
	cfg := otel.DefaultConfig()
	cfg.Enabled = true
	cfg.Exporter.Type = otel.ExporterStdout
	cfg.Exporter.Writer = &buf

	p, err := otel.Setup(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if !p.Enabled() {
		t.Fatal("stdout exporter should be enabled")
	}

	traced, err := p.WrapProvider(&stubProvider{resp: llm.Response{Content: "x"}})
	if err != nil {
		t.Fatalf("WrapProvider: %v", err)
	}
	if _, err := traced.Generate(context.Background(), llm.Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "llm.generate") {
		t.Errorf("span not flushed: %s", out)
	}
	if !strings.Contains(out, otel.MetricLLMRequests) {
		t.Errorf("metrics not flushed: %s", out)
	}
}

func TestSetup_InvalidConfig(t *testing.T) {
	cfg := otel.DefaultConfig()
	cfg.Enabled = true
	cfg.Exporter.Type = "kafka"
	if _, err := otel.Setup(context.Background(), cfg); !errors.Is(err, otel.ErrInvalidExporter) {
		t.Fatalf("expected ErrInvalidExporter, got %v", err)
	}
}
