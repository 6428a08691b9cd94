package otel

import (
	"go.opentelemetry.io/otel/metric"
)

// 指标名称
const (
	MetricLLMRequests         = "llm.requests"          // 计数器: LLM 请求次数
	MetricLLMErrors           = "llm.errors"            // 计数器: LLM 错误次数
	MetricLLMRequestDuration  = "llm.request.duration"  // 直方图: LLM 请求时间(ms)
	MetricLLMTokensPrompt     = "llm.tokens.prompt"     // 计数器: Prompt Token 总数
	MetricLLMTokensCompletion = "llm.tokens.completion" // 计数器: Completion Token 总数
	MetricLLMTokensTotal      = "llm.tokens.total"      // 计数器: 总 Token 数

	MetricToolCalls        = "tool.calls"         // 计数器: 工具调用次数
	MetricToolErrors       = "tool.errors"        // 计数器: 工具错误次数
	MetricToolCallDuration = "tool.call.duration" // 直方图: 工具调用时间(ms)
)

const unitMilliseconds = "ms"

// llmInstruments LLM 调用指标
type llmInstruments struct {
	requests         metric.Int64Counter
	errors           metric.Int64Counter
	duration         metric.Float64Histogram
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	totalTokens      metric.Int64Counter
}

func newLLMInstruments(meter metric.Meter) (*llmInstruments, error) {
	var (
		inst llmInstruments
		err  error
	)
	if inst.requests, err = meter.Int64Counter(MetricLLMRequests,
		metric.WithDescription("Number of LLM requests")); err != nil {
		return nil, err
	}
	if inst.errors, err = meter.Int64Counter(MetricLLMErrors,
		metric.WithDescription("Number of LLM errors")); err != nil {
		return nil, err
	}
	if inst.duration, err = meter.Float64Histogram(MetricLLMRequestDuration,
		metric.WithDescription("Duration of LLM requests"),
		metric.WithUnit(unitMilliseconds)); err != nil {
		return nil, err
	}
	if inst.promptTokens, err = meter.Int64Counter(MetricLLMTokensPrompt,
		metric.WithDescription("Number of prompt tokens")); err != nil {
		return nil, err
	}
	if inst.completionTokens, err = meter.Int64Counter(MetricLLMTokensCompletion,
		metric.WithDescription("Number of completion tokens")); err != nil {
		return nil, err
	}
	if inst.totalTokens, err = meter.Int64Counter(MetricLLMTokensTotal,
		metric.WithDescription("Total number of tokens")); err != nil {
		return nil, err
	}
	return &inst, nil
}

// toolInstruments 工具调用指标
type toolInstruments struct {
	calls    metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

func newToolInstruments(meter metric.Meter) (*toolInstruments, error) {
	var (
		inst toolInstruments
		err  error
	)
	if inst.calls, err = meter.Int64Counter(MetricToolCalls,
		metric.WithDescription("Number of tool calls")); err != nil {
		return nil, err
	}
	if inst.errors, err = meter.Int64Counter(MetricToolErrors,
		metric.WithDescription("Number of tool errors")); err != nil {
		return nil, err
	}
	if inst.duration, err = meter.Float64Histogram(MetricToolCallDuration,
		metric.WithDescription("Duration of tool calls"),
		metric.WithUnit(unitMilliseconds)); err != nil {
		return nil, err
	}
	return &inst, nil
}
