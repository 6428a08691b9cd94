package otel

import "go.opentelemetry.io/otel/attribute"

// 语义属性键
const (
	AttrLLMProvider         = "llm.provider"
	AttrLLMModel            = "llm.model"
	AttrLLMOperation        = "llm.operation"
	AttrLLMMessageCount     = "llm.message_count"
	AttrLLMToolCount        = "llm.tool_count"
	AttrLLMInputCount       = "llm.input_count"
	AttrLLMPromptTokens     = "llm.prompt_tokens"
	AttrLLMCompletionTokens = "llm.completion_tokens"
	AttrLLMTotalTokens      = "llm.total_tokens"
	AttrLLMFinishReason     = "llm.finish_reason"

	AttrToolName = "tool.name"

	AttrStatus = "status"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// LLMProvider 创建 LLM 提供商属性
func LLMProvider(provider string) attribute.KeyValue {
	return attribute.String(AttrLLMProvider, provider)
}

// LLMModel 创建 LLM 模型属性
func LLMModel(model string) attribute.KeyValue {
	return attribute.String(AttrLLMModel, model)
}

// LLMOperation 创建操作类型属性（generate 或 embed）
func LLMOperation(op string) attribute.KeyValue {
	return attribute.String(AttrLLMOperation, op)
}

// LLMTokens 创建 Token 使用属性
func LLMTokens(prompt, completion, total int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrLLMPromptTokens, prompt),
		attribute.Int(AttrLLMCompletionTokens, completion),
		attribute.Int(AttrLLMTotalTokens, total),
	}
}

// ToolName 创建工具名称属性
func ToolName(name string) attribute.KeyValue {
	return attribute.String(AttrToolName, name)
}

// Status 创建结果状态属性
func Status(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String(AttrStatus, statusError)
	}
	return attribute.String(AttrStatus, statusSuccess)
}
