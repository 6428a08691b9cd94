// Package llm 提供 LLM 服务的统一接口
package llm

import (
	"context"

	"github.com/easyops/hellochains-go/pkg/core/message"
)

// Provider 定义 LLM 提供商接口
//
// 统一不同后端的调用方式。调用是同步阻塞的，超时由 ctx 和客户端配置决定。
type Provider interface {
	// Generate 生成响应
	//
	// 参数:
	//   - ctx: 上下文
	//   - req: 请求参数
	//
	// 返回:
	//   - Response: 响应结果
	//   - error: 调用错误
	Generate(ctx context.Context, req Request) (Response, error)

	// Embed 生成文本嵌入向量
	//
	// 返回的向量与 texts 一一对应。
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Name 返回提供商名称
	Name() string

	// Model 返回当前模型名称
	Model() string

	// Close 关闭客户端连接
	Close() error
}

// ToolDefinition 工具定义（用于 Function Calling）
type ToolDefinition struct {
	// Name 工具名称
	Name string `json:"name"`
	// Description 工具描述
	Description string `json:"description"`
	// Parameters 参数 Schema (JSON Schema 格式)
	Parameters map[string]interface{} `json:"parameters"`
}

// Request LLM 请求
type Request struct {
	// Messages 消息历史
	Messages []message.Message
	// Tools 可用工具列表（可选）
	Tools []ToolDefinition
	// ToolChoice 工具选择策略（可选）
	// 值: "auto", "none", "required"
	ToolChoice string
	// Temperature 温度参数（可选）
	Temperature *float64
	// MaxTokens 最大输出 token（可选）
	MaxTokens *int
	// Stop 停止序列（可选）
	Stop []string
}

// NewRequest 创建请求
func NewRequest(msgs []message.Message, opts ...RequestOption) Request {
	req := Request{Messages: msgs}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// Response LLM 响应
type Response struct {
	// ID 响应标识
	ID string `json:"id"`
	// Content 响应文本内容
	Content string `json:"content"`
	// ToolCalls 工具调用请求（如有）
	ToolCalls []message.ToolCall `json:"tool_calls,omitempty"`
	// TokenUsage Token 使用统计
	TokenUsage message.TokenUsage `json:"token_usage"`
	// FinishReason 结束原因
	// 值: "stop", "tool_calls", "length", "content_filter"
	FinishReason string `json:"finish_reason"`
}

// HasToolCalls 检查响应是否包含工具调用
func (r Response) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}
