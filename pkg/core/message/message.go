// Package message 定义对话消息相关的类型
package message

import (
	"time"
)

// Role 消息角色
type Role string

// 角色取值与 OpenAI Chat Completions 一致
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// IsValid 检查 Role 是否为有效值
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}

// IsTurn 是否为对话记录中的一轮（user 或 assistant）
func (r Role) IsTurn() bool {
	return r == RoleUser || r == RoleAssistant
}

// Label 返回渲染对话文本时的前缀
func (r Role) Label() string {
	switch r {
	case RoleSystem:
		return "System"
	case RoleUser:
		return "Human"
	case RoleAssistant:
		return "AI"
	case RoleTool:
		return "Tool"
	default:
		return string(r)
	}
}

// ToolCall 模型请求的一次工具调用
//
// Arguments 解析失败时保留 RawArguments，并在 ParseError 中给出原因。
type ToolCall struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Arguments    map[string]interface{} `json:"arguments"`
	RawArguments string                 `json:"raw_arguments,omitempty"`
	ParseError   string                 `json:"parse_error,omitempty"`
}

// Message 对话中的一条消息
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// Name 工具结果消息的工具名称
	Name string `json:"name,omitempty"`
	// ToolCalls assistant 消息携带的工具调用
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID tool 消息对应的调用 ID
	ToolCallID string    `json:"tool_call_id,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
}

// NewMessage 创建带当前时间戳的消息
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now()}
}

// NewSystemMessage 创建系统消息
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// NewUserMessage 创建用户消息
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage 创建助手消息
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewToolMessage 创建工具结果消息
func NewToolMessage(toolCallID, name, content string) Message {
	m := NewMessage(RoleTool, content)
	m.Name = name
	m.ToolCallID = toolCallID
	return m
}

// Exchange 一次问答对应的两轮记录
func Exchange(userText, assistantText string) []Message {
	return []Message{NewUserMessage(userText), NewAssistantMessage(assistantText)}
}

// HasToolCalls 检查消息是否包含工具调用
func (m *Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}
