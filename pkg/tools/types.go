package tools

import (
	"encoding/json"

	"github.com/easyops/hellochains-go/pkg/core/llm"
)

// ParameterSchema 工具参数的 JSON Schema
type ParameterSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertySchema 单个参数的 Schema
type PropertySchema struct {
	// Type "string", "number", "integer", "boolean", "array" 或 "object"
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Enum        []string        `json:"enum,omitempty"`
	Items       *PropertySchema `json:"items,omitempty"`
}

// Map 转换为通用的 map 形式
func (s ParameterSchema) Map() map[string]interface{} {
	data, err := json.Marshal(s)
	if err != nil {
		return map[string]interface{}{"type": "object"}
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]interface{}{"type": "object"}
	}
	if _, ok := out["properties"]; !ok {
		out["properties"] = map[string]interface{}{}
	}
	return out
}

// ToLLMDefinition 转换为请求中的工具定义
func ToLLMDefinition(t Tool) llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters().Map(),
	}
}

// ToolResult 工具执行结果
type ToolResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Result  string `json:"result"`
	Error   string `json:"error,omitempty"`
}

// NewToolResult 创建成功结果
func NewToolResult(name, result string) ToolResult {
	return ToolResult{
		Name:    name,
		Success: true,
		Result:  result,
	}
}

// NewToolError 创建失败结果
func NewToolError(name string, err error) ToolResult {
	return ToolResult{
		Name:    name,
		Success: false,
		Error:   err.Error(),
	}
}

// Observation 返回交给模型的观察文本
func (r ToolResult) Observation() string {
	if r.Success {
		return r.Result
	}
	return "Error: " + r.Error
}
