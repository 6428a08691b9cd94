// Package tools 定义 Agent 可调用的工具以及注册和执行机制
package tools

import (
	"context"
)

// Tool 工具接口
//
// Name 作为函数调用的名称，Description 说明何时使用该工具。
type Tool interface {
	// Name 工具唯一名称
	Name() string
	// Description 工具描述
	Description() string
	// Parameters 参数 JSON Schema
	Parameters() ParameterSchema
	// Execute 执行工具，返回的文本作为观察结果交给模型
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

// ToolWithValidation 执行前校验参数的工具
type ToolWithValidation interface {
	Tool
	// Validate 校验参数
	Validate(args map[string]interface{}) error
}
