package tools

import (
	"context"
	"fmt"
)

// FuncTool 由函数构造的工具
//
//	echo := tools.NewFuncTool("echo", "Echo the input back",
//	    tools.ParameterSchema{
//	        Type:       "object",
//	        Properties: map[string]tools.PropertySchema{"text": {Type: "string"}},
//	        Required:   []string{"text"},
//	    },
//	    func(ctx context.Context, args map[string]interface{}) (string, error) {
//	        return args["text"].(string), nil
//	    },
//	)
type FuncTool struct {
	name        string
	description string
	params      ParameterSchema
	fn          ToolFunc
}

// ToolFunc 工具执行函数
type ToolFunc func(ctx context.Context, args map[string]interface{}) (string, error)

// NewFuncTool 创建函数工具
func NewFuncTool(name, description string, params ParameterSchema, fn ToolFunc) *FuncTool {
	return &FuncTool{
		name:        name,
		description: description,
		params:      params,
		fn:          fn,
	}
}

// Name 返回工具名称
func (t *FuncTool) Name() string {
	return t.name
}

// Description 返回工具描述
func (t *FuncTool) Description() string {
	return t.description
}

// Parameters 返回参数 Schema
func (t *FuncTool) Parameters() ParameterSchema {
	return t.params
}

// Execute 执行工具
func (t *FuncTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	if t.fn == nil {
		return "", fmt.Errorf("tool %s has no function", t.name)
	}
	return t.fn(ctx, args)
}

// Validate 按 Schema 校验参数
func (t *FuncTool) Validate(args map[string]interface{}) error {
	return Validate(t.params, args)
}

var _ ToolWithValidation = (*FuncTool)(nil)
