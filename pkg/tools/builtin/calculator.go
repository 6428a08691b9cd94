// Package builtin 提供内置工具
package builtin

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/easyops/hellochains-go/pkg/tools"
)

// CalculatorName 计算器工具名称
const CalculatorName = "calculator"

// Calculator 数学表达式计算器
//
// 除四则运算、取模和 ** 乘方外，还提供 sqrt、pow、abs、floor、ceil、
// round、log、exp 函数和 pi、e 常量。
type Calculator struct {
	env     map[string]interface{}
	options []expr.Option
}

// NewCalculator 创建计算器工具
func NewCalculator() *Calculator {
	env := map[string]interface{}{
		"pi": math.Pi,
		"e":  math.E,
	}
	opts := []expr.Option{expr.Env(env)}
	for name, fn := range map[string]func(float64) float64{
		"sqrt":  math.Sqrt,
		"abs":   math.Abs,
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"round": math.Round,
		"log":   math.Log,
		"exp":   math.Exp,
	} {
		opts = append(opts, expr.DisableBuiltin(name), unary(name, fn))
	}
	opts = append(opts, expr.Function("pow", func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("pow expects 2 arguments, got %d", len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		y, err := toFloat(params[1])
		if err != nil {
			return nil, err
		}
		return math.Pow(x, y), nil
	}))
	return &Calculator{env: env, options: opts}
}

// Name 返回工具名称
func (c *Calculator) Name() string {
	return CalculatorName
}

// Description 返回工具描述
func (c *Calculator) Description() string {
	return "Useful for when you need to answer questions about math. " +
		"Input is a single mathematical expression such as '2 + 3 * 4', 'sqrt(256)' or 'pow(2, 10)'."
}

// Parameters 返回参数 Schema
func (c *Calculator) Parameters() tools.ParameterSchema {
	return tools.ParameterSchema{
		Type: "object",
		Properties: map[string]tools.PropertySchema{
			"expression": {
				Type:        "string",
				Description: "The mathematical expression to evaluate",
			},
		},
		Required: []string{"expression"},
	}
}

// Validate 校验参数
func (c *Calculator) Validate(args map[string]interface{}) error {
	_, err := tools.StringArg(args, "expression")
	return err
}

// Execute 计算表达式
func (c *Calculator) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	source, err := tools.StringArg(args, "expression")
	if err != nil {
		return "", err
	}
	result, err := c.Eval(source)
	if err != nil {
		return "", err
	}
	return "Answer: " + result, nil
}

// Eval 计算表达式并格式化结果
func (c *Calculator) Eval(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("empty expression")
	}

	program, err := expr.Compile(source, c.options...)
	if err != nil {
		return "", fmt.Errorf("invalid expression %q: %w", source, err)
	}
	out, err := expr.Run(program, c.env)
	if err != nil {
		return "", fmt.Errorf("evaluate %q: %w", source, err)
	}
	return formatNumber(out)
}

func unary(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	})
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

// formatNumber 整数值不带小数部分
func formatNumber(v any) (string, error) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return "", fmt.Errorf("result is not a finite number: %v", n)
		}
		if n == math.Trunc(n) && math.Abs(n) < 1e15 {
			return strconv.FormatInt(int64(n), 10), nil
		}
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expression did not produce a number: %T", v)
	}
}

var _ tools.ToolWithValidation = (*Calculator)(nil)
