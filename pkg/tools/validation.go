package tools

import (
	"fmt"
	"slices"
)

// Validate 校验参数是否满足 Schema
//
// 检查必需参数、基本类型和字符串枚举，未声明的参数被忽略。
func Validate(schema ParameterSchema, args map[string]interface{}) error {
	for _, req := range schema.Required {
		if _, ok := args[req]; !ok {
			return fmt.Errorf("missing required parameter: %s", req)
		}
	}

	for name, value := range args {
		prop, ok := schema.Properties[name]
		if !ok || value == nil {
			continue
		}
		if err := validateType(name, prop, value); err != nil {
			return err
		}
	}
	return nil
}

// StringArg 读取字符串参数
func StringArg(args map[string]interface{}, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing required parameter: %s", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s must be a string, got %T", name, raw)
	}
	return s, nil
}

// validateType JSON 解码后数字均为 float64
func validateType(name string, prop PropertySchema, value interface{}) error {
	switch prop.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("parameter %s: expected string, got %T", name, value)
		}
		if len(prop.Enum) > 0 && !slices.Contains(prop.Enum, s) {
			return fmt.Errorf("parameter %s: value %q not in %v", name, s, prop.Enum)
		}
	case "number":
		switch value.(type) {
		case float64, float32, int, int64:
		default:
			return fmt.Errorf("parameter %s: expected number, got %T", name, value)
		}
	case "integer":
		switch v := value.(type) {
		case int, int64:
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("parameter %s: expected integer, got %v", name, v)
			}
		default:
			return fmt.Errorf("parameter %s: expected integer, got %T", name, value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("parameter %s: expected boolean, got %T", name, value)
		}
	case "array":
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("parameter %s: expected array, got %T", name, value)
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("parameter %s: expected object, got %T", name, value)
		}
	}
	return nil
}
