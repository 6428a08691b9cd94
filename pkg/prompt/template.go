package prompt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingVariable 缺少模板变量
	ErrMissingVariable = errors.New("missing template variable")
	// ErrInvalidTemplate 模板语法错误
	ErrInvalidTemplate = errors.New("invalid template")
)

// segment 模板片段，name 非空表示变量
type segment struct {
	text string
	name string
}

// Template 命名变量模板
//
// 语法: {name} 为变量，{{ 和 }} 输出字面量花括号。
type Template struct {
	text      string
	segments  []segment
	variables []string
}

// NewTemplate 解析模板，变量按首次出现的顺序记录
func NewTemplate(text string) (*Template, error) {
	t := &Template{text: text}
	seen := make(map[string]bool)

	var lit strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed '{' at offset %d", ErrInvalidTemplate, i)
			}
			name := strings.TrimSpace(text[i+1 : i+1+end])
			if name == "" || strings.ContainsAny(name, "{") {
				return nil, fmt.Errorf("%w: bad variable at offset %d", ErrInvalidTemplate, i)
			}
			if lit.Len() > 0 {
				t.segments = append(t.segments, segment{text: lit.String()})
				lit.Reset()
			}
			t.segments = append(t.segments, segment{name: name})
			if !seen[name] {
				seen[name] = true
				t.variables = append(t.variables, name)
			}
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("%w: single '}' at offset %d", ErrInvalidTemplate, i)
		default:
			lit.WriteByte(c)
		}
	}
	if lit.Len() > 0 {
		t.segments = append(t.segments, segment{text: lit.String()})
	}
	return t, nil
}

// MustTemplate 解析模板，失败时 panic
func MustTemplate(text string) *Template {
	t, err := NewTemplate(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Text 返回模板原文
func (t *Template) Text() string {
	return t.text
}

// Variables 返回模板声明的变量
func (t *Template) Variables() []string {
	out := make([]string, len(t.variables))
	copy(out, t.variables)
	return out
}

// Format 用变量值渲染模板
//
// 多余的变量会被忽略，缺少任一声明变量时返回 ErrMissingVariable。
func (t *Template) Format(vars map[string]string) (string, error) {
	for _, name := range t.variables {
		if _, ok := vars[name]; !ok {
			return "", fmt.Errorf("%w: %s", ErrMissingVariable, name)
		}
	}

	var b strings.Builder
	for _, seg := range t.segments {
		if seg.name != "" {
			b.WriteString(vars[seg.name])
		} else {
			b.WriteString(seg.text)
		}
	}
	return b.String(), nil
}
