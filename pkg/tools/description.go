package tools

import (
	"fmt"
	"strings"
)

// DescribeTools 生成 "name: description" 形式的工具清单
func DescribeTools(tools []Tool) string {
	var sb strings.Builder
	for i, tool := range tools {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s: %s", tool.Name(), tool.Description())
	}
	return sb.String()
}

// ToolNames 返回逗号分隔的工具名称
func ToolNames(tools []Tool) string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name()
	}
	return strings.Join(names, ", ")
}
