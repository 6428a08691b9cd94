// Package prompt 提供提示词构建能力：角色设定、命名变量模板和 Token 估算
package prompt

import "strings"

// Persona 角色设定
//
// 由服务说明、角色信息和用户信息三部分组成，构成一次对话固定的系统上下文。
// 按值传递，创建后不应修改。
type Persona struct {
	// Name 角色名称，用作对话中的回复前缀
	Name string `yaml:"name"`
	// Title 菜单中显示的名称，为空时使用 Name
	Title string `yaml:"title,omitempty"`
	// Service 顶层服务说明
	Service string `yaml:"service"`
	// Character 角色信息
	Character string `yaml:"character"`
	// User 用户信息
	User string `yaml:"user"`
}

// MenuTitle 返回菜单中显示的名称
func (p Persona) MenuTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// SystemInstruction 组合三部分内容为系统提示词
//
// 纯函数：相同输入总是得到逐字节相同的输出，空字段也会保留对应的段落标题。
func (p Persona) SystemInstruction() string {
	var b strings.Builder
	b.Grow(len(p.Service) + len(p.Character) + len(p.User) + 48)
	b.WriteString("\n")
	b.WriteString(p.Service)
	b.WriteString("\n\nCHARACTER INFORMATION:\n")
	b.WriteString(p.Character)
	b.WriteString("\n\nUSER INFORMATION:\n")
	b.WriteString(p.User)
	b.WriteString("\n")
	return b.String()
}
