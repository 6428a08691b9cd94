package chat

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/easyops/hellochains-go/pkg/prompt"
)

// ErrNoSelection 输入结束前没有做出有效选择
var ErrNoSelection = errors.New("no character selected")

// SelectPersona 显示角色菜单并读取选择
//
// 无效输入会重新提示，直到选择有效或输入结束。
func SelectPersona(console *Console, personas []prompt.Persona) (prompt.Persona, error) {
	if len(personas) == 0 {
		return prompt.Persona{}, prompt.ErrNoPersonas
	}

	var b strings.Builder
	b.WriteString("Select a character to chat with:\n")
	for i, p := range personas {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.MenuTitle())
	}
	if err := console.Print(b.String()); err != nil {
		return prompt.Persona{}, err
	}

	choices := choiceList(len(personas))
	for {
		if err := console.Print("Enter " + choices + ": "); err != nil {
			return prompt.Persona{}, err
		}
		line, err := console.ReadLine()
		if err == io.EOF {
			return prompt.Persona{}, ErrNoSelection
		}
		if err != nil {
			return prompt.Persona{}, fmt.Errorf("read choice: %w", err)
		}

		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= len(personas) {
			return personas[n-1], nil
		}
		if err := console.Println("Invalid choice. Please enter " + choices + "."); err != nil {
			return prompt.Persona{}, err
		}
	}
}

// choiceList 生成 "1 or 2"、"1, 2 or 3" 形式的提示
func choiceList(n int) string {
	if n == 1 {
		return "1"
	}
	nums := make([]string, n-1)
	for i := range nums {
		nums[i] = strconv.Itoa(i + 1)
	}
	return strings.Join(nums, ", ") + " or " + strconv.Itoa(n)
}
