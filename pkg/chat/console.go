package chat

import (
	"bufio"
	"io"
	"strings"
)

// Console 行式输入输出
//
// 选择菜单与对话循环必须共享同一个 Console，否则缓冲的输入会丢失。
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole 创建控制台
func NewConsole(in io.Reader, out io.Writer) *Console {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &Console{in: br, out: out}
}

// ReadLine 读取一行，去掉行尾换行
//
// 输入结束且没有剩余内容时返回 io.EOF。
func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return trimEOL(line), nil
		}
		return "", err
	}
	return trimEOL(line), nil
}

// Print 原样输出
func (c *Console) Print(s string) error {
	_, err := io.WriteString(c.out, s)
	return err
}

// Println 输出并换行
func (c *Console) Println(s string) error {
	return c.Print(s + "\n")
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
