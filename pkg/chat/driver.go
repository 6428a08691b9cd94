package chat

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// ExitCommand 结束对话的输入，不区分大小写
const ExitCommand = "exit"

// State 对话驱动状态
type State int

const (
	// StateAwaitingInput 等待用户输入
	StateAwaitingInput State = iota
	// StateTerminated 对话结束
	StateTerminated
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// IsExit 判断输入是否为退出指令
func IsExit(input string) bool {
	return strings.EqualFold(input, ExitCommand)
}

// Driver 交互式对话循环
type Driver struct {
	chat    Chatter
	console *Console
	state   State
}

// NewDriver 创建对话驱动
func NewDriver(chat Chatter, console *Console) *Driver {
	return &Driver{
		chat:    chat,
		console: console,
		state:   StateAwaitingInput,
	}
}

// State 返回当前状态
func (d *Driver) State() State {
	return d.state
}

// Banner 输出开场信息
func (d *Driver) Banner() error {
	name := d.chat.Persona().Name
	return d.console.Print(fmt.Sprintf("\n%s AI Character Chat\nType '%s' to end the conversation\n%s\n",
		name, ExitCommand, strings.Repeat("-", 50)))
}

// Run 运行对话直到输入 exit、输入结束或调用失败
//
// 返回完成的对话轮数。调用失败时循环终止并返回错误。
func (d *Driver) Run(ctx context.Context) (int, error) {
	if err := d.Banner(); err != nil {
		return 0, err
	}

	name := d.chat.Persona().Name
	exchanges := 0
	for d.state == StateAwaitingInput {
		if err := ctx.Err(); err != nil {
			d.state = StateTerminated
			return exchanges, err
		}

		if err := d.console.Print("\nYou: "); err != nil {
			d.state = StateTerminated
			return exchanges, err
		}

		input, err := d.console.ReadLine()
		if err == io.EOF {
			d.state = StateTerminated
			return exchanges, nil
		}
		if err != nil {
			d.state = StateTerminated
			return exchanges, fmt.Errorf("read input: %w", err)
		}

		if IsExit(input) {
			d.state = StateTerminated
			return exchanges, nil
		}

		reply, err := d.chat.Chat(ctx, input)
		if err != nil {
			d.state = StateTerminated
			return exchanges, err
		}
		exchanges++

		if err := d.console.Println(fmt.Sprintf("\n%s: %s", name, reply)); err != nil {
			d.state = StateTerminated
			return exchanges, err
		}
	}
	return exchanges, nil
}
