// Package chat 实现带有界记忆的角色扮演对话
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/easyops/hellochains-go/pkg/core/llm"
	"github.com/easyops/hellochains-go/pkg/core/message"
	"github.com/easyops/hellochains-go/pkg/memory"
	"github.com/easyops/hellochains-go/pkg/prompt"
)

// Chatter 对话驱动所需的最小接口
type Chatter interface {
	// Chat 发送一条用户输入并返回角色回复
	Chat(ctx context.Context, input string) (string, error)
	// Persona 返回当前角色
	Persona() prompt.Persona
}

// CharacterChat 角色对话
//
// 每次调用发送 [system(角色设定)] + 最近 K 轮历史 + [user(输入)]。
// 调用成功后才记录本轮对话，失败时记忆保持不变。
type CharacterChat struct {
	persona     prompt.Persona
	instruction string
	provider    llm.Provider
	window      *memory.BufferWindow
	opts        *Options
	logger      *slog.Logger
}

// NewCharacterChat 创建角色对话
func NewCharacterChat(persona prompt.Persona, provider llm.Provider, opts ...Option) *CharacterChat {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &CharacterChat{
		persona:     persona,
		instruction: persona.SystemInstruction(),
		provider:    provider,
		window:      memory.NewBufferWindow(options.MemoryK),
		opts:        options,
		logger:      options.Logger.With("persona", persona.Name),
	}
}

// Persona 返回当前角色
func (c *CharacterChat) Persona() prompt.Persona {
	return c.persona
}

// History 返回当前保留的对话记录
func (c *CharacterChat) History() []message.Message {
	return c.window.History()
}

// Resume 从持久化存储恢复会话记录
//
// 未配置存储时直接返回。恢复的记录同样受 K 轮上限约束。
func (c *CharacterChat) Resume(ctx context.Context) (int, error) {
	if c.opts.Store == nil {
		return 0, nil
	}
	turns, err := c.opts.Store.Load(ctx, c.opts.SessionID)
	if err != nil {
		return 0, fmt.Errorf("load session %s: %w", c.opts.SessionID, err)
	}
	if err := c.window.Restore(turns); err != nil {
		return 0, fmt.Errorf("restore session %s: %w", c.opts.SessionID, err)
	}
	c.logger.Info("session resumed", "session", c.opts.SessionID, "exchanges", c.window.Exchanges())
	return c.window.Exchanges(), nil
}

// Messages 组合发送给模型的消息
func (c *CharacterChat) Messages(input string) []message.Message {
	history := c.window.History()
	msgs := make([]message.Message, 0, len(history)+2)
	msgs = append(msgs, message.NewSystemMessage(c.instruction))
	msgs = append(msgs, history...)
	msgs = append(msgs, message.NewUserMessage(input))
	return msgs
}

// Chat 发送一条用户输入并返回角色回复
func (c *CharacterChat) Chat(ctx context.Context, input string) (string, error) {
	msgs := c.Messages(input)
	if c.opts.Verbose {
		c.logger.Info("prompt after formatting",
			"prompt", renderPrompt(msgs),
			"messages", len(msgs),
			"tokens", c.opts.TokenCounter.CountMessages(msgs),
		)
	}

	resp, err := c.provider.Generate(ctx, llm.NewRequest(msgs, llm.WithTemperature(c.opts.Temperature)))
	if err != nil {
		return "", fmt.Errorf("chat with %s: %w", c.persona.Name, err)
	}

	c.window.RecordExchange(input, resp.Content)
	c.logger.Debug("exchange recorded",
		"exchanges", c.window.Exchanges(),
		"prompt_tokens", resp.TokenUsage.PromptTokens,
		"completion_tokens", resp.TokenUsage.CompletionTokens,
	)

	if c.opts.Store != nil {
		if err := c.opts.Store.Save(ctx, c.opts.SessionID, c.window.History()); err != nil {
			c.logger.Warn("failed to persist session", "session", c.opts.SessionID, "error", err)
		}
	}

	return resp.Content, nil
}

// renderPrompt 以 "Role: content" 的形式展开消息
func renderPrompt(msgs []message.Message) string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.Role.Label())
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

var _ Chatter = (*CharacterChat)(nil)
