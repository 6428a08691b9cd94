// Package chains 提供基于提示词模板的 LLM 链与顺序组合
package chains

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/easyops/hellochains-go/pkg/core/llm"
	"github.com/easyops/hellochains-go/pkg/core/message"
	"github.com/easyops/hellochains-go/pkg/prompt"
)

var (
	// ErrNotSingleInput 顺序链中的模板必须恰好声明一个变量
	ErrNotSingleInput = errors.New("chain template must declare exactly one variable")
	// ErrNoChains 顺序链为空
	ErrNoChains = errors.New("sequential chain requires at least one chain")
)

// Chain 链接口
type Chain interface {
	// Run 使用变量执行链并返回文本输出
	Run(ctx context.Context, vars map[string]string) (string, error)
	// InputKeys 返回链需要的变量
	InputKeys() []string
}

// LLMChain 格式化模板后作为单条 user 消息发送给模型
type LLMChain struct {
	Template    *prompt.Template
	Provider    llm.Provider
	Temperature *float64
}

// NewLLMChain 创建 LLM 链
func NewLLMChain(tmpl *prompt.Template, provider llm.Provider) *LLMChain {
	return &LLMChain{Template: tmpl, Provider: provider}
}

// WithTemperature 覆盖客户端默认温度
func (c *LLMChain) WithTemperature(t float64) *LLMChain {
	c.Temperature = &t
	return c
}

// InputKeys 返回模板变量
func (c *LLMChain) InputKeys() []string {
	return c.Template.Variables()
}

// Run 格式化模板并调用模型
func (c *LLMChain) Run(ctx context.Context, vars map[string]string) (string, error) {
	text, err := c.Template.Format(vars)
	if err != nil {
		return "", err
	}

	var opts []llm.RequestOption
	if c.Temperature != nil {
		opts = append(opts, llm.WithTemperature(*c.Temperature))
	}

	resp, err := c.Provider.Generate(ctx, llm.NewRequest([]message.Message{message.NewUserMessage(text)}, opts...))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// SimpleSequential 单输入顺序链
//
// 每个链的输出作为下一个链唯一的输入变量。
type SimpleSequential struct {
	chains []Chain
	logger *slog.Logger
}

// SequentialOption 顺序链配置
type SequentialOption func(*SimpleSequential)

// WithLogger 记录每一步的输出
func WithLogger(logger *slog.Logger) SequentialOption {
	return func(s *SimpleSequential) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSimpleSequential 创建单输入顺序链
func NewSimpleSequential(chains []Chain, opts ...SequentialOption) (*SimpleSequential, error) {
	if len(chains) == 0 {
		return nil, ErrNoChains
	}
	for i, c := range chains {
		if keys := c.InputKeys(); len(keys) != 1 {
			return nil, fmt.Errorf("chain %d declares %v: %w", i, keys, ErrNotSingleInput)
		}
	}

	s := &SimpleSequential{
		chains: chains,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run 依次执行每个链
//
// 返回最终输出和每一步的输出，任一步失败即中止。
func (s *SimpleSequential) Run(ctx context.Context, input string) (string, []string, error) {
	steps := make([]string, 0, len(s.chains))
	current := input

	for i, c := range s.chains {
		if err := ctx.Err(); err != nil {
			return "", steps, err
		}

		key := c.InputKeys()[0]
		out, err := c.Run(ctx, map[string]string{key: current})
		if err != nil {
			return "", steps, fmt.Errorf("chain step %d: %w", i, err)
		}
		s.logger.Info("chain step finished", "step", i, "input_key", key, "output", out)

		steps = append(steps, out)
		current = out
	}

	return current, steps, nil
}

var _ Chain = (*LLMChain)(nil)
