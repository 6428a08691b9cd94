package agents

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/easyops/hellochains-go/pkg/core/config"
	"github.com/easyops/hellochains-go/pkg/core/errors"
	"github.com/easyops/hellochains-go/pkg/core/llm"
	"github.com/easyops/hellochains-go/pkg/core/message"
	"github.com/easyops/hellochains-go/pkg/tools"
)

// StoppedResponse 达到迭代上限时的回答
const StoppedResponse = "Agent stopped due to iteration limit or time limit."

// reactPrefix 零样本 ReAct 提示词，工具清单在运行时填入
const reactPrefix = `Answer the following questions as best you can. You have access to the following tools:

%s

Think step by step about what to do. When you need information or a calculation, call one of the tools (%s) and read its result before continuing. If a tool returns an error, adjust the input and try again. When you know the final answer, reply with it directly without calling a tool.`

// ReActAgent 基于函数调用的 Thought/Action/Observation 循环
//
// 每次查询相互独立，不保留对话历史。工具失败、未知工具和无法解析的参数
// 都作为观察结果返回给模型，只有模型调用失败才会中止查询。
//
//	registry, _ := tools.NewRegistry(builtin.NewCalculator(), builtin.NewWikipedia())
//	agent, err := agents.NewReAct(provider, registry)
//	out, err := agent.Run(ctx, agents.Input{Query: "What is the square root of 256?"})
type ReActAgent struct {
	provider llm.Provider
	config   config.AgentConfig
	registry *tools.Registry
	executor *tools.Executor
	verbose  bool
	logger   *slog.Logger
}

// NewReAct 创建 ReActAgent
func NewReAct(provider llm.Provider, registry *tools.Registry, opts ...Option) (*ReActAgent, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider is nil", errors.ErrInvalidConfig)
	}

	options := DefaultAgentOptions()
	for _, opt := range opts {
		opt(options)
	}

	if registry == nil {
		var err error
		if registry, err = tools.NewRegistry(); err != nil {
			return nil, err
		}
	}

	cfg := config.AgentConfig{
		Name:          options.Name,
		SystemPrompt:  options.SystemPrompt,
		MaxIterations: options.MaxIterations,
		Temperature:   options.Temperature,
		MaxTokens:     options.MaxTokens,
		Timeout:       options.Timeout,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agent config: %w", err)
	}

	logger := options.Logger.With("agent", cfg.Name)
	return &ReActAgent{
		provider: provider,
		config:   cfg,
		registry: registry,
		executor: tools.NewExecutor(registry,
			tools.WithExecutorTimeout(options.ToolTimeout),
			tools.WithExecutorLogger(logger),
		),
		verbose: options.Verbose,
		logger:  logger,
	}, nil
}

// Name 返回 Agent 名称
func (a *ReActAgent) Name() string {
	return a.config.Name
}

// Config 返回 Agent 配置
func (a *ReActAgent) Config() config.AgentConfig {
	return a.config
}

// Tools 返回已注册的工具
func (a *ReActAgent) Tools() []tools.Tool {
	return a.registry.All()
}

// SystemPrompt 返回实际使用的系统提示词
func (a *ReActAgent) SystemPrompt() string {
	if a.config.SystemPrompt != "" {
		return a.config.SystemPrompt
	}
	all := a.registry.All()
	return fmt.Sprintf(reactPrefix, tools.DescribeTools(all), tools.ToolNames(all))
}

// Run 执行 ReAct 推理循环
//
// 达到 MaxIterations 时返回 StoppedResponse 且 Stopped 为 true，不视为错误。
func (a *ReActAgent) Run(ctx context.Context, input Input) (Output, error) {
	start := time.Now()
	if strings.TrimSpace(input.Query) == "" {
		return Output{Error: errors.ErrEmptyQuery.Error()}, errors.ErrEmptyQuery
	}

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	out := Output{}
	fail := func(err error) (Output, error) {
		out.Duration = time.Since(start)
		out.Error = err.Error()
		return out, err
	}

	messages := []message.Message{
		message.NewSystemMessage(a.SystemPrompt()),
		message.NewUserMessage(input.Query),
	}
	toolDefs := a.registry.Definitions()

	for out.Iterations < a.config.MaxIterations {
		if err := ctx.Err(); err != nil {
			if stderrors.Is(err, context.DeadlineExceeded) {
				return fail(fmt.Errorf("%w: %w", errors.ErrTimeout, err))
			}
			return fail(fmt.Errorf("%w: %w", errors.ErrContextCanceled, err))
		}

		reqOpts := []llm.RequestOption{
			llm.WithTemperature(a.config.Temperature),
			llm.WithMaxTokens(a.config.MaxTokens),
		}
		if len(toolDefs) > 0 {
			reqOpts = append(reqOpts, llm.WithTools(toolDefs), llm.WithToolChoice("auto"))
		}

		resp, err := a.provider.Generate(ctx, llm.NewRequest(messages, reqOpts...))
		if err != nil {
			return fail(err)
		}
		out.Iterations++
		out.TokenUsage.Add(resp.TokenUsage)

		if !resp.HasToolCalls() {
			out.Response = strings.TrimSpace(resp.Content)
			out.Duration = time.Since(start)
			a.trace("final answer", "answer", out.Response, "iterations", out.Iterations)
			return out, nil
		}

		if resp.Content != "" {
			out.Steps = append(out.Steps, NewThoughtStep(resp.Content))
			a.trace("thought", "content", resp.Content)
		}
		messages = append(messages, message.Message{
			Role:      message.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
			Timestamp: time.Now(),
		})

		for _, tc := range resp.ToolCalls {
			out.Steps = append(out.Steps, NewActionStep(tc.Name, tc.Arguments))
			a.trace("action", "tool", tc.Name, "input", tc.RawArguments)

			observation := a.observe(ctx, tc)
			out.Steps = append(out.Steps, NewObservationStep(tc.Name, observation))
			a.trace("observation", "tool", tc.Name, "result", observation)

			messages = append(messages, message.NewToolMessage(tc.ID, tc.Name, observation))
		}
	}

	a.logger.Warn("iteration limit reached", "max_iterations", a.config.MaxIterations)
	out.Response = StoppedResponse
	out.Stopped = true
	out.Duration = time.Since(start)
	return out, nil
}

// observe 执行一次工具调用并返回观察文本
func (a *ReActAgent) observe(ctx context.Context, tc message.ToolCall) string {
	if tc.ParseError != "" {
		return fmt.Sprintf("Error: %s: could not parse arguments %q: %s",
			errors.ErrInvalidToolArgs, tc.RawArguments, tc.ParseError)
	}
	if !a.registry.Has(tc.Name) {
		return fmt.Sprintf("Error: %s is not a valid tool, try one of [%s].",
			tc.Name, tools.ToolNames(a.registry.All()))
	}
	return a.executor.Execute(ctx, tc.Name, tc.Arguments).Observation()
}

func (a *ReActAgent) trace(msg string, args ...any) {
	if a.verbose {
		a.logger.Info(msg, args...)
		return
	}
	a.logger.Debug(msg, args...)
}

var _ Agent = (*ReActAgent)(nil)
