package llm

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/easyops/hellochains-go/pkg/core/errors"
	"github.com/easyops/hellochains-go/pkg/core/message"
)

// defaultAnthropicMaxTokens Messages API 要求显式的 max_tokens
const defaultAnthropicMaxTokens = 1024

// AnthropicClient Anthropic Messages API 客户端
type AnthropicClient struct {
	client anthropic.Client
	cfg    ClientConfig
	logger *slog.Logger
}

// NewAnthropic 创建 Anthropic 客户端
//
// 与 NewCompatClient 一样不在构造时校验 API 密钥。
func NewAnthropic(cfg ClientConfig, opts ...Option) (*AnthropicClient, error) {
	options := applyOptions(opts)

	if cfg.Provider == "" {
		cfg.Provider = ProviderAnthropic
	}
	cfg, err := cfg.Resolve(options.Getenv)
	if err != nil {
		return nil, err
	}
	if cfg.Provider != ProviderAnthropic {
		return nil, fmt.Errorf("%w: provider %s is not anthropic", errors.ErrInvalidConfig, cfg.Provider)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(cfg.httpClient(options.HTTPClient)),
		// 重试由 retry 统一处理
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicClient{
		client: anthropic.NewClient(clientOpts...),
		cfg:    cfg,
		logger: options.Logger,
	}, nil
}

// Name 返回提供商名称
func (c *AnthropicClient) Name() string {
	return c.cfg.Provider
}

// Model 返回当前模型名称
func (c *AnthropicClient) Model() string {
	return c.cfg.Model
}

// Close 关闭客户端连接
func (c *AnthropicClient) Close() error {
	return nil
}

// Generate 生成响应
func (c *AnthropicClient) Generate(ctx context.Context, req Request) (Response, error) {
	params := c.buildParams(req)

	var msg *anthropic.Message
	err := retry(ctx, c.cfg.MaxRetries, c.cfg.RetryDelay, c.onRetry, func() error {
		var callErr error
		msg, callErr = c.client.Messages.New(ctx, params)
		return mapAnthropicError(callErr)
	})
	if err != nil {
		return Response{}, err
	}

	return c.parseResponse(msg), nil
}

// Embed Anthropic 不提供嵌入接口
func (c *AnthropicClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, fmt.Errorf("anthropic embeddings: %w", errors.ErrNotImplemented)
}

func (c *AnthropicClient) onRetry(attempt int, err error) {
	c.logger.Warn("retrying llm request",
		"provider", c.cfg.Provider,
		"model", c.cfg.Model,
		"attempt", attempt,
		"error", err,
	)
}

// buildParams 构建 Messages API 请求
//
// system 消息合并到 System 字段，连续的 tool 消息合并为一条 user 消息。
func (c *AnthropicClient) buildParams(req Request) anthropic.MessageNewParams {
	var system []string
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	var pendingResults []anthropic.ContentBlockParamUnion

	flushResults := func() {
		if len(pendingResults) > 0 {
			messages = append(messages, anthropic.NewUserMessage(pendingResults...))
			pendingResults = nil
		}
	}

	for _, m := range req.Messages {
		if m.Role == message.RoleTool {
			pendingResults = append(pendingResults, anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false))
			continue
		}
		flushResults()

		switch m.Role {
		case message.RoleSystem:
			system = append(system, m.Content)
		case message.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case message.RoleAssistant:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.ToolCalls)+1)
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, tc.Arguments, tc.Name))
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(blocks...))
			}
		}
	}
	flushResults()

	maxTokens := c.cfg.MaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	temperature := c.cfg.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.cfg.Model),
		Messages:    messages,
		MaxTokens:   int64(maxTokens),
		Temperature: param.NewOpt(temperature),
	}
	if len(system) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: strings.Join(system, "\n\n")}}
	}
	if len(req.Stop) > 0 {
		params.StopSequences = req.Stop
	}

	if len(req.Tools) > 0 {
		tools := make([]anthropic.ToolUnionParam, 0, len(req.Tools))
		for _, t := range req.Tools {
			tools = append(tools, anthropic.ToolUnionParam{
				OfTool: &anthropic.ToolParam{
					Name:        t.Name,
					Description: param.NewOpt(t.Description),
					InputSchema: anthropic.ToolInputSchemaParam{
						Properties: t.Parameters["properties"],
						Required:   requiredFields(t.Parameters["required"]),
					},
				},
			})
		}
		params.Tools = tools
	}

	return params
}

// requiredFields 兼容 []string 与 JSON 解码得到的 []interface{}
func requiredFields(v interface{}) []string {
	switch fields := v.(type) {
	case []string:
		return fields
	case []interface{}:
		out := make([]string, 0, len(fields))
		for _, f := range fields {
			if s, ok := f.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// parseResponse 解析 Messages API 响应
func (c *AnthropicClient) parseResponse(msg *anthropic.Message) Response {
	resp := Response{
		ID:           msg.ID,
		FinishReason: mapStopReason(msg.StopReason),
		TokenUsage: message.TokenUsage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}

	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			resp.Content += block.Text
		case "tool_use":
			call := message.ToolCall{
				ID:           block.ID,
				Name:         block.Name,
				RawArguments: string(block.Input),
				Arguments:    map[string]interface{}{},
			}
			if err := json.Unmarshal(block.Input, &call.Arguments); err != nil {
				c.logger.Warn("failed to parse tool input", "tool", block.Name, "id", block.ID, "error", err)
				call.ParseError = err.Error()
			}
			resp.ToolCalls = append(resp.ToolCalls, call)
		}
	}

	return resp
}

// mapStopReason 映射为 OpenAI 风格的结束原因
func mapStopReason(reason anthropic.StopReason) string {
	switch reason {
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence:
		return "stop"
	case anthropic.StopReasonMaxTokens:
		return "length"
	case anthropic.StopReasonToolUse:
		return "tool_calls"
	default:
		return string(reason)
	}
}

// mapAnthropicError 映射 Anthropic 错误到框架错误
func mapAnthropicError(err error) error {
	if err == nil {
		return nil
	}
	if mapped := mapContextError(err); mapped != nil {
		return mapped
	}

	var apiErr *anthropic.Error
	if stderrors.As(err, &apiErr) {
		if sentinel := errors.FromStatus(apiErr.StatusCode); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
		return fmt.Errorf("anthropic error (code=%d): %w", apiErr.StatusCode, err)
	}

	return errors.WrapError(err, "anthropic request failed")
}

var _ Provider = (*AnthropicClient)(nil)
