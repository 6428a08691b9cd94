package llm

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/easyops/hellochains-go/pkg/core/errors"
	"github.com/easyops/hellochains-go/pkg/core/message"
	openai "github.com/sashabaranov/go-openai"
)

// CompatClient OpenAI 兼容协议客户端
//
// 持有一个已配置的 go-openai 客户端，只暴露 Provider 接口。
// OpenRouter 与 OpenAI 都走这条路径，区别只在默认值表。
type CompatClient struct {
	client *openai.Client
	cfg    ClientConfig
	logger *slog.Logger
}

// NewCompatClient 创建 OpenAI 兼容客户端
//
// 不在构造时校验 API 密钥，缺失或无效的密钥在调用时返回 errors.ErrInvalidAPIKey。
func NewCompatClient(cfg ClientConfig, opts ...Option) (*CompatClient, error) {
	options := applyOptions(opts)

	cfg, err := cfg.Resolve(options.Getenv)
	if err != nil {
		return nil, err
	}
	if cfg.Provider == ProviderAnthropic {
		return nil, fmt.Errorf("%w: %s is not OpenAI compatible", errors.ErrInvalidConfig, cfg.Provider)
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = cfg.httpClient(options.HTTPClient)

	return &CompatClient{
		client: openai.NewClientWithConfig(oc),
		cfg:    cfg,
		logger: options.Logger,
	}, nil
}

// Name 返回提供商名称
func (c *CompatClient) Name() string {
	return c.cfg.Provider
}

// Model 返回当前模型名称
func (c *CompatClient) Model() string {
	return c.cfg.Model
}

// Config 返回补全后的配置
func (c *CompatClient) Config() ClientConfig {
	return c.cfg
}

// Close 关闭客户端连接
func (c *CompatClient) Close() error {
	return nil
}

// Generate 生成响应
func (c *CompatClient) Generate(ctx context.Context, req Request) (Response, error) {
	chatReq := c.buildChatRequest(req)

	var resp openai.ChatCompletionResponse
	err := retry(ctx, c.cfg.MaxRetries, c.cfg.RetryDelay, c.onRetry, func() error {
		var callErr error
		resp, callErr = c.client.CreateChatCompletion(ctx, chatReq)
		return mapOpenAIError(callErr)
	})
	if err != nil {
		return Response{}, err
	}

	return parseOpenAIResponse(resp)
}

// Embed 生成文本嵌入向量
func (c *CompatClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if c.cfg.EmbeddingModel == "" {
		return nil, fmt.Errorf("%w: no embedding model configured for %s", errors.ErrInvalidConfig, c.cfg.Provider)
	}

	req := openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
	}

	var resp openai.EmbeddingResponse
	err := retry(ctx, c.cfg.MaxRetries, c.cfg.RetryDelay, c.onRetry, func() error {
		var callErr error
		resp, callErr = c.client.CreateEmbeddings(ctx, req)
		return mapOpenAIError(callErr)
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrEmbeddingFailed.Error())
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", errors.ErrInvalidResponse, len(resp.Data), len(texts))
	}

	result := make([][]float32, len(texts))
	for i, data := range resp.Data {
		idx := data.Index
		if idx < 0 || idx >= len(result) {
			idx = i
		}
		result[idx] = data.Embedding
	}
	return result, nil
}

func (c *CompatClient) onRetry(attempt int, err error) {
	c.logger.Warn("retrying llm request",
		"provider", c.cfg.Provider,
		"model", c.cfg.Model,
		"attempt", attempt,
		"error", err,
	)
}

// buildChatRequest 构建 OpenAI 请求
func (c *CompatClient) buildChatRequest(req Request) openai.ChatCompletionRequest {
	chatReq := openai.ChatCompletionRequest{
		Model:    c.cfg.Model,
		Messages: convertMessagesToOpenAI(req.Messages),
	}

	temperature := c.cfg.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	// go-openai 会省略零值温度字段，用最小正数显式表达 0
	if temperature == 0 {
		chatReq.Temperature = math.SmallestNonzeroFloat32
	} else {
		chatReq.Temperature = float32(temperature)
	}

	if req.MaxTokens != nil {
		chatReq.MaxTokens = *req.MaxTokens
	} else {
		chatReq.MaxTokens = c.cfg.MaxTokens
	}

	if len(req.Stop) > 0 {
		chatReq.Stop = req.Stop
	}

	if len(req.Tools) > 0 {
		chatReq.Tools = convertToolsToOpenAI(req.Tools)
		if req.ToolChoice != "" {
			chatReq.ToolChoice = req.ToolChoice
		}
	}

	return chatReq
}

// convertMessagesToOpenAI 转换消息格式到 OpenAI 格式
func convertMessagesToOpenAI(msgs []message.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, msg := range msgs {
		chatMsg := openai.ChatCompletionMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			Name:       msg.Name,
			ToolCallID: msg.ToolCallID,
		}

		if len(msg.ToolCalls) > 0 {
			chatMsg.ToolCalls = make([]openai.ToolCall, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				chatMsg.ToolCalls[i] = openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: toolArguments(tc),
					},
				}
			}
		}

		result = append(result, chatMsg)
	}
	return result
}

// toolArguments 优先回传模型给出的原始参数文本
func toolArguments(tc message.ToolCall) string {
	if tc.RawArguments != "" {
		return tc.RawArguments
	}
	data, err := json.Marshal(tc.Arguments)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// convertToolsToOpenAI 转换工具格式到 OpenAI 格式
func convertToolsToOpenAI(tools []ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, len(tools))
	for i, tool := range tools {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		}
	}
	return result
}

// parseOpenAIResponse 解析 OpenAI 响应
func parseOpenAIResponse(resp openai.ChatCompletionResponse) (Response, error) {
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("%w: no choices returned", errors.ErrInvalidResponse)
	}

	choice := resp.Choices[0]
	result := Response{
		ID:           resp.ID,
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		TokenUsage: message.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	for _, tc := range choice.Message.ToolCalls {
		call := message.ToolCall{
			ID:           tc.ID,
			Name:         tc.Function.Name,
			RawArguments: tc.Function.Arguments,
			Arguments:    map[string]interface{}{},
		}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &call.Arguments); err != nil {
				call.ParseError = err.Error()
			}
		}
		result.ToolCalls = append(result.ToolCalls, call)
	}

	return result, nil
}

// mapOpenAIError 映射 OpenAI 错误到框架错误
func mapOpenAIError(err error) error {
	if err == nil {
		return nil
	}
	if mapped := mapContextError(err); mapped != nil {
		return mapped
	}

	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		if sentinel := errors.FromStatus(apiErr.HTTPStatusCode); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
		return fmt.Errorf("openai error (code=%d): %w", apiErr.HTTPStatusCode, err)
	}

	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		if sentinel := errors.FromStatus(reqErr.HTTPStatusCode); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
		return fmt.Errorf("openai request failed (code=%d): %w", reqErr.HTTPStatusCode, err)
	}

	return errors.WrapError(err, "openai request failed")
}

// mapContextError 映射上下文取消和超时
func mapContextError(err error) error {
	switch {
	case stderrors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", errors.ErrContextCanceled, err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", errors.ErrTimeout, err)
	default:
		return nil
	}
}

var _ Provider = (*CompatClient)(nil)
