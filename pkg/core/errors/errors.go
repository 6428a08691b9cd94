// Package errors 定义 hellochains 共用的哨兵错误
//
// 各提供商的 SDK 错误在 llm 包中被映射到这里的哨兵，
// 上层只需用 errors.Is 判断类别，无需感知具体 SDK。
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotImplemented  = errors.New("not implemented")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrContextCanceled = errors.New("context canceled")
)

// 提供商调用
var (
	ErrRateLimited         = errors.New("rate limited")
	ErrTimeout             = errors.New("request timeout")
	ErrInvalidAPIKey       = errors.New("invalid API key")
	ErrModelNotFound       = errors.New("model not found")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrInvalidResponse     = errors.New("invalid LLM response")
	ErrUnknownProvider     = errors.New("unknown provider")
)

// 工具与智能体
var (
	ErrEmptyQuery            = errors.New("query cannot be empty")
	ErrToolNotFound          = errors.New("tool not found")
	ErrToolExecutionFailed   = errors.New("tool execution failed")
	ErrInvalidToolArgs       = errors.New("invalid tool arguments")
	ErrToolAlreadyRegistered = errors.New("tool already registered")
	ErrInvalidTool           = errors.New("invalid tool")
)

// 检索
var (
	ErrEmbeddingFailed = errors.New("embedding failed")
	ErrNoRetriever     = errors.New("retriever is required")
)

// transient 重试后可能成功的错误
var transient = []error{ErrRateLimited, ErrTimeout, ErrProviderUnavailable}

// fatal 重试和换输入都无法恢复的错误
var fatal = []error{ErrInvalidAPIKey, ErrModelNotFound, ErrInvalidConfig}

// statusErrors HTTP 状态码到哨兵的映射
var statusErrors = map[int]error{
	http.StatusUnauthorized:        ErrInvalidAPIKey,
	http.StatusForbidden:           ErrInvalidAPIKey,
	http.StatusNotFound:            ErrModelNotFound,
	http.StatusRequestTimeout:      ErrTimeout,
	http.StatusGatewayTimeout:      ErrTimeout,
	http.StatusTooManyRequests:     ErrRateLimited,
	http.StatusInternalServerError: ErrProviderUnavailable,
	http.StatusBadGateway:          ErrProviderUnavailable,
	http.StatusServiceUnavailable:  ErrProviderUnavailable,
	529:                            ErrProviderUnavailable, // Anthropic overloaded
}

// WrapError 为 err 加上前缀，nil 原样返回
func WrapError(err error, prefix string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

// IsRetryable err 是否属于可重试的瞬时错误
func IsRetryable(err error) bool {
	return matchAny(err, transient)
}

// IsFatal err 是否不可恢复
func IsFatal(err error) bool {
	return matchAny(err, fatal)
}

// FromStatus 查找状态码对应的哨兵，未知状态码返回 nil
func FromStatus(code int) error {
	return statusErrors[code]
}

func matchAny(err error, targets []error) bool {
	if err == nil {
		return false
	}
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
