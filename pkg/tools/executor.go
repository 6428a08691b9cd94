package tools

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/easyops/hellochains-go/pkg/core/errors"
)

// Executor 工具执行器
//
// 执行失败不会返回 error，而是返回失败的 ToolResult，由调用方作为观察结果继续推理。
type Executor struct {
	registry *Registry
	timeout  time.Duration
	logger   *slog.Logger
}

// ExecutorOption 执行器配置选项
type ExecutorOption func(*Executor)

// NewExecutor 创建工具执行器，默认单次超时 30 秒
func NewExecutor(registry *Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry: registry,
		timeout:  30 * time.Second,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithExecutorTimeout 设置单次执行超时，0 表示不限制
func WithExecutorTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = d
	}
}

// WithExecutorLogger 设置日志器
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Registry 返回使用的注册表
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Execute 执行工具
func (e *Executor) Execute(ctx context.Context, name string, args map[string]interface{}) ToolResult {
	tool, err := e.registry.Get(name)
	if err != nil {
		return NewToolError(name, err)
	}

	if validator, ok := tool.(ToolWithValidation); ok {
		if err := validator.Validate(args); err != nil {
			return NewToolError(name, fmt.Errorf("%w: %v", errors.ErrInvalidToolArgs, err))
		}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := tool.Execute(ctx, args)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", errors.ErrTimeout, err)
		}
		e.logger.Warn("tool execution failed", "tool", name, "duration", time.Since(start), "error", err)
		return NewToolError(name, fmt.Errorf("%w: %w", errors.ErrToolExecutionFailed, err))
	}

	e.logger.Debug("tool executed", "tool", name, "duration", time.Since(start))
	return NewToolResult(name, result)
}
