// Package agents 提供使用工具推理的 Agent
package agents

import (
	"context"

	"github.com/easyops/hellochains-go/pkg/core/config"
)

// Agent 接收查询并给出最终回答
type Agent interface {
	// Run 执行一次查询
	Run(ctx context.Context, input Input) (Output, error)
	// Name 返回 Agent 名称
	Name() string
	// Config 返回 Agent 配置
	Config() config.AgentConfig
}
