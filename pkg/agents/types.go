package agents

import (
	"time"

	"github.com/easyops/hellochains-go/pkg/core/message"
)

// Input Agent 输入
type Input struct {
	// Query 用户查询（必填）
	Query string `json:"query"`
}

// Output Agent 输出
type Output struct {
	// Response 最终回答
	Response string `json:"response"`
	// Steps Thought/Action/Observation 轨迹
	Steps []ReasoningStep `json:"steps,omitempty"`
	// Iterations 调用模型的次数
	Iterations int `json:"iterations"`
	// Stopped 达到迭代上限而提前停止
	Stopped bool `json:"stopped,omitempty"`
	// TokenUsage 累计 Token 用量
	TokenUsage message.TokenUsage `json:"token_usage"`
	// Duration 总耗时
	Duration time.Duration `json:"duration"`
	// Error 错误信息
	Error string `json:"error,omitempty"`
}

// HasError 检查输出是否包含错误
func (o *Output) HasError() bool {
	return o.Error != ""
}
