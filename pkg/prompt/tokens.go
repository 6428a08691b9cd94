package prompt

import (
	"strings"

	"github.com/easyops/hellochains-go/pkg/core/message"
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter 定义 Token 计数接口
type TokenCounter interface {
	// Count 返回给定文本的 Token 数量
	Count(text string) int
	// CountMessages 返回消息列表的总 Token 数量，包括每条消息的格式开销
	CountMessages(messages []message.Message) int
}

// TiktokenCounter 使用 tiktoken 实现精确的 Token 计数
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter 创建模型对应的计数器
//
// 未知模型（如 OpenRouter 上的开源模型）降级到 cl100k_base 编码。
// 首次使用某个编码时 tiktoken 需要下载词表。
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

// Count 返回给定文本的 Token 数量
func (c *TiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// CountMessages 返回消息列表的总 Token 数量
func (c *TiktokenCounter) CountMessages(messages []message.Message) int {
	return countMessages(c, messages, 3)
}

// EstimatedCounter 按字符和词数估算 Token，tiktoken 不可用时使用
type EstimatedCounter struct{}

// Count 返回估算的 Token 数量
func (EstimatedCounter) Count(text string) int {
	chars := len(text)
	words := len(strings.Fields(text))
	if words == 0 {
		return chars / 4
	}
	// 字符估算（约 4 字符/token）与词估算（约 1.3 token/词）取平均
	return (chars/4 + int(float64(words)*1.3)) / 2
}

// CountMessages 返回消息列表的估算 Token 数量
func (e EstimatedCounter) CountMessages(messages []message.Message) int {
	return countMessages(e, messages, 4)
}

// countMessages 参照 OpenAI cookbook 的消息计数方式
func countMessages(c TokenCounter, messages []message.Message, perMessage int) int {
	total := 0
	for _, msg := range messages {
		total += perMessage
		total += c.Count(string(msg.Role))
		total += c.Count(msg.Content)
		if msg.Name != "" {
			total += c.Count(msg.Name) + 1
		}
	}
	// 回复以 <|start|>assistant<|message|> 开头
	return total + 3
}

// DefaultTokenCounter 优先使用 tiktoken，失败时降级到估算
func DefaultTokenCounter(model string) TokenCounter {
	counter, err := NewTiktokenCounter(model)
	if err != nil {
		return EstimatedCounter{}
	}
	return counter
}

var _ TokenCounter = (*TiktokenCounter)(nil)
var _ TokenCounter = EstimatedCounter{}
