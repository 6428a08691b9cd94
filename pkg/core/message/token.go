package message

// TokenUsage 单次或累计的 Token 用量
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add 累加另一份用量
func (t *TokenUsage) Add(other TokenUsage) {
	t.PromptTokens += other.PromptTokens
	t.CompletionTokens += other.CompletionTokens
	t.TotalTokens += other.TotalTokens
}

// IsEmpty 提供商未返回用量时为 true
func (t TokenUsage) IsEmpty() bool {
	return t.PromptTokens == 0 && t.CompletionTokens == 0 && t.TotalTokens == 0
}
