// Package memory 提供有界对话记忆及其持久化
package memory

import (
	"github.com/easyops/hellochains-go/pkg/core/message"
)

// BufferWindow 最近 K 轮对话的记忆窗口
//
// 一轮（exchange）是一条用户消息加一条助手回复。记录后若超过 2K 条消息，
// 从最旧的一端丢弃，直到恰好剩下 2K 条；K = 0 表示不截断。
// 只保存一份对话记录，由单个对话实例独占，不是并发安全的。
type BufferWindow struct {
	k     int
	turns []message.Message
}

// NewBufferWindow 创建记忆窗口，负数 k 按 0 处理
func NewBufferWindow(k int) *BufferWindow {
	if k < 0 {
		k = 0
	}
	return &BufferWindow{k: k}
}

// K 返回保留的轮数上限
func (w *BufferWindow) K() int {
	return w.k
}

// RecordExchange 追加一轮对话并按上限截断
func (w *BufferWindow) RecordExchange(userText, assistantText string) {
	w.turns = append(w.turns, message.Exchange(userText, assistantText)...)
	w.truncate()
}

// History 按时间顺序返回对话记录的副本
func (w *BufferWindow) History() []message.Message {
	out := make([]message.Message, len(w.turns))
	copy(out, w.turns)
	return out
}

// Exchanges 返回当前保留的轮数
func (w *BufferWindow) Exchanges() int {
	return len(w.turns) / 2
}

// Len 返回当前保留的消息数
func (w *BufferWindow) Len() int {
	return len(w.turns)
}

// Clear 清空对话记录
func (w *BufferWindow) Clear() {
	w.turns = nil
}

// Restore 用持久化的记录替换当前内容，并按上限截断
func (w *BufferWindow) Restore(turns []message.Message) error {
	for _, t := range turns {
		if !t.Role.IsTurn() {
			return ErrInvalidTurn
		}
	}
	w.turns = make([]message.Message, len(turns))
	copy(w.turns, turns)
	w.truncate()
	return nil
}

// truncate 只从最旧的一端丢弃
func (w *BufferWindow) truncate() {
	limit := 2 * w.k
	if limit == 0 || len(w.turns) <= limit {
		return
	}
	kept := make([]message.Message, limit)
	copy(kept, w.turns[len(w.turns)-limit:])
	w.turns = kept
}
