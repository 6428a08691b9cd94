package memory

import (
	"context"

	"github.com/easyops/hellochains-go/pkg/core/message"
)

// Store 对话记录持久化接口
type Store interface {
	// Save 覆盖保存会话的全部记录
	Save(ctx context.Context, sessionID string, turns []message.Message) error
	// Load 读取会话记录，会话不存在时返回空记录
	Load(ctx context.Context, sessionID string) ([]message.Message, error)
	// Delete 删除会话
	Delete(ctx context.Context, sessionID string) error
	// Close 关闭存储
	Close() error
}
