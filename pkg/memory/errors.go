package memory

import "errors"

// 记忆相关错误
var (
	// ErrNotFound 会话未找到
	ErrNotFound = errors.New("session not found")
	// ErrInvalidTurn 记录只能包含 user 和 assistant 消息
	ErrInvalidTurn = errors.New("turn role must be user or assistant")
	// ErrSessionRequired 会话标识必填
	ErrSessionRequired = errors.New("session id is required")
)
