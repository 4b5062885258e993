package user

import (
	"context"
	"time"
)

// Session 登录会话记录
// 仅用于审计（最近登录时间、来源IP），Token校验从不查询它
type Session struct {
	UserID    string
	Username  string
	ClientIP  string
	LoginAt   time.Time
	ExpiresAt time.Time
}

// SessionStore 会话存储（Redis / 内存）
type SessionStore interface {
	// Save 保存会话，ttl到期后自动删除
	Save(ctx context.Context, s *Session, ttl time.Duration) error

	// Get 查询会话，不存在时返回 (nil, nil)
	Get(ctx context.Context, userID string) (*Session, error)

	// Delete 删除会话（登出）
	Delete(ctx context.Context, userID string) error
}
