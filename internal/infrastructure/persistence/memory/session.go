package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookstore-orders/internal/domain/user"
)

// SessionStore 内存会话存储（未启用Redis时使用）
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]user.Session
	now      func() time.Time
}

// NewSessionStore 创建内存会话存储
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]user.Session),
		now:      time.Now,
	}
}

func (s *SessionStore) Save(_ context.Context, sess *user.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *sess
	stored.ExpiresAt = s.now().Add(ttl)
	s.sessions[sess.UserID] = stored
	return nil
}

func (s *SessionStore) Get(_ context.Context, userID string) (*user.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, userID)
		return nil, nil
	}
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}
