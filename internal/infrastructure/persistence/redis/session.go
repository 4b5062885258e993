package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
)

const sessionKeyPrefix = "session:"

// SessionStore 登录会话存储
// Key: session:{user_id}，Hash结构，过期时间与Token有效期一致
// 只做审计记录，Token校验不依赖它，删除会话也不会让已签发的Token失效
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

func redisError(err error, message string) error {
	return &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: message, Err: err}
}

func (s *SessionStore) Save(ctx context.Context, sess *user.Session, ttl time.Duration) error {
	key := sessionKey(sess.UserID)
	expiresAt := sess.LoginAt.Add(ttl)

	// HSet + Expire 放进同一个事务管道，避免留下没有过期时间的key
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"username":   sess.Username,
			"client_ip":  sess.ClientIP,
			"login_at":   sess.LoginAt.Unix(),
			"expires_at": expiresAt.Unix(),
		})
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return redisError(err, "保存会话失败")
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, userID string) (*user.Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, redisError(err, "获取会话失败")
	}
	if len(fields) == 0 {
		return nil, nil
	}

	return &user.Session{
		UserID:    userID,
		Username:  fields["username"],
		ClientIP:  fields["client_ip"],
		LoginAt:   unixField(fields["login_at"]),
		ExpiresAt: unixField(fields["expires_at"]),
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return redisError(err, "删除会话失败")
	}
	return nil
}

func unixField(v string) time.Time {
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
