package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/config"
)

// 需要真实Redis，未设置BOOKSTORE_TEST_REDIS_HOST时跳过
func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	host := os.Getenv("BOOKSTORE_TEST_REDIS_HOST")
	if host == "" {
		t.Skip("BOOKSTORE_TEST_REDIS_HOST未设置,跳过Redis测试")
	}

	client, err := NewClient(context.Background(), config.RedisConfig{Host: host, Port: 6379, PoolSize: 2}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewSessionStore(client)
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	loginAt := time.Now().UTC().Truncate(time.Second)

	sess := &user.Session{UserID: "test-user-1", Username: "alice", ClientIP: "10.0.0.1", LoginAt: loginAt}
	require.NoError(t, store.Save(ctx, sess, time.Minute))

	got, err := store.Get(ctx, "test-user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, loginAt, got.LoginAt)
	assert.Equal(t, loginAt.Add(time.Minute), got.ExpiresAt)

	require.NoError(t, store.Delete(ctx, "test-user-1"))
	got, err = store.Get(ctx, "test-user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnixField(t *testing.T) {
	assert.True(t, unixField("").IsZero())
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), unixField("1700000000"))
}
