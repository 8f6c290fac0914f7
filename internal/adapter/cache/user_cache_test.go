package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "puser-service/internal/domain/user"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client, mr
}

func TestRedisUserListCache_SetAndGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserListCache(client, 5*time.Minute, zaptest.NewLogger(t))

	users := []domain.User{
		{ID: 1, UserName: "alice"},
		{ID: 2, UserName: "bob"},
	}

	require.NoError(t, cache.Set(context.Background(), users))

	raw, err := mr.Get(UserListKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"user_name":"alice"},{"id":2,"user_name":"bob"}]`, raw)

	cached, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, users, cached)
}

func TestRedisUserListCache_EmptyList(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserListCache(client, 5*time.Minute, zaptest.NewLogger(t))

	require.NoError(t, cache.Set(context.Background(), []domain.User{}))

	cached, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cached)
	assert.Empty(t, cached)
}

func TestRedisUserListCache_SetNil(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserListCache(client, 5*time.Minute, zaptest.NewLogger(t))

	err := cache.Set(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cache nil user list")
}

func TestRedisUserListCache_Miss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserListCache(client, 5*time.Minute, zaptest.NewLogger(t))

	cached, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserListCache_Invalidate(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRedisUserListCache(client, 5*time.Minute, zaptest.NewLogger(t))

	require.NoError(t, cache.Set(context.Background(), []domain.User{{ID: 1, UserName: "alice"}}))
	require.NoError(t, cache.Invalidate(context.Background()))

	cached, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserListCache_TTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserListCache(client, 2*time.Second, zaptest.NewLogger(t))

	require.NoError(t, cache.Set(context.Background(), []domain.User{{ID: 1, UserName: "alice"}}))

	mr.FastForward(3 * time.Second)

	cached, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserListCache_CorruptPayload(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserListCache(client, time.Minute, zaptest.NewLogger(t))

	require.NoError(t, mr.Set(UserListKey, "not-json"))

	cached, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.Nil(t, cached)
}

func TestRedisUserListCache_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisUserListCache(client, time.Minute, zaptest.NewLogger(t))
	mr.Close()

	_, err := cache.Get(context.Background())
	assert.Error(t, err)
}
