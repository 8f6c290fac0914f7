package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "puser-service/internal/domain/user"
)

// UserListKey is the Redis key holding the cached user list.
const UserListKey = "users:list"

// UserListCache defines the interface for caching the full user list.
type UserListCache interface {
	// Get retrieves the cached list.
	// Returns nil, nil on a cache miss.
	Get(ctx context.Context) ([]domain.User, error)

	// Set stores the list with the configured TTL.
	Set(ctx context.Context, users []domain.User) error

	// Invalidate drops the cached list. Called once at startup so that a
	// new process never serves a list cached by its predecessor.
	Invalidate(ctx context.Context) error
}

// RedisUserListCache implements UserListCache using Redis as the backing store.
type RedisUserListCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserListCache creates a new Redis-backed user list cache.
func NewRedisUserListCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisUserListCache {
	return &RedisUserListCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Get retrieves the user list from Redis.
func (c *RedisUserListCache) Get(ctx context.Context) ([]domain.User, error) {
	data, err := c.client.Get(ctx, UserListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.String("key", UserListKey))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", UserListKey, err)
	}

	users := make([]domain.User, 0)
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", UserListKey, err)
	}

	c.log.Debug("cache hit", zap.String("key", UserListKey), zap.Int("count", len(users)))
	return users, nil
}

// Set stores the user list in Redis with TTL. An empty list is cached as well.
func (c *RedisUserListCache) Set(ctx context.Context, users []domain.User) error {
	if users == nil {
		return fmt.Errorf("cannot cache nil user list")
	}

	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", UserListKey, err)
	}

	if err := c.client.Set(ctx, UserListKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", UserListKey, err)
	}

	c.log.Debug("cached user list", zap.Int("count", len(users)), zap.Duration("ttl", c.ttl))
	return nil
}

// Invalidate removes the user list from Redis.
func (c *RedisUserListCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, UserListKey).Err(); err != nil {
		return fmt.Errorf("del %s: %w", UserListKey, err)
	}
	return nil
}
