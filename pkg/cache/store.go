package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by KeyValueStore.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// KeyValueStore is the storage abstraction underneath the response cache.
// Implementations must treat Get on an absent key as ErrCacheMiss, not a
// store failure.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStore implements KeyValueStore on a shared Redis instance.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get implements KeyValueStore.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set implements KeyValueStore.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

var _ KeyValueStore = (*RedisStore)(nil)
