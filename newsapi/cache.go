package newsapi

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const cacheKeyPrefix = "newsapi__"

type Cache interface {
	// Get returns ok=false on a miss, err is reserved for cache failures.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache stores upstream response bodies in redis with a ttl.
type RedisCache struct {
	inner *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{inner: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.inner.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.inner.Set(ctx, cacheKeyPrefix+key, value, ttl).Err()
}
