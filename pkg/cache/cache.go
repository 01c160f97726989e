package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache stores JSON-serialisable values by key.
type Cache interface {
	// Get decodes the cached value into dest. It returns ErrMiss when the key is absent.
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Name() string
}

// New opens the cache named by driver: "memory" or "redis".
func New(ctx context.Context, driver string, redisConfig RedisConfig, defaultTTL time.Duration) (Cache, error) {
	switch driver {
	case "", "memory":
		return NewMemoryCache(defaultTTL, 2*defaultTTL), nil
	case "redis":
		return NewRedisCache(ctx, redisConfig)
	}
	return nil, fmt.Errorf("unsupported cache driver %q", driver)
}
