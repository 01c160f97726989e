package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-local Cache backed by go-cache.
type MemoryCache struct {
	cache *gocache.Cache
}

func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{cache: gocache.New(defaultTTL, cleanupInterval)}
}

// Values are stored encoded so callers never share mutable state through the cache.
func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, found := c.cache.Get(key)
	if !found {
		return ErrMiss
	}
	data, ok := raw.([]byte)
	if !ok {
		return fmt.Errorf("unexpected cached type %T for key %s", raw, key)
	}
	return json.Unmarshal(data, dest)
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	c.cache.Set(key, data, ttl)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.cache.Delete(key)
	}
	return nil
}

func (c *MemoryCache) Ping(ctx context.Context) error {
	return nil
}

func (c *MemoryCache) Name() string {
	return "memory"
}
