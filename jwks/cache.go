package jwks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Cache stores raw key-set documents keyed by provider URL. Entries expire
// after the TTL the cache was built with.
type Cache interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Set(ctx context.Context, url string, doc []byte) error
}

// MemoryCache is an in-process cache, one per replica.
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryCache creates an in-process cache holding up to size documents for ttl.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 8
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, url string) ([]byte, bool, error) {
	doc, ok := c.lru.Get(url)
	return doc, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, url string, doc []byte) error {
	c.lru.Add(url, doc)
	return nil
}

// RedisCache shares fetched documents between replicas.
type RedisCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps a go-redis client.
func NewRedisCache(client redis.Cmdable, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	doc, err := c.client.Get(ctx, c.prefix+url).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func (c *RedisCache) Set(ctx context.Context, url string, doc []byte) error {
	return c.client.Set(ctx, c.prefix+url, doc, c.ttl).Err()
}

// HealthCheck pings the Redis server backing the cache
func (c *RedisCache) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("jwks cache ping failed: %w", err)
	}
	return nil
}
