// Package redis caches normalization results in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/go-redis/redis/v8"

	semantic "bacnet-commissioning/internal/semantic/domain"
)

const (
	defaultKeyPrefix = "mapper:normalized:"
	defaultTTL       = 24 * time.Hour
)

// Cache is a Redis-backed normalization cache.
type Cache struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// Option configures the cache.
type Option func(*Cache)

// WithKeyPrefix overrides the key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(c *Cache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithTTL overrides the entry lifetime. Zero keeps entries forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// NewCache constructs a cache.
func NewCache(client *goredis.Client, opts ...Option) (*Cache, error) {
	if client == nil {
		return nil, errors.New("normalization cache: nil redis client")
	}
	c := &Cache{client: client, prefix: defaultKeyPrefix, ttl: defaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the cached result, reporting false on a miss.
func (c *Cache) Get(ctx context.Context, key string) (semantic.NormalizedPoint, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return semantic.NormalizedPoint{}, false, nil
		}
		return semantic.NormalizedPoint{}, false, err
	}
	var point semantic.NormalizedPoint
	if err := json.Unmarshal(data, &point); err != nil {
		return semantic.NormalizedPoint{}, false, err
	}
	return point, true, nil
}

// Set stores a result.
func (c *Cache) Set(ctx context.Context, key string, point semantic.NormalizedPoint) error {
	data, err := json.Marshal(point)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, data, c.ttl).Err()
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
