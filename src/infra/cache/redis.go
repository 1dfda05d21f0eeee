// Package cache implements ports.Cache on Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"piadas/src/core/ports"
)

var _ ports.Cache = (*RedisCache)(nil)

// RedisCache stores values as Redis strings with a TTL. Expiry is enforced
// by Redis itself, so a read after the TTL is always a miss.
type RedisCache struct {
	rdb *redis.Client
	log *slog.Logger
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, url string, log *slog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cache url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping cache: %w", err)
	}
	log.Info("cache connection established", "addr", opts.Addr, "db", opts.DB)
	return rdb, nil
}

func NewRedisCache(rdb *redis.Client, log *slog.Logger) *RedisCache {
	return &RedisCache{rdb: rdb, log: log}
}

func (c *RedisCache) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return b, true, nil
}

// Set requires a positive ttl; entries never live forever.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("redis set %q: ttl must be positive, got %s", key, ttl)
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	c.log.Debug("cache set", "key", key, "ttl", ttl)
	return nil
}
