package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"piadas/src/core/ports"
)

var _ ports.RateLimiter = (*RedisLimiter)(nil)

// RedisLimiter keeps fixed-window counters in Redis so several instances
// share one quota per client. Each window has its own key, which expires
// one window after its last increment.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration, opts ...Option) *RedisLimiter {
	o := buildOptions(opts)
	return &RedisLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		prefix: "ratelimit:",
		now:    o.now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (ports.RateLimitDecision, error) {
	start := l.now().Truncate(l.window)
	redisKey := l.prefix + key + ":" + strconv.FormatInt(start.Unix(), 10)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return ports.RateLimitDecision{}, fmt.Errorf("redis rate limit: %w", err)
	}

	return decide(l.limit, int(incr.Val()), start, l.window), nil
}
