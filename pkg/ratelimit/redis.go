package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window Limiter sharing counters across instances via
// INCR with a window-length expiry. The first request in a window creates
// the counter; the key expiring resets it.
type Redis struct {
	client *redis.Client
	prefix string
	cfg    Config
}

// NewRedis builds a Redis-backed limiter. All keys are namespaced under
// prefix to keep counters apart from anything else in the database.
func NewRedis(client *redis.Client, prefix string, cfg Config) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		cfg:    cfg,
	}
}

// Allow increments the window counter for key and checks it against the
// limit. On backend failure it fails open: media delivery degrading to
// unthrottled beats refusing every viewer because Redis is down. The error
// is returned so the caller can log it.
func (r *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	counterKey := r.prefix + key

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, counterKey)
	// NX so a busy window keeps its original deadline.
	pipe.ExpireNX(ctx, counterKey, r.cfg.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Allowed: true}, fmt.Errorf("ratelimit: redis increment failed: %w", err)
	}

	if incr.Val() <= int64(r.cfg.RequestsPerWindow) {
		return Decision{Allowed: true}, nil
	}

	retryAfter := r.cfg.Window
	if ttl, err := r.client.TTL(ctx, counterKey).Result(); err == nil && ttl > 0 {
		retryAfter = ttl
	}

	return Decision{Allowed: false, RetryAfter: retryAfter}, nil
}
