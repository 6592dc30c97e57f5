package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps Redis with the small surface the services need. A nil
// *Cache is valid and acts as a miss-everything no-op, so the server
// still runs when no Redis address is configured.
type Cache struct {
	rdb *redis.Client
}

func New(addr, password string) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})}
}

// NewWithClient exists for tests that bring their own client.
func NewWithClient(rdb *redis.Client) *Cache { return &Cache{rdb: rdb} }

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache get", "key", key, "err", err)
		}
		return "", false
	}
	return v, true
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Warn("cache set", "key", key, "err", err)
	}
}

// Allow counts a hit against key inside a fixed window and reports
// whether the caller is still under limit. Redis being down fails open.
func (c *Cache) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if c == nil {
		return true
	}
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		slog.Warn("cache incr", "key", key, "err", err)
		return true
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			slog.Warn("cache expire", "key", key, "err", err)
		}
	}
	return n <= int64(limit)
}
