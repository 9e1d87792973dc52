// Package cache provides an optional Redis-backed read-through cache.
// When no Redis URL is configured the cache degrades to a no-op so the
// application works without a cache tier.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrMiss is returned by Get when the key is absent or caching is disabled.
var ErrMiss = errors.New("cache: miss")

// Cache wraps a Redis client. The zero value and a nil *Cache are both
// safe to use and behave as a disabled cache.
type Cache struct {
	rdb *redis.Client
}

// New connects to Redis using the given URL. An empty URL disables
// caching. A failed connection also disables caching rather than
// failing startup.
func New(ctx context.Context, redisURL string) *Cache {
	if redisURL == "" {
		return &Cache{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("invalid REDIS_URL, caching disabled")
		return &Cache{}
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, caching disabled")
		return &Cache{}
	}

	log.Info().Msg("redis cache connected")
	return &Cache{rdb: rdb}
}

// Enabled reports whether a Redis client is available.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get unmarshals the cached JSON value for key into dest.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if !c.Enabled() {
		return ErrMiss
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Set marshals value as JSON and stores it under key with a TTL.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

// Generation reads the integer generation counter stored at key,
// returning 0 when unset. Callers embed the generation in their cache
// keys so that bumping it invalidates every derived entry at once.
func (c *Cache) Generation(ctx context.Context, key string) int64 {
	if !c.Enabled() {
		return 0
	}
	n, err := c.rdb.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return n
}

// Bump increments the generation counter at key.
func (c *Cache) Bump(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Incr(ctx, key).Err()
}

// Delete removes keys. Used to invalidate after writes.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}
