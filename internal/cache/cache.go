// Package cache implements a Redis cache with optional expiry.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"
)

type Cache interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, value any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type RedisCache struct {
	conn *redis.Client
}

func NewRedisCache(ctx context.Context, addr string) (Cache, error) {
	opt, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisCache{conn: client}, nil
}

// Set stores a value in the cache. A zero ttl means no expiry.
func (rc *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return rc.conn.Set(ctx, key, value, ttl).Err()
}

// Get retrieves a value from the cache. A missing key returns ("", nil).
func (rc *RedisCache) Get(ctx context.Context, key string) (any, error) {
	value, err := rc.conn.Get(ctx, key).Result()
	if err == nil || errors.Is(err, redis.Nil) {
		return value, nil
	}

	return nil, err
}

// GetJSON retrieves a JSON string and unmarshals it into the given value.
// A cache miss surfaces as redis.Nil.
func (rc *RedisCache) GetJSON(ctx context.Context, key string, value any) error {
	v, err := rc.conn.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(v), &value); err != nil {
		return fmt.Errorf("unmarshaling cached JSON for %q: %w", key, err)
	}
	return nil
}

// SetJSON stores a struct as a JSON string.
func (rc *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	t, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling JSON for cache key %q: %w", key, err)
	}
	return rc.Set(ctx, key, string(t), ttl)
}

// Miss reports whether err from GetJSON is a cache miss rather than a
// Redis failure.
func Miss(err error) bool {
	return errors.Is(err, redis.Nil)
}
