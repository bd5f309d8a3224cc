// Package ratelimit implements a fixed-window request limiter on Redis.
package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	redis "github.com/go-redis/redis/v8"
)

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	conn *redis.Client
}

// New connects to Redis at the given URL.
func New(ctx context.Context, addr string) (*Limiter, error) {
	opt, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	conn := redis.NewClient(opt)
	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &Limiter{conn: conn}, nil
}

// Allow records a request against key and reports whether it stays within
// max requests per window. Fails open when Redis is unreachable.
func (l *Limiter) Allow(ctx context.Context, key string, max int, window time.Duration) bool {
	bucket := fmt.Sprintf("rate:%s:%d", key, time.Now().Unix()/int64(window.Seconds()))

	n, err := l.conn.Incr(ctx, bucket).Result()
	if err != nil {
		log.Println("[ERROR] rate limiter unavailable:", err)
		return true
	}
	if n == 1 {
		if err := l.conn.Expire(ctx, bucket, window).Err(); err != nil {
			log.Println("[ERROR] setting rate limit expiry:", err)
		}
	}
	return n <= int64(max)
}
