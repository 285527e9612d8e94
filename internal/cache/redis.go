// Package cache provides a fail-open Redis cache for hot read paths.
// The application behaves identically when Redis is unavailable.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"microblog/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis at the given address. It returns nil when the
// connection cannot be established; callers must treat a nil client as
// "no cache".
func InitRedis(addr string) *redis.Client {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			middleware.Logger.Warn("invalid REDIS_URL, continuing without cache",
				slog.String("url", addr), slog.String("error", err.Error()))
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unavailable, continuing without cache",
			slog.String("error", err.Error()))
		return nil
	}

	middleware.Logger.Info("Redis connected successfully")
	return client
}
