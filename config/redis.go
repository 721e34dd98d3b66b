package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the optional Redis connection used to cache dashboard
// metrics. Returns nil when REDIS_ADDR is unset or the server is
// unreachable; callers must treat a nil client as "caching disabled".
func ConnectRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		slog.Warn("REDIS_ADDR is not set, dashboard caching disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		slog.Error("failed to connect to Redis, caching disabled", "error", err)
		return nil
	}

	slog.Info("connected to Redis")
	return rdb
}
