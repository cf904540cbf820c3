package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hackgods/clinic-appointment-scheduling/internal/config"
)

// NewRedisClient connects to the lock server described by cfg and pings it.
// Command timeouts are a quarter of the lock TTL, capped at 2s, so a stalled
// acquire or release fails well before the lock would expire.
func NewRedisClient(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	timeout := commandTimeout(cfg.LockTTL)

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		DB:           0,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolSize:     10,
		MinIdleConns: 1,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}

	return rdb, nil
}

func commandTimeout(lockTTL time.Duration) time.Duration {
	timeout := lockTTL / 4
	switch {
	case timeout <= 0 || timeout > 2*time.Second:
		return 2 * time.Second
	case timeout < 100*time.Millisecond:
		return 100 * time.Millisecond
	}
	return timeout
}
