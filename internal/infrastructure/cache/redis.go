package cache

import (
	"context"
	"credit-approval/internal/config"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// ErrDisabled is returned by NewRedisClient when no address is configured.
var ErrDisabled = errors.New("redis is not configured")

func NewRedisClient(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		logger.Info("Redis address not configured; distributed features disabled")
		return nil, ErrDisabled
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: pingTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to ping redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("Connected to Redis", "addr", cfg.Addr, "db", cfg.DB)
	return client, nil
}

// WindowCounter counts hits per key in fixed windows that start on the
// first hit of the window.
type WindowCounter struct {
	client *redis.Client
	prefix string
}

func NewWindowCounter(client *redis.Client, prefix string) *WindowCounter {
	return &WindowCounter{client: client, prefix: prefix}
}

// Increment returns the hit count of key in the current window.
func (c *WindowCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := c.prefix + key

	pipe := c.client.Pipeline()
	incrCmd := pipe.Incr(ctx, fullKey)
	ttlCmd := pipe.TTL(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis pipeline failed for %s: %w", fullKey, err)
	}

	count, err := incrCmd.Result()
	if err != nil {
		return 0, fmt.Errorf("redis INCR failed for %s: %w", fullKey, err)
	}

	// A key without expiry (-1) would otherwise count forever.
	if ttl, err := ttlCmd.Result(); err == nil && ttl < 0 {
		if err := c.client.Expire(ctx, fullKey, window).Err(); err != nil {
			return count, fmt.Errorf("redis EXPIRE failed for %s: %w", fullKey, err)
		}
	}
	return count, nil
}
