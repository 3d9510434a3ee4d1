package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"notescatalog/internal/domain"
)

const keyPrefix = "notescatalog:image-url:"

// RedisURLCache stores resolved image URLs in Redis with a per-entry expiry.
type RedisURLCache struct {
	client *redis.Client
}

var _ domain.URLCache = (*RedisURLCache)(nil)

// NewRedisURLCache wraps an existing client.
func NewRedisURLCache(client *redis.Client) *RedisURLCache {
	return &RedisURLCache{client: client}
}

// Connect returns a client for addr, or nil when addr is empty or the server does not
// answer a ping. Callers fall back to uncached resolution on nil.
func Connect(ctx context.Context, addr, password string, db int, logger *slog.Logger) *redis.Client {
	if addr == "" {
		logger.Info("redis not configured, image urls will not be cached")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, image urls will not be cached", "addr", addr, "err", err)
		_ = client.Close()
		return nil
	}
	logger.Info("connected to redis", "addr", addr, "db", db)
	return client
}

func key(fileName string) string {
	return keyPrefix + fileName
}

func (c *RedisURLCache) Get(ctx context.Context, fileName string) (string, bool, error) {
	url, err := c.client.Get(ctx, key(fileName)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return url, true, nil
}

func (c *RedisURLCache) Set(ctx context.Context, fileName, url string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key(fileName), url, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisURLCache) Delete(ctx context.Context, fileName string) error {
	if err := c.client.Del(ctx, key(fileName)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
