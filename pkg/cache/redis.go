package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key this service writes.
const DefaultKeyPrefix = "mozhi:"

// RedisCache is a Redis-backed translation cache.
type RedisCache struct {
	client    redis.UniversalClient
	ttl       time.Duration
	keyPrefix string
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g., "redis://localhost:6379/0")
	TTL       time.Duration // 0 = no expiration
	KeyPrefix string        // default: "mozhi:"
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisCacheFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client redis.UniversalClient, ttl time.Duration, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	if ttl < 0 {
		ttl = 0
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves a value from Redis. Errors are reported as misses.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a value in Redis.
func (c *RedisCache) Set(ctx context.Context, key string, value string) error {
	return c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ TranslationCache = (*RedisCache)(nil)
