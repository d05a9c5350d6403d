package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/georgem7154/once-upon-a-prompt/internal/config"
)

// RedisCache wraps a Redis client
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and pings it
func NewRedisCache(cfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

// Set stores a JSON-encoded value
func (c *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

// Get loads a JSON-encoded value into dest
func (c *RedisCache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetBytes stores a raw byte value
func (c *RedisCache) SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

// GetBytes loads a raw byte value. Returns redis.Nil when absent.
func (c *RedisCache) GetBytes(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, key).Bytes()
}

// Delete removes keys
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// Exists reports whether key exists
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// Close closes the connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Client returns the raw client
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// Artifact cache: one generated image per (story, item, seed), so a client
// that reconnects mid-story does not burn provider quota regenerating
// artifacts it already received.
const (
	ArtifactCacheKeyPrefix = "img:"
	ArtifactCacheTTL       = 1 * time.Hour
)

// ArtifactCacheKey builds the cache key for one generated image
func ArtifactCacheKey(storyID, itemKey string, seed int64) string {
	return fmt.Sprintf("%s%s:%s:%d", ArtifactCacheKeyPrefix, storyID, itemKey, seed)
}

// SeedCacheKey builds the key pinning a story's seed across runs. Artifact
// keys embed the seed, so a re-run only hits them if it draws the same seed.
func SeedCacheKey(storyID string) string {
	return "seed:" + storyID
}
