package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"duck-insights/internal/domain"
)

var _ domain.ResultCache = (*RedisCache)(nil)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	Prefix   string
	// TTL of stored results. Zero keeps entries until evicted by Redis itself.
	TTL time.Duration
}

// RedisCache shares cached results between processes. Values are stored as
// JSON under Prefix followed by the literal SQL string.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newRedisCache(client, cfg), nil
}

func newRedisCache(client *redis.Client, cfg RedisConfig) *RedisCache {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "nlq:result:"
	}
	return &RedisCache{client: client, prefix: prefix, ttl: cfg.TTL}
}

// Get returns the result stored for exactly this key.
func (c *RedisCache) Get(ctx context.Context, sqlKey string) (*domain.ExecutionResult, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+sqlKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	result, err := decodeResult(raw)
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

// Set stores result under key, replacing any previous value.
func (c *RedisCache) Set(ctx context.Context, sqlKey string, result *domain.ExecutionResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode cached result: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+sqlKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// decodeResult keeps numeric cell values as json.Number so integers survive
// the round trip without turning into float64.
func decodeResult(raw []byte) (*domain.ExecutionResult, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var result domain.ExecutionResult
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("decode cached result: %w", err)
	}
	return &result, nil
}
