// Package cache keeps session artifacts between CLI runs in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"
)

// Cache is the small key/value surface the CLI needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	GetJSON(ctx context.Context, key string, value any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// RedisCache is a Cache backed by a Redis server.
type RedisCache struct {
	conn *redis.Client
}

// NewRedisCache connects to the Redis server at addr, a redis:// URL, and
// checks it answers.
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
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

// Close closes the connection pool.
func (rc *RedisCache) Close() error {
	return rc.conn.Close()
}

// Set stores a value. A zero ttl keeps it forever.
func (rc *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := rc.conn.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

// Get retrieves a value. A missing key is reported through ok, not err.
func (rc *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := rc.conn.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("getting %q: %w", key, err)
	}
	return value, true, nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	if err := rc.conn.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

// GetJSON retrieves a JSON string and unmarshals it into value.
func (rc *RedisCache) GetJSON(ctx context.Context, key string, value any) (bool, error) {
	s, ok, err := rc.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}

	if err := json.Unmarshal([]byte(s), value); err != nil {
		return false, fmt.Errorf("unmarshaling cached JSON for %q: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value as a JSON string.
func (rc *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	t, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling JSON for cache key %q: %w", key, err)
	}
	return rc.Set(ctx, key, string(t), ttl)
}
