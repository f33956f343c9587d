package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by RedisStorage.Get when the key does not exist
var ErrNotFound = errors.New("key not found")

// RedisStorage stores JSON values under a key prefix
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage connects to redisURL and verifies the connection
func NewRedisStorage(ctx context.Context, redisURL, prefix string) (*RedisStorage, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStorage{client: client, prefix: prefix}, nil
}

func (r *RedisStorage) key(id string) string {
	return r.prefix + id
}

// Set stores data as JSON. A zero ttl keeps the key until it is overwritten.
func (r *RedisStorage) Set(ctx context.Context, id string, data any, ttl time.Duration) error {
	jsonData, err := sonic.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := r.client.Set(ctx, r.key(id), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", r.key(id), err)
	}
	return nil
}

// Get decodes the JSON value stored under id into dest
func (r *RedisStorage) Get(ctx context.Context, id string, dest any) error {
	jsonData, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get %s: %w", r.key(id), err)
	}

	if err := sonic.Unmarshal(jsonData, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", r.key(id), err)
	}
	return nil
}

// Delete removes the value stored under id
func (r *RedisStorage) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.key(id), err)
	}
	return nil
}

// TTL returns the remaining lifetime of id; negative values follow redis semantics
func (r *RedisStorage) TTL(ctx context.Context, id string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, r.key(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get TTL: %w", err)
	}
	return ttl, nil
}

// Ping tests the Redis connection
func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStorage) Close() error {
	return r.client.Close()
}
