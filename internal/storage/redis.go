package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/mapty/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisSlot keeps slot values as plain Redis strings under "mapty:<key>".
type RedisSlot struct {
	client *redis.Client
}

// NewRedisSlot wraps an existing client.
func NewRedisSlot(client *redis.Client) *RedisSlot {
	return &RedisSlot{client: client}
}

// OpenRedisSlot connects to Redis and verifies the connection.
func OpenRedisSlot(ctx context.Context, cfg config.RedisConfig) (*RedisSlot, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &RedisSlot{client: client}, nil
}

func redisKey(key string) string {
	return "mapty:" + key
}

func (r *RedisSlot) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return value, true, nil
}

func (r *RedisSlot) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

func (r *RedisSlot) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("removing slot %s: %w", key, err)
	}
	return nil
}

func (r *RedisSlot) Close() error {
	return r.client.Close()
}
