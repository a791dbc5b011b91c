// internal/adapters/redis/kv.go
package redis_a

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/lavka-be/internal/core/ports"
)

// KeyPrefix namespaces the keys this service writes
type KeyPrefix string

const (
	PrefixExport  KeyPrefix = "export"
	PrefixSeed    KeyPrefix = "seed"
	PrefixSummary KeyPrefix = "summary"
)

// KV implements ports.KeyValueStore on Redis. Values are JSON-encoded.
type KV struct {
	client *redis.Client
	logger *slog.Logger
}

var _ ports.KeyValueStore = (*KV)(nil)

// NewKV creates a new key-value store
func NewKV(client *redis.Client, logger *slog.Logger) *KV {
	return &KV{
		client: client,
		logger: logger.With(slog.String("component", "kv")),
	}
}

// Set stores a JSON-encoded value with the given TTL
func (k *KV) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := k.client.Set(ctx, key, data, ttl).Err(); err != nil {
		k.logger.ErrorContext(ctx, "failed to set key",
			slog.String("key", key),
			slog.Any("error", err))
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

// Get retrieves and JSON-decodes a value into dest
func (k *KV) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := k.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ports.ErrKeyNotFound
		}
		k.logger.ErrorContext(ctx, "failed to get key",
			slog.String("key", key),
			slog.Any("error", err))
		return fmt.Errorf("redis get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	return nil
}

// Delete removes keys
func (k *KV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := k.client.Del(ctx, keys...).Err(); err != nil {
		k.logger.ErrorContext(ctx, "failed to delete keys",
			slog.Any("keys", keys),
			slog.Any("error", err))
		return fmt.Errorf("redis del error: %w", err)
	}

	return nil
}

// DeletePattern removes all keys matching a pattern
func (k *KV) DeletePattern(ctx context.Context, pattern string) error {
	iter := k.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan error: %w", err)
	}

	if len(keys) > 0 {
		return k.Delete(ctx, keys...)
	}

	return nil
}

// SetNX sets the key only when absent; used as a lightweight lock
func (k *KV) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("marshal error: %w", err)
	}

	ok, err := k.client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		k.logger.ErrorContext(ctx, "failed to setnx",
			slog.String("key", key),
			slog.Any("error", err))
		return false, fmt.Errorf("redis setnx error: %w", err)
	}

	return ok, nil
}

// Ping checks if Redis is accessible
func (k *KV) Ping(ctx context.Context) error {
	if err := k.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping error: %w", err)
	}

	return nil
}

// BuildKey creates a namespaced key
func BuildKey(prefix KeyPrefix, parts ...string) string {
	key := string(prefix)
	for _, part := range parts {
		key += ":" + part
	}
	return key
}
