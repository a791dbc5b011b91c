// internal/core/ports/kv.go
package ports

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by KeyValueStore.Get on a miss
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is a small TTL'd key-value port used for export job status,
// the seed lock and cached aggregates. Values are JSON-encoded by the
// adapter.
type KeyValueStore interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error

	// SetNX sets the key only when absent; used as a lightweight lock.
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)

	Ping(ctx context.Context) error
}
