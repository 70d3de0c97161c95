package cache

import (
	"context"
	"time"
)

// DefaultTTL applies when a key kind does not specify its own.
const DefaultTTL = 15 * time.Minute

// Cache stores JSON payloads under namespaced keys. Writes are idempotent
// overwrites and deletes, so no locking is needed; last writer wins.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
