// Package store defines the key-value contract consumed by the scoring
// handlers and its Redis and in-memory implementations.
package store

import (
	"context"
	"time"
)

// Store is the contract the handlers consume. CacheGet and CacheSet are
// best-effort: any backend failure degrades to a miss / dropped write and is
// never surfaced. Get is authoritative and reports hard failures once the
// retry budget is spent.
type Store interface {
	// CacheGet returns the cached value for key, or ok=false when the key
	// is absent or the backend is unreachable.
	CacheGet(ctx context.Context, key string) (string, bool)
	// CacheSet stores value under key with the given ttl and reports
	// whether the write happened.
	CacheSet(ctx context.Context, key, value string, ttl time.Duration) bool
	// Get returns the list stored under key. An absent key yields an empty
	// list and no error.
	Get(ctx context.Context, key string) ([]string, error)
	// Ping verifies backend connectivity for health probes.
	Ping(ctx context.Context) error
}
