package store

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is a mutex-guarded in-memory implementation of Store used for
// unit testing handlers without a running Redis. Failure modes are toggled
// per instance; writes are captured for assertions.
type MemoryStore struct {
	mu    sync.Mutex
	cache map[string]memoryEntry
	lists map[string][]string
	nowFn func() time.Time

	// Unavailable makes cache operations miss and Get return getErr.
	unavailable bool
	getErr      error

	// SetCalls records every CacheSet in order.
	SetCalls []SetCall
	// GetCalls counts CacheGet invocations.
	GetCalls int
}

// SetCall captures one CacheSet invocation.
type SetCall struct {
	Key   string
	Value string
	TTL   time.Duration
}

// NewMemoryStore instantiates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: make(map[string]memoryEntry),
		lists: make(map[string][]string),
		nowFn: time.Now,
	}
}

// WithUnavailable configures the store to behave as an unreachable backend:
// cache operations degrade to misses and Get fails with err.
func (m *MemoryStore) WithUnavailable(err error) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = true
	m.getErr = err
	return m
}

// WithNow overrides the clock used for TTL expiry.
func (m *MemoryStore) WithNow(now func() time.Time) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nowFn = now
	return m
}

// SetList seeds the list stored under key.
func (m *MemoryStore) SetList(key string, items []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append([]string(nil), items...)
}

// CacheGet implements Store.
func (m *MemoryStore) CacheGet(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.unavailable {
		return "", false
	}
	entry, ok := m.cache[key]
	if !ok {
		return "", false
	}
	if !entry.expiresAt.IsZero() && m.nowFn().After(entry.expiresAt) {
		delete(m.cache, key)
		return "", false
	}
	return entry.value, true
}

// CacheSet implements Store.
func (m *MemoryStore) CacheSet(_ context.Context, key, value string, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: value, TTL: ttl})
	if m.unavailable {
		return false
	}
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.nowFn().Add(ttl)
	}
	m.cache[key] = entry
	return true
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return nil, m.getErr
	}
	return append([]string(nil), m.lists[key]...), nil
}

// Ping implements Store.
func (m *MemoryStore) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return m.getErr
	}
	return nil
}
