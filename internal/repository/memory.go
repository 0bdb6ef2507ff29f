package repository

import (
	"context"
	"strings"
	"sync"
	"time"
)

type MemorySessionRepository struct {
	values sync.Map
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{}
}

func (r *MemorySessionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	val, ok := r.values.Load(key)
	if !ok {
		return "", false, nil
	}
	return val.(string), true, nil
}

func (r *MemorySessionRepository) Set(ctx context.Context, key, value string) error {
	r.values.Store(key, value)
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, key string) error {
	r.values.Delete(key)
	return nil
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCacheRepository is an in-process CacheStore. Expired entries are
// dropped lazily on read.
type MemoryCacheRepository struct {
	entries sync.Map
	now     func() time.Time
}

func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{now: time.Now}
}

func (r *MemoryCacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok := r.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	entry := val.(cacheEntry)
	if entry.expired(r.now()) {
		r.entries.Delete(key)
		return nil, false, nil
	}
	return entry.data, true, nil
}

func (r *MemoryCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := cacheEntry{data: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = r.now().Add(ttl)
	}
	r.entries.Store(key, entry)
	return nil
}

func (r *MemoryCacheRepository) Delete(ctx context.Context, key string) error {
	r.entries.Delete(key)
	return nil
}

func (r *MemoryCacheRepository) DeleteMatching(ctx context.Context, fragment string) (int, error) {
	removed := 0
	r.entries.Range(func(k, _ any) bool {
		if strings.Contains(k.(string), fragment) {
			r.entries.Delete(k)
			removed++
		}
		return true
	})
	return removed, nil
}
