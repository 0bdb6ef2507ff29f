// Package querycache holds decoded API results keyed by query, with TTL,
// fragment-based invalidation and one optimistic-update helper.
package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"eadmin/internal/domain"

	"github.com/rs/zerolog"
)

// Well-known key fragments.
const (
	KeyAllSpaces        = "all-academic-spaces"
	KeyAvailableSpaces  = "available-academic-spaces"
	KeySpaces           = "academic-spaces"
	KeyReservations     = "reservations"
	KeyUserReservations = "user-reservations"
	KeySchools          = "schools"
	KeyTeachers         = "teachers"
	KeyUsers            = "users"
	KeyCurrentUser      = "current-user"
	KeyMetrics          = "metrics"
)

// Key joins query key parts the way list keys are built, e.g.
// Key("reservations", 2, 10) == "reservations:2:10".
func Key(parts ...any) string {
	s := make([]string, 0, len(parts))
	for _, p := range parts {
		s = append(s, fmt.Sprint(p))
	}
	return strings.Join(s, ":")
}

type Cache struct {
	store  domain.CacheStore
	ttl    time.Duration
	logger *zerolog.Logger
	mu     sync.Mutex // serializes Optimistic updates
}

func New(store domain.CacheStore, ttl time.Duration, logger *zerolog.Logger) *Cache {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Cache{store: store, ttl: ttl, logger: logger}
}

// Get decodes the entry at key into dst and reports whether it was present.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		_ = c.store.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache entry %s: %w", key, err)
	}
	return c.store.Set(ctx, key, raw, c.ttl)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// Invalidate drops every entry whose key contains one of the fragments.
func (c *Cache) Invalidate(ctx context.Context, fragments ...string) error {
	for _, fragment := range fragments {
		n, err := c.store.DeleteMatching(ctx, fragment)
		if err != nil {
			return fmt.Errorf("invalidate %q: %w", fragment, err)
		}
		c.logger.Debug().Str("fragment", fragment).Int("removed", n).Msg("Cache invalidated")
	}
	return nil
}

// Fetch returns the cached value at key, or calls load and caches its result.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if c != nil {
		ok, err := c.Get(ctx, key, &cached)
		if err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if c != nil {
		if err := c.Set(ctx, key, value); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}
	return value, nil
}

// Optimistic applies a local change to the entry at key before running
// mutate, and restores the previous entry if mutate fails. When nothing is
// cached at key only mutate runs.
func Optimistic[T any](ctx context.Context, c *Cache, key string, apply func(T) T, mutate func(context.Context) error) error {
	if c == nil {
		return mutate(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot, had, err := c.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", key, err)
	}
	if !had {
		return mutate(ctx)
	}

	var current T
	if err := json.Unmarshal(snapshot, &current); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	if err := c.Set(ctx, key, apply(current)); err != nil {
		return err
	}

	if err := mutate(ctx); err != nil {
		if restoreErr := c.store.Set(ctx, key, snapshot, c.ttl); restoreErr != nil {
			c.logger.Error().Err(restoreErr).Str("key", key).Msg("Failed to roll back optimistic update")
		}
		return err
	}
	return nil
}
