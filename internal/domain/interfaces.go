package domain

import (
	"context"
	"time"
)

// KeyValueStore persists small string values such as the session token.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CacheStore keeps serialized query results for a limited time.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeleteMatching removes every key containing fragment and reports how
	// many were removed.
	DeleteMatching(ctx context.Context, fragment string) (int, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// TokenStore supplies and revokes the bearer token of the current session.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
