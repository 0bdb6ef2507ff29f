package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"eadmin/internal/domain"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// ErrPrimaryDelete reports a delete that reached only the fallback store. It
// is replayed on the primary once the primary recovers.
var ErrPrimaryDelete = errors.New("primary session store did not delete the value")

// FailoverSessionRepository serves session values from primary and switches
// to fallback once primary fails. Primary is retried after recoveryInterval.
type FailoverSessionRepository struct {
	primary   domain.KeyValueStore
	fallback  domain.KeyValueStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewFailoverSessionRepository(primary, fallback domain.KeyValueStore, logger *zerolog.Logger) *FailoverSessionRepository {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		pending:  make(map[string]struct{}),
	}
}

func (r *FailoverSessionRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary session store failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverSessionRepository) shouldRetryPrimary() bool {
	return time.Since(time.Unix(0, r.lastCheck.Load())) > recoveryInterval
}

func (r *FailoverSessionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if !r.isDown.Load() {
		value, ok, err := r.primary.Get(ctx, key)
		if err == nil {
			return value, ok, nil
		}
		r.markDown(err)
	}

	if r.isDown.Load() && r.shouldRetryPrimary() {
		value, ok, err := r.primary.Get(ctx, key)
		if err == nil {
			r.isDown.Store(false)
			r.logger.Info().Msg("Primary session store recovered")
			deleted := r.isPending(key)
			r.replayDeletes(ctx)
			if deleted {
				return "", false, nil
			}
			return value, ok, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.Get(ctx, key)
}

func (r *FailoverSessionRepository) isPending(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pending[key]
	return ok
}

// replayDeletes applies the deletes the primary missed while it was down.
// Failed ones stay pending.
func (r *FailoverSessionRepository) replayDeletes(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.pending {
		if err := r.primary.Delete(ctx, key); err != nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("Failed to replay delete on primary session store")
			continue
		}
		delete(r.pending, key)
	}
}

func (r *FailoverSessionRepository) Set(ctx context.Context, key, value string) error {
	if !r.isDown.Load() {
		err := r.primary.Set(ctx, key, value)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Set(ctx, key, value)
}

// Delete removes key from both stores. When the primary is unavailable the
// delete is kept pending and ErrPrimaryDelete is returned, since another
// process reading the primary would still see the value.
func (r *FailoverSessionRepository) Delete(ctx context.Context, key string) error {
	var primaryErr error
	if !r.isDown.Load() {
		primaryErr = r.primary.Delete(ctx, key)
		if primaryErr == nil {
			return r.fallback.Delete(ctx, key)
		}
		r.markDown(primaryErr)
	}

	r.mu.Lock()
	r.pending[key] = struct{}{}
	r.mu.Unlock()

	if err := r.fallback.Delete(ctx, key); err != nil {
		return err
	}
	if primaryErr == nil {
		return ErrPrimaryDelete
	}
	return fmt.Errorf("%w: %v", ErrPrimaryDelete, primaryErr)
}
