package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRepository(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "ea@token", "abc"))

		got, ok, err := repo.Get(ctx, "ea@token")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "abc", got)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "ea@token"))
		_, ok, err := repo.Get(ctx, "ea@token")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryCacheRepository(t *testing.T) {
	repo := NewMemoryCacheRepository()
	ctx := context.Background()
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "spaces:all", []byte(`[1]`), time.Minute))

		got, ok, err := repo.Get(ctx, "spaces:all")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte(`[1]`), got)
	})

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "short", []byte("x"), time.Second))
		require.NoError(t, repo.Set(ctx, "forever", []byte("y"), 0))

		now = now.Add(2 * time.Second)

		_, ok, _ := repo.Get(ctx, "short")
		assert.False(t, ok)
		_, ok, _ = repo.Get(ctx, "forever")
		assert.True(t, ok)
	})

	t.Run("DeleteMatching", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "reservations:1", []byte("a"), 0))
		require.NoError(t, repo.Set(ctx, "user-reservations:1", []byte("b"), 0))
		require.NoError(t, repo.Set(ctx, "schools", []byte("c"), 0))

		n, err := repo.DeleteMatching(ctx, "reservations")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		_, ok, _ := repo.Get(ctx, "schools")
		assert.True(t, ok)
		_, ok, _ = repo.Get(ctx, "user-reservations:1")
		assert.False(t, ok)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "schools"))
		_, ok, _ := repo.Get(ctx, "schools")
		assert.False(t, ok)
	})
}
