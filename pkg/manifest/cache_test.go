// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCachedStore(t *testing.T) (*CachedStore, *MemoryStore, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := NewMemoryStore()
	return NewCachedStoreWithClient(inner, client), inner, s
}

func TestCachedStore_ReadThrough(t *testing.T) {
	cached, inner, mr := setupCachedStore(t)
	ctx := context.Background()

	m := testManifest(t, "cached.txt")
	require.NoError(t, inner.Save(ctx, m))

	// First load misses the cache and fills it.
	got, err := cached.Load(ctx, m.FileID)
	require.NoError(t, err)
	assert.Equal(t, m.FileID, got.FileID)
	assert.True(t, mr.Exists(cacheKey(m.FileID)))

	// Second load is served from the cache even when the inner store
	// loses the record.
	_, err = inner.Delete(ctx, m.FileID)
	require.NoError(t, err)

	got, err = cached.Load(ctx, m.FileID)
	require.NoError(t, err)
	assert.Equal(t, m.FileID, got.FileID)
}

func TestCachedStore_SavePopulatesCache(t *testing.T) {
	cached, _, mr := setupCachedStore(t)
	ctx := context.Background()

	m := testManifest(t, "saved.txt")
	require.NoError(t, cached.Save(ctx, m))
	assert.True(t, mr.Exists(cacheKey(m.FileID)))
}

func TestCachedStore_DeleteInvalidates(t *testing.T) {
	cached, _, mr := setupCachedStore(t)
	ctx := context.Background()

	m := testManifest(t, "gone.txt")
	require.NoError(t, cached.Save(ctx, m))
	require.True(t, mr.Exists(cacheKey(m.FileID)))

	existed, err := cached.Delete(ctx, m.FileID)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.False(t, mr.Exists(cacheKey(m.FileID)))

	_, err = cached.Load(ctx, m.FileID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedStore_PoisonedEntryFallsBack(t *testing.T) {
	cached, inner, mr := setupCachedStore(t)
	ctx := context.Background()

	m := testManifest(t, "real.txt")
	require.NoError(t, inner.Save(ctx, m))

	// Garbage in the cache must not mask the durable record.
	require.NoError(t, mr.Set(cacheKey(m.FileID), "{broken"))

	got, err := cached.Load(ctx, m.FileID)
	require.NoError(t, err)
	assert.Equal(t, m.FileID, got.FileID)
}
