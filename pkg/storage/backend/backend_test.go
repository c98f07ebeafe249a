// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/redowanracy/AmazingStorageSystem/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runBackendConformance exercises the BackendStorage contract every
// adapter must satisfy.
func runBackendConformance(t *testing.T, b types.BackendStorage) {
	t.Helper()
	ctx := context.Background()

	payload := []byte("chunk payload bytes")

	remoteID, err := b.Put(ctx, "file-1_chunk_0_1700000000", bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
	require.NotEmpty(t, remoteID)

	// Get returns the stored bytes.
	rc, err := b.Get(ctx, remoteID)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, payload, got)

	// Unknown ids surface the typed not-found error.
	_, err = b.Get(ctx, "does-not-exist")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBlobNotFound)

	// List sees the object.
	infos, err := b.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.EqualValues(t, len(payload), infos[0].Size)

	// Delete is idempotent by contract.
	existed, err := b.Delete(ctx, remoteID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = b.Delete(ctx, remoteID)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = b.Get(ctx, remoteID)
	assert.ErrorIs(t, err, types.ErrBlobNotFound)
}

func TestMemoryStorage_Conformance(t *testing.T) {
	t.Parallel()
	runBackendConformance(t, NewMemoryStorage())
}

func TestLocal_Conformance(t *testing.T) {
	t.Parallel()

	b, err := NewLocal(types.BackendConfig{Type: types.StorageTypeLocal, Path: t.TempDir()})
	require.NoError(t, err)
	runBackendConformance(t, b)
}

func TestLocal_SizeInfo(t *testing.T) {
	t.Parallel()

	b, err := NewLocal(types.BackendConfig{Type: types.StorageTypeLocal, Path: t.TempDir()})
	require.NoError(t, err)

	total, used, err := b.SizeInfo(context.Background())
	require.NoError(t, err)
	assert.Greater(t, total, uint64(0))
	assert.LessOrEqual(t, used, total)
}

func TestNewLocal_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := NewLocal(types.BackendConfig{Type: types.StorageTypeLocal})
	require.Error(t, err)
}

// ============================================================================
// Pool
// ============================================================================

func TestNewPool_PreservesOrder(t *testing.T) {
	t.Parallel()

	pool, err := NewPool([]types.BackendConfig{
		{Type: StorageTypeMemory},
		{Type: types.StorageTypeLocal, Path: t.TempDir()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.Equal(t, 2, pool.Len())

	first, ok := pool.Get(0)
	require.True(t, ok)
	assert.Equal(t, StorageTypeMemory, first.Type())

	second, ok := pool.Get(1)
	require.True(t, ok)
	assert.Equal(t, types.StorageTypeLocal, second.Type())
}

func TestNewPool_UnknownTypeFails(t *testing.T) {
	t.Parallel()

	_, err := NewPool([]types.BackendConfig{{Type: "carrier-pigeon"}})
	require.Error(t, err)
}

func TestPool_GetOutOfRange(t *testing.T) {
	t.Parallel()

	pool := NewPoolFromStorages(NewMemoryStorage())

	_, ok := pool.Get(1)
	assert.False(t, ok)
	_, ok = pool.Get(-1)
	assert.False(t, ok)
}
