// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redowanracy/AmazingStorageSystem/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Store conformance
// ============================================================================

func testManifest(t *testing.T, filename string) *types.Manifest {
	t.Helper()

	m := types.NewManifest(filename, 4)
	m.AddVersion([]types.ChunkRecord{
		{ChunkIndex: 0, BackendIndex: 0, RemoteID: "r0", SizeBytes: 4, ContentHash: "aa"},
		{ChunkIndex: 1, BackendIndex: 1, RemoteID: "r1", SizeBytes: 2, ContentHash: "bb"},
	}, "Initial version")
	return m
}

func runStoreConformance(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	// Load of an unknown id reports NotFound.
	_, err := store.Load(ctx, "missing-id")
	require.ErrorIs(t, err, ErrNotFound)

	// Save / Load round-trip.
	m := testManifest(t, "a.txt")
	require.NoError(t, store.Save(ctx, m))

	got, err := store.Load(ctx, m.FileID)
	require.NoError(t, err)
	assert.Equal(t, m.FileID, got.FileID)
	assert.Equal(t, "a.txt", got.OriginalFilename)
	require.Len(t, got.Versions, 1)
	assert.Equal(t, m.Versions[0].Chunks, got.Versions[0].Chunks)

	// Overwrite with a second version.
	m.AddVersion([]types.ChunkRecord{
		{ChunkIndex: 0, BackendIndex: 0, RemoteID: "r2", SizeBytes: 1, ContentHash: "cc"},
	}, "v2")
	require.NoError(t, store.Save(ctx, m))

	got, err = store.Load(ctx, m.FileID)
	require.NoError(t, err)
	assert.Len(t, got.Versions, 2)

	// Listing sees exactly the stored ids.
	other := testManifest(t, "b.txt")
	require.NoError(t, store.Save(ctx, other))

	ids, err := store.ListIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{m.FileID, other.FileID}, ids)

	// Delete is idempotent.
	existed, err := store.Delete(ctx, m.FileID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.Delete(ctx, m.FileID)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = store.Load(ctx, m.FileID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Conformance(t *testing.T) {
	t.Parallel()
	runStoreConformance(t, NewMemoryStore())
}

func TestLocalDirStore_Conformance(t *testing.T) {
	t.Parallel()

	store, err := NewLocalDirStore(t.TempDir())
	require.NoError(t, err)
	runStoreConformance(t, store)
}

func TestLevelDBStore_Conformance(t *testing.T) {
	t.Parallel()

	store, err := NewLevelDBStore(filepath.Join(t.TempDir(), "manifests"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	runStoreConformance(t, store)
}

// ============================================================================
// LocalDirStore specifics
// ============================================================================

func TestLocalDirStore_RejectsUnsafeFileID(t *testing.T) {
	t.Parallel()

	store, err := NewLocalDirStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "../../etc/passwd")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLocalDirStore_LoadsLegacyDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalDirStore(dir)
	require.NoError(t, err)

	legacy := []byte(`{
		"file_id": "legacy-file",
		"original_filename": "old.bin",
		"total_size": 4,
		"chunk_size": 4,
		"chunks": [
			{"chunk_index": 0, "backend_index": 0, "remote_id": "r0", "size_bytes": 4, "content_hash": "aa"}
		]
	}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "legacy-file.json"), legacy, 0644))

	m, err := store.Load(context.Background(), "legacy-file")
	require.NoError(t, err)
	require.Len(t, m.Versions, 1)
	assert.True(t, m.Versions[0].IsCurrent)
}

func TestLocalDirStore_ListSkipsForeignFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalDirStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.json.tmp"), []byte("{"), 0644))
	m := testManifest(t, "real.txt")
	require.NoError(t, store.Save(context.Background(), m))

	ids, err := store.ListIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{m.FileID}, ids)
}
