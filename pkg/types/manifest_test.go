// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChunks(n int) []ChunkRecord {
	chunks := make([]ChunkRecord, n)
	for i := range chunks {
		chunks[i] = ChunkRecord{
			ChunkIndex:   i,
			BackendIndex: i % 2,
			RemoteID:     "remote-" + string(rune('a'+i)),
			SizeBytes:    4,
			ContentHash:  "deadbeef",
		}
	}
	return chunks
}

func TestManifest_AddVersion(t *testing.T) {
	t.Parallel()

	m := NewManifest("report.pdf", 1024)
	require.NotEmpty(t, m.FileID)

	v1 := m.AddVersion(testChunks(3), "Initial version")
	v2 := m.AddVersion(testChunks(2), "smaller now")

	require.Len(t, m.Versions, 2)
	assert.NotEqual(t, v1, v2)
	assert.False(t, m.Versions[0].IsCurrent)
	assert.True(t, m.Versions[1].IsCurrent)
	assert.EqualValues(t, 8, m.TotalSize)
	require.NoError(t, m.Validate())
}

func TestManifest_CurrentVersionFallback(t *testing.T) {
	t.Parallel()

	m := NewManifest("f", 16)
	m.AddVersion(testChunks(1), "")
	m.AddVersion(testChunks(1), "")

	// Simulate older persisted data where no version carries the flag.
	for i := range m.Versions {
		m.Versions[i].IsCurrent = false
	}

	current := m.CurrentVersion()
	require.NotNil(t, current)
	assert.Equal(t, m.Versions[1].VersionID, current.VersionID)
}

func TestManifest_SetCurrentVersion(t *testing.T) {
	t.Parallel()

	m := NewManifest("f", 16)
	m.AddVersion(testChunks(2), "")
	m.AddVersion(testChunks(3), "")
	first := m.Versions[0].VersionID

	require.True(t, m.SetCurrentVersion(first))
	assert.True(t, m.Versions[0].IsCurrent)
	assert.False(t, m.Versions[1].IsCurrent)
	assert.EqualValues(t, 8, m.TotalSize)

	assert.False(t, m.SetCurrentVersion("unknown-version"))
	// A failed restore must not disturb the current flag.
	assert.True(t, m.Versions[0].IsCurrent)
}

func TestManifest_SortedChunks(t *testing.T) {
	t.Parallel()

	v := Version{Chunks: []ChunkRecord{
		{ChunkIndex: 2}, {ChunkIndex: 0}, {ChunkIndex: 1},
	}}

	sorted := v.SortedChunks()
	for i, c := range sorted {
		assert.Equal(t, i, c.ChunkIndex)
	}
	// The manifest's own order is untouched.
	assert.Equal(t, 2, v.Chunks[0].ChunkIndex)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewManifest("photo.jpg", 512)
	m.AddVersion(testChunks(4), "Initial version")

	data, err := EncodeManifest(m)
	require.NoError(t, err)

	got, err := DecodeManifest(data)
	require.NoError(t, err)
	assert.Equal(t, m.FileID, got.FileID)
	assert.Equal(t, m.OriginalFilename, got.OriginalFilename)
	assert.Equal(t, ManifestSchemaVersion, got.SchemaVersion)
	require.Len(t, got.Versions, 1)
	assert.Equal(t, m.Versions[0].Chunks, got.Versions[0].Chunks)
}

func TestDecodeManifest_MigratesLegacyShape(t *testing.T) {
	t.Parallel()

	// Schema v1: flat chunks list, no version history.
	legacy := []byte(`{
		"file_id": "legacy-1",
		"original_filename": "old.dat",
		"total_size": 8,
		"chunk_size": 4,
		"created_at": 1600000000,
		"updated_at": 1600000100,
		"chunks": [
			{"chunk_index": 0, "backend_index": 0, "remote_id": "r0", "size_bytes": 4, "content_hash": "aa"},
			{"chunk_index": 1, "backend_index": 1, "remote_id": "r1", "size_bytes": 4, "content_hash": "bb"}
		]
	}`)

	m, err := DecodeManifest(legacy)
	require.NoError(t, err)
	require.Len(t, m.Versions, 1)

	v := m.CurrentVersion()
	require.NotNil(t, v)
	assert.True(t, v.IsCurrent)
	assert.NotEmpty(t, v.VersionID)
	require.Len(t, v.Chunks, 2)
	assert.Equal(t, "r1", v.Chunks[1].RemoteID)
	assert.Equal(t, ManifestSchemaVersion, m.SchemaVersion)
}

func TestDecodeManifest_RejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{broken`},
		{"missing file_id", `{"original_filename":"f","chunk_size":4,"versions":[{"version_id":"v","chunks":[]}]}`},
		{"no versions", `{"file_id":"x","original_filename":"f","chunk_size":4}`},
		{"gap in chunk indices", `{"file_id":"x","original_filename":"f","chunk_size":4,
			"versions":[{"version_id":"v","is_current":true,"chunks":[
				{"chunk_index":0,"backend_index":0,"remote_id":"r0","size_bytes":4,"content_hash":"aa"},
				{"chunk_index":2,"backend_index":0,"remote_id":"r2","size_bytes":4,"content_hash":"cc"}
			]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeManifest([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestAppConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := AppConfig{
		Buckets: []BackendConfig{
			{Type: StorageTypeLocal, Path: "/tmp/a"},
			{Type: StorageTypeS3, Bucket: "b"},
		},
		ChunkSize: DefaultChunkSize,
		Manifest:  ManifestStoreConfig{Kind: ManifestStoreLocalDir, Path: "metadata"},
	}
	require.NoError(t, valid.Validate())

	missingPath := valid
	missingPath.Buckets = []BackendConfig{{Type: StorageTypeLocal}}
	require.Error(t, missingPath.Validate())

	badChunk := valid
	badChunk.ChunkSize = -1
	require.Error(t, badChunk.Validate())

	encNoKey := valid
	encNoKey.EncryptionEnabled = true
	require.Error(t, encNoKey.Validate())
}
