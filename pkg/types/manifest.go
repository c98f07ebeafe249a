// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DefaultChunkSize is the split size used when none is configured (5MB)
const DefaultChunkSize = 5 * 1024 * 1024

// ManifestSchemaVersion is the current on-disk manifest schema.
// Version 1 documents carried a flat `chunks` list and no version
// history; they are migrated on load, see DecodeManifest.
const ManifestSchemaVersion = 2

// ChunkRecord describes one physical chunk of one version.
type ChunkRecord struct {
	ChunkIndex   int    `json:"chunk_index"`   // 0-based position within the version
	BackendIndex int    `json:"backend_index"` // Index into the ordered backend list at upload time
	RemoteID     string `json:"remote_id"`     // Identifier returned by the backend on put
	SizeBytes    int64  `json:"size_bytes"`
	ContentHash  string `json:"content_hash"` // Hex SHA-256 of the chunk plaintext
}

// Version is one upload event of a logical file. Immutable once created
// except for the IsCurrent flag.
type Version struct {
	VersionID string        `json:"version_id"`
	CreatedAt int64         `json:"created_at"` // Unix seconds
	IsCurrent bool          `json:"is_current"`
	Notes     string        `json:"notes,omitempty"`
	Chunks    []ChunkRecord `json:"chunks"`
}

// SortedChunks returns the version's chunk records in ascending index
// order. Persistence order must not be relied upon for reassembly.
func (v *Version) SortedChunks() []ChunkRecord {
	chunks := make([]ChunkRecord, len(v.Chunks))
	copy(chunks, v.Chunks)
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})
	return chunks
}

// TotalBytes returns the summed size of the version's chunks.
func (v *Version) TotalBytes() int64 {
	var total int64
	for _, c := range v.Chunks {
		total += c.SizeBytes
	}
	return total
}

// Manifest is the durable identity of one logical file: metadata plus
// the append-only version history.
type Manifest struct {
	SchemaVersion    int       `json:"schema_version"`
	FileID           string    `json:"file_id"`
	OriginalFilename string    `json:"original_filename"`
	TotalSize        int64     `json:"total_size"` // Bytes of the current version
	ChunkSize        int64     `json:"chunk_size"` // Split size used for this file
	CreatedAt        int64     `json:"created_at"` // Unix seconds
	UpdatedAt        int64     `json:"updated_at"`
	Versions         []Version `json:"versions"`
}

// NewManifest creates a manifest for a new logical file with a fresh id.
func NewManifest(originalFilename string, chunkSize int64) *Manifest {
	now := time.Now().Unix()
	return &Manifest{
		SchemaVersion:    ManifestSchemaVersion,
		FileID:           NewFileID(),
		OriginalFilename: originalFilename,
		ChunkSize:        chunkSize,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NewFileID generates a unique file identifier. Never reused.
func NewFileID() string {
	return uuid.NewString()
}

// AddVersion appends a new version holding the given chunk records,
// marks every prior version non-current, and bumps the manifest's
// total size and updated timestamp. Returns the new version id.
func (m *Manifest) AddVersion(chunks []ChunkRecord, notes string) string {
	for i := range m.Versions {
		m.Versions[i].IsCurrent = false
	}

	v := Version{
		VersionID: uuid.NewString(),
		CreatedAt: time.Now().Unix(),
		IsCurrent: true,
		Notes:     notes,
		Chunks:    chunks,
	}
	m.Versions = append(m.Versions, v)
	m.TotalSize = v.TotalBytes()
	m.UpdatedAt = v.CreatedAt
	return v.VersionID
}

// CurrentVersion returns the version flagged current, falling back to
// the most recent entry when the flag is inconsistent in older data.
// Returns nil only for a manifest with no versions.
func (m *Manifest) CurrentVersion() *Version {
	for i := range m.Versions {
		if m.Versions[i].IsCurrent {
			return &m.Versions[i]
		}
	}
	if len(m.Versions) == 0 {
		return nil
	}
	return &m.Versions[len(m.Versions)-1]
}

// FindVersion returns the version with the given id, or nil.
func (m *Manifest) FindVersion(versionID string) *Version {
	for i := range m.Versions {
		if m.Versions[i].VersionID == versionID {
			return &m.Versions[i]
		}
	}
	return nil
}

// SetCurrentVersion flips the current flag to the named version.
// Pure metadata operation: chunk records are untouched. Returns false
// when the version id is unknown.
func (m *Manifest) SetCurrentVersion(versionID string) bool {
	target := m.FindVersion(versionID)
	if target == nil {
		return false
	}
	for i := range m.Versions {
		m.Versions[i].IsCurrent = m.Versions[i].VersionID == versionID
	}
	m.TotalSize = target.TotalBytes()
	m.UpdatedAt = time.Now().Unix()
	return true
}

// Validate checks the invariants a persisted manifest must hold.
func (m *Manifest) Validate() error {
	if m.FileID == "" {
		return fmt.Errorf("manifest missing file_id")
	}
	if m.OriginalFilename == "" {
		return fmt.Errorf("manifest %s missing original_filename", m.FileID)
	}
	if m.ChunkSize <= 0 {
		return fmt.Errorf("manifest %s has invalid chunk_size %d", m.FileID, m.ChunkSize)
	}
	if len(m.Versions) == 0 {
		return fmt.Errorf("manifest %s has no versions", m.FileID)
	}
	current := 0
	for i := range m.Versions {
		v := &m.Versions[i]
		if v.VersionID == "" {
			return fmt.Errorf("manifest %s: version %d missing version_id", m.FileID, i)
		}
		if v.IsCurrent {
			current++
		}
		for j, c := range v.SortedChunks() {
			if c.ChunkIndex != j {
				return fmt.Errorf("manifest %s version %s: chunk indices not contiguous at %d",
					m.FileID, v.VersionID, j)
			}
		}
	}
	if current > 1 {
		return fmt.Errorf("manifest %s has %d current versions", m.FileID, current)
	}
	return nil
}

// manifestDocument mirrors every field that has ever appeared in a
// persisted manifest, across schema versions.
type manifestDocument struct {
	SchemaVersion    int           `json:"schema_version"`
	FileID           string        `json:"file_id"`
	OriginalFilename string        `json:"original_filename"`
	TotalSize        int64         `json:"total_size"`
	ChunkSize        int64         `json:"chunk_size"`
	CreatedAt        int64         `json:"created_at"`
	UpdatedAt        int64         `json:"updated_at"`
	Versions         []Version     `json:"versions"`
	Chunks           []ChunkRecord `json:"chunks"` // Schema v1 only
}

// EncodeManifest serializes a manifest at the current schema version.
func EncodeManifest(m *Manifest) ([]byte, error) {
	m.SchemaVersion = ManifestSchemaVersion
	return json.MarshalIndent(m, "", "  ")
}

// DecodeManifest deserializes a manifest, migrating legacy documents in
// one step: a v1 record carrying a flat `chunks` list and no version
// history is upgraded into a single synthetic current version.
func DecodeManifest(data []byte) (*Manifest, error) {
	var doc manifestDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	m := &Manifest{
		SchemaVersion:    ManifestSchemaVersion,
		FileID:           doc.FileID,
		OriginalFilename: doc.OriginalFilename,
		TotalSize:        doc.TotalSize,
		ChunkSize:        doc.ChunkSize,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
		Versions:         doc.Versions,
	}

	if len(doc.Versions) == 0 && len(doc.Chunks) > 0 {
		m.Versions = []Version{{
			VersionID: uuid.NewString(),
			CreatedAt: doc.UpdatedAt,
			IsCurrent: true,
			Notes:     "Migrated from legacy manifest format",
			Chunks:    doc.Chunks,
		}}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
