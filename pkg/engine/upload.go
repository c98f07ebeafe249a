// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redowanracy/AmazingStorageSystem/pkg/logger"
	"github.com/redowanracy/AmazingStorageSystem/pkg/manifest"
	"github.com/redowanracy/AmazingStorageSystem/pkg/types"
	"github.com/redowanracy/AmazingStorageSystem/pkg/utils"

	"github.com/google/uuid"
)

// UploadOptions carries the optional inputs of an upload.
type UploadOptions struct {
	// FileID targets an existing file: the upload becomes a new version.
	// When the id is unknown a new file is created instead (logged as a
	// warning, not an error).
	FileID string

	// Notes annotates the new version. Defaults to "Initial version"
	// for a new file, a timestamped update note otherwise.
	Notes string
}

// Upload splits the source stream into chunks, places each chunk on a
// backend chosen by the placement strategy, and commits a new version
// to the manifest only after every chunk is durably stored. On any
// placement failure the chunks placed so far are cleaned up and no
// manifest mutation happens.
func (e *Engine) Upload(ctx context.Context, src io.Reader, filename string, opts UploadOptions) (string, error) {
	m, isNew, err := e.resolveTarget(ctx, filename, opts.FileID)
	if err != nil {
		return "", err
	}

	unlock := e.lockFile(m.FileID)
	defer unlock()

	if !isNew {
		// Re-read under the lock so concurrent version appends to the
		// same file cannot drop each other.
		m, err = e.manifests.Load(ctx, m.FileID)
		if err != nil {
			return "", fmt.Errorf("reload manifest %s: %w", opts.FileID, err)
		}
	}

	records, err := e.placeChunks(ctx, src, m)
	if err != nil {
		return "", err
	}

	notes := opts.Notes
	if notes == "" {
		if isNew {
			notes = "Initial version"
		} else {
			notes = "Updated " + time.Now().Format("2006-01-02 15:04:05")
		}
	}
	versionID := m.AddVersion(records, notes)

	if err := e.manifests.Save(ctx, m); err != nil {
		// The version never became visible; reclaim its chunks.
		e.cleanupChunks(ctx, records)
		return "", fmt.Errorf("persist manifest %s: %w", m.FileID, err)
	}
	ManifestOperations.WithLabelValues("save").Inc()

	logger.Ctx(ctx).Info().
		Str("file_id", m.FileID).
		Str("version_id", versionID).
		Str("filename", m.OriginalFilename).
		Int("chunks", len(records)).
		Int64("bytes", m.TotalSize).
		Bool("new_file", isNew).
		Msg("upload complete")

	return m.FileID, nil
}

// resolveTarget finds the manifest an upload appends to, or builds a
// fresh one. An unknown file id falls back to creating a new file.
func (e *Engine) resolveTarget(ctx context.Context, filename, fileID string) (*types.Manifest, bool, error) {
	if fileID != "" {
		m, err := e.manifests.Load(ctx, fileID)
		if err == nil {
			return m, false, nil
		}
		if !errors.Is(err, manifest.ErrNotFound) {
			return nil, false, fmt.Errorf("load manifest %s: %w", fileID, err)
		}
		logger.Ctx(ctx).Warn().
			Str("file_id", fileID).
			Msg("file id not found, creating new file instead")
	}
	return types.NewManifest(filename, e.chunkSize), true, nil
}

// placeChunks reads the source in fixed-size windows and places each
// window on its backend. A zero-byte source yields exactly one
// zero-length chunk so empty files round-trip. On failure every chunk
// placed during this attempt is cleaned up.
func (e *Engine) placeChunks(ctx context.Context, src io.Reader, m *types.Manifest) ([]types.ChunkRecord, error) {
	// Versions of one file always split at the size its manifest records.
	chunkSize := m.ChunkSize
	if chunkSize <= 0 {
		chunkSize = e.chunkSize
	}

	// Each attempt names its chunks under a fresh upload id, so placements
	// can never collide with a committed version's blobs or with a
	// concurrent attempt. Adapters echo the requested name as the remote
	// id, making the name the sole uniqueness guarantee.
	uploadID := uuid.NewString()

	var records []types.ChunkRecord
	buf := make([]byte, chunkSize)

	for chunkIdx := 0; ; chunkIdx++ {
		n, readErr := io.ReadFull(src, buf)
		if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
			e.cleanupChunks(ctx, records)
			return nil, fmt.Errorf("read source: %w", readErr)
		}
		if n == 0 && chunkIdx > 0 {
			break
		}

		record, err := e.placeChunk(ctx, m.FileID, uploadID, chunkIdx, buf[:n])
		if err != nil {
			e.cleanupChunks(ctx, records)
			return nil, err
		}
		records = append(records, *record)

		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
	}

	return records, nil
}

// placeChunk hashes one window and puts it on the backend the
// placement strategy assigns. The hash is computed before the network
// call, so a later mismatch can only mean backend-side corruption.
func (e *Engine) placeChunk(ctx context.Context, fileID, uploadID string, chunkIdx int, data []byte) (*types.ChunkRecord, error) {
	h := utils.Sha256PoolGetHasher()
	h.Write(data)
	contentHash := hex.EncodeToString(h.Sum(nil))
	utils.Sha256PoolPutHasher(h)

	backendIdx := e.placer.BackendFor(chunkIdx)
	b, ok := e.pool.Get(backendIdx)
	if !ok {
		return nil, &BackendError{Op: "put", BackendIndex: backendIdx, ChunkIndex: chunkIdx, Err: ErrBackendOutOfRange}
	}

	name := fmt.Sprintf("%s_%s_chunk_%d", fileID, uploadID, chunkIdx)
	remoteID, err := b.Put(ctx, name, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &BackendError{Op: "put", BackendIndex: backendIdx, ChunkIndex: chunkIdx, Err: err}
	}

	ChunkOperations.WithLabelValues("put").Inc()
	UploadBytes.Add(float64(len(data)))

	logger.Ctx(ctx).Debug().
		Str("file_id", fileID).
		Int("chunk_index", chunkIdx).
		Int("backend_index", backendIdx).
		Int("bytes", len(data)).
		Msg("placed chunk")

	return &types.ChunkRecord{
		ChunkIndex:   chunkIdx,
		BackendIndex: backendIdx,
		RemoteID:     remoteID,
		SizeBytes:    int64(len(data)),
		ContentHash:  contentHash,
	}, nil
}
