// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/redowanracy/AmazingStorageSystem/pkg/logger"
	"github.com/redowanracy/AmazingStorageSystem/pkg/manifest"
	"github.com/redowanracy/AmazingStorageSystem/pkg/types"
)

// Delete removes a file: every chunk of every version, then the
// manifest itself. Chunk deletion is best-effort: per-chunk failures
// are recorded and the loop continues, maximizing reclaimed storage.
// Deleting an unknown file id is a no-op success.
func (e *Engine) Delete(ctx context.Context, fileID string) (*DeleteResult, error) {
	unlock := e.lockFile(fileID)
	defer unlock()

	result := &DeleteResult{}

	m, err := e.manifests.Load(ctx, fileID)
	if err != nil {
		if errors.Is(err, manifest.ErrNotFound) {
			logger.Ctx(ctx).Info().Str("file_id", fileID).Msg("delete of unknown file id, nothing to do")
			return result, nil
		}
		return nil, fmt.Errorf("load manifest %s: %w", fileID, err)
	}
	result.Found = true

	// All historical chunks are physical resources; reclaim every
	// version, not just the current one.
	for vi := range m.Versions {
		v := &m.Versions[vi]
		for _, record := range v.Chunks {
			if err := e.deleteChunk(ctx, record); err != nil {
				result.ChunkFailures = append(result.ChunkFailures, ChunkFailure{
					VersionID:    v.VersionID,
					ChunkIndex:   record.ChunkIndex,
					BackendIndex: record.BackendIndex,
					RemoteID:     record.RemoteID,
					Err:          err,
				})
				logger.Ctx(ctx).Warn().Err(err).
					Str("file_id", fileID).
					Str("version_id", v.VersionID).
					Int("chunk_index", record.ChunkIndex).
					Msg("failed to delete chunk")
				continue
			}
			result.ChunksDeleted++
		}
	}

	// Manifest last: the file stops being listable even when some
	// bytes remain stranded at a backend.
	if _, err := e.manifests.Delete(ctx, fileID); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("file_id", fileID).Msg("failed to delete manifest")
	} else {
		result.ManifestDeleted = true
		ManifestOperations.WithLabelValues("delete").Inc()
	}

	logger.Ctx(ctx).Info().
		Str("file_id", fileID).
		Int("chunks_deleted", result.ChunksDeleted).
		Int("chunk_failures", len(result.ChunkFailures)).
		Bool("partial", result.Partial()).
		Msg("delete complete")
	return result, nil
}

// deleteChunk removes one chunk from its backend. An out-of-range
// backend index is a failure here (the bytes cannot be reached), not
// a silent skip.
func (e *Engine) deleteChunk(ctx context.Context, record types.ChunkRecord) error {
	b, ok := e.pool.Get(record.BackendIndex)
	if !ok {
		return &BackendError{Op: "delete", BackendIndex: record.BackendIndex, ChunkIndex: record.ChunkIndex, Err: ErrBackendOutOfRange}
	}
	if _, err := b.Delete(ctx, record.RemoteID); err != nil {
		return &BackendError{Op: "delete", BackendIndex: record.BackendIndex, ChunkIndex: record.ChunkIndex, Err: err}
	}
	ChunkOperations.WithLabelValues("delete").Inc()
	return nil
}

// cleanupChunks reclaims chunks placed during a failed upload attempt.
// Best-effort secondary operation: failures are logged, never
// re-raised, since the chunks are already orphaned.
func (e *Engine) cleanupChunks(ctx context.Context, records []types.ChunkRecord) {
	if len(records) == 0 {
		return
	}
	logger.Ctx(ctx).Warn().Int("chunks", len(records)).Msg("cleaning up chunks from failed upload")

	for _, record := range records {
		if err := e.deleteChunk(ctx, record); err != nil {
			logger.Ctx(ctx).Warn().Err(err).
				Int("chunk_index", record.ChunkIndex).
				Int("backend_index", record.BackendIndex).
				Msg("cleanup failed for chunk")
			continue
		}
		ChunkOperations.WithLabelValues("cleanup").Inc()
	}
}
