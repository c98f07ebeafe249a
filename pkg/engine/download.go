// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/redowanracy/AmazingStorageSystem/pkg/logger"
	"github.com/redowanracy/AmazingStorageSystem/pkg/types"
	"github.com/redowanracy/AmazingStorageSystem/pkg/utils"
)

// Download reconstructs the current version of a file into dst.
// Chunks are fetched strictly in ascending index order and every
// chunk's hash is verified before its bytes reach dst. Any mismatch
// aborts the download; dst is then incomplete and must be discarded.
func (e *Engine) Download(ctx context.Context, fileID string, dst io.Writer) error {
	m, err := e.manifests.Load(ctx, fileID)
	if err != nil {
		return err
	}
	ManifestOperations.WithLabelValues("load").Inc()

	version := m.CurrentVersion()
	if version == nil {
		return fmt.Errorf("manifest %s has no versions", fileID)
	}

	for _, record := range version.SortedChunks() {
		if err := e.fetchChunk(ctx, m, version, record, dst); err != nil {
			return err
		}
	}

	logger.Ctx(ctx).Info().
		Str("file_id", fileID).
		Str("version_id", version.VersionID).
		Int("chunks", len(version.Chunks)).
		Msg("download complete")
	return nil
}

func (e *Engine) fetchChunk(ctx context.Context, m *types.Manifest, v *types.Version, record types.ChunkRecord, dst io.Writer) error {
	b, ok := e.pool.Get(record.BackendIndex)
	if !ok {
		return &BackendError{Op: "get", BackendIndex: record.BackendIndex, ChunkIndex: record.ChunkIndex, Err: ErrBackendOutOfRange}
	}

	rc, err := b.Get(ctx, record.RemoteID)
	if err != nil {
		return &BackendError{Op: "get", BackendIndex: record.BackendIndex, ChunkIndex: record.ChunkIndex, Err: err}
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return &BackendError{Op: "get", BackendIndex: record.BackendIndex, ChunkIndex: record.ChunkIndex, Err: err}
	}
	ChunkOperations.WithLabelValues("get").Inc()

	h := utils.Sha256PoolGetHasher()
	h.Write(data)
	actual := hex.EncodeToString(h.Sum(nil))
	utils.Sha256PoolPutHasher(h)

	if actual != record.ContentHash {
		IntegrityFailures.Inc()
		return &IntegrityError{
			FileID:     m.FileID,
			VersionID:  v.VersionID,
			ChunkIndex: record.ChunkIndex,
			Expected:   record.ContentHash,
			Actual:     actual,
		}
	}

	if _, err := dst.Write(data); err != nil {
		return fmt.Errorf("write chunk %d: %w", record.ChunkIndex, err)
	}
	DownloadBytes.Add(float64(len(data)))
	return nil
}
