// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"errors"
	"fmt"
)

// ErrNoBackends means the engine was constructed with zero storage
// backends. Fatal configuration error: nothing can be placed or fetched.
var ErrNoBackends = errors.New("no storage backends configured")

// ErrVersionNotFound means a restore named a version id the manifest
// does not contain.
var ErrVersionNotFound = errors.New("version not found")

// ErrBackendOutOfRange means a chunk record points past the end of the
// configured backend list. The backend configuration changed since
// upload; a hard consistency error, never silently skipped.
var ErrBackendOutOfRange = errors.New("backend index out of range")

// IntegrityError reports a chunk whose recomputed hash does not match
// the manifest. The output written so far must be discarded.
type IntegrityError struct {
	FileID     string
	VersionID  string
	ChunkIndex int
	Expected   string
	Actual     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("chunk %d of file %s (version %s): hash mismatch: expected %s, got %s",
		e.ChunkIndex, e.FileID, e.VersionID, e.Expected, e.Actual)
}

// BackendError wraps a put/get/delete failure from a specific backend,
// identifying the backend position and chunk involved.
type BackendError struct {
	Op           string // "put", "get", "delete"
	BackendIndex int
	ChunkIndex   int
	Err          error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s chunk %d on backend %d: %v", e.Op, e.ChunkIndex, e.BackendIndex, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// ChunkFailure records one chunk that could not be deleted.
type ChunkFailure struct {
	VersionID    string
	ChunkIndex   int
	BackendIndex int
	RemoteID     string
	Err          error
}

// DeleteResult reports the outcome of a file deletion. Deletion is
// best-effort across chunks, so a partial outcome is a value the
// caller inspects, not an error.
type DeleteResult struct {
	Found           bool // False when the file id had no manifest (no-op success)
	ChunksDeleted   int
	ChunkFailures   []ChunkFailure
	ManifestDeleted bool
}

// Partial reports whether some physical resources may remain stranded.
func (r *DeleteResult) Partial() bool {
	return r.Found && (len(r.ChunkFailures) > 0 || !r.ManifestDeleted)
}
