// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest provides durable persistence for file manifests,
// keyed by file id. Implementations must preserve the versioned JSON
// schema defined in pkg/types.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redowanracy/AmazingStorageSystem/pkg/types"
)

// ErrNotFound is returned by Load when no manifest exists for a file id.
var ErrNotFound = errors.New("manifest not found")

// Store is the manifest persistence boundary.
type Store interface {
	io.Closer

	// Save persists a manifest, overwriting any prior record for its file id.
	Save(ctx context.Context, m *types.Manifest) error

	// Load retrieves a manifest. Returns an error wrapping ErrNotFound
	// when absent.
	Load(ctx context.Context, fileID string) (*types.Manifest, error)

	// Delete removes a manifest record. Returns false when no record
	// existed; deletion is idempotent.
	Delete(ctx context.Context, fileID string) (bool, error)

	// ListIDs returns every stored file id.
	ListIDs(ctx context.Context) ([]string, error)
}

// Open constructs a Store from configuration, optionally wrapped in a
// redis read-through cache.
func Open(cfg types.ManifestStoreConfig, cache types.CacheConfig) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Kind {
	case types.ManifestStoreLocalDir:
		store, err = NewLocalDirStore(cfg.Path)
	case types.ManifestStoreLevelDB:
		store, err = NewLevelDBStore(cfg.Path)
	case types.ManifestStorePostgres:
		store, err = NewPostgresStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown manifest store kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}

	if cache.Enabled {
		return NewCachedStore(store, cache)
	}
	return store, nil
}
