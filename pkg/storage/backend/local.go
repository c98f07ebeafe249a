// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/redowanracy/AmazingStorageSystem/pkg/types"
)

func init() {
	Register(types.StorageTypeLocal, NewLocal)
}

// Local implements BackendStorage for the local filesystem
type Local struct {
	basePath string
}

// NewLocal creates a local filesystem backend
func NewLocal(cfg types.BackendConfig) (types.BackendStorage, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path required for local backend")
	}

	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("create base path: %w", err)
	}

	return &Local{basePath: cfg.Path}, nil
}

func (l *Local) Type() types.StorageType {
	return types.StorageTypeLocal
}

func (l *Local) Put(ctx context.Context, name string, data io.Reader, size int64) (string, error) {
	path := filepath.Join(l.basePath, name)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(path) // Clean up on error
		return "", fmt.Errorf("write data: %w", err)
	}

	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("sync: %w", err)
	}

	// The relative name doubles as the remote id for local storage.
	return name, nil
}

func (l *Local) Get(ctx context.Context, remoteID string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.basePath, remoteID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrBlobNotFound, remoteID)
		}
		return nil, err
	}
	return f, nil
}

func (l *Local) Delete(ctx context.Context, remoteID string) (bool, error) {
	err := os.Remove(filepath.Join(l.basePath, remoteID))
	if os.IsNotExist(err) {
		return false, nil // Already gone
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *Local) List(ctx context.Context, prefix string) ([]types.ObjectInfo, error) {
	dir := filepath.Join(l.basePath, prefix)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	infos := make([]types.ObjectInfo, 0, len(entries))
	for _, e := range entries {
		rel := filepath.Join(prefix, e.Name())
		info := types.ObjectInfo{ID: rel, Name: e.Name(), Type: "file"}
		if e.IsDir() {
			info.Type = "folder"
		} else if fi, err := e.Info(); err == nil {
			info.Size = fi.Size()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (l *Local) Close() error {
	return nil
}
