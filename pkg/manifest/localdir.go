// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redowanracy/AmazingStorageSystem/pkg/types"
)

// LocalDirStore keeps one JSON document per manifest in a local
// directory. This is the reference encoding: human-readable and
// trivially inspectable.
type LocalDirStore struct {
	dir string
}

// NewLocalDirStore creates the metadata directory if needed
func NewLocalDirStore(dir string) (*LocalDirStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("metadata directory required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create metadata dir: %w", err)
	}
	return &LocalDirStore{dir: dir}, nil
}

// manifestPath maps a file id to its document path. File ids are
// restricted to uuid-safe characters to rule out path traversal.
func (s *LocalDirStore) manifestPath(fileID string) (string, error) {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, fileID)
	if safe == "" || safe != fileID {
		return "", fmt.Errorf("invalid file id %q", fileID)
	}
	return filepath.Join(s.dir, safe+".json"), nil
}

func (s *LocalDirStore) Save(ctx context.Context, m *types.Manifest) error {
	path, err := s.manifestPath(m.FileID)
	if err != nil {
		return err
	}

	data, err := types.EncodeManifest(m)
	if err != nil {
		return fmt.Errorf("encode manifest %s: %w", m.FileID, err)
	}

	// Write-then-rename so a crash never leaves a torn document behind.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write manifest %s: %w", m.FileID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename manifest %s: %w", m.FileID, err)
	}
	return nil
}

func (s *LocalDirStore) Load(ctx context.Context, fileID string) (*types.Manifest, error) {
	path, err := s.manifestPath(fileID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("read manifest %s: %w", fileID, err)
	}

	return types.DecodeManifest(data)
}

func (s *LocalDirStore) Delete(ctx context.Context, fileID string) (bool, error) {
	path, err := s.manifestPath(fileID)
	if err != nil {
		return false, err
	}

	err = os.Remove(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete manifest %s: %w", fileID, err)
	}
	return true, nil
}

func (s *LocalDirStore) ListIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list metadata dir: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		// Stale ".json.tmp" leftovers from interrupted writes are not
		// manifests; neither is anything else without the store suffix.
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (s *LocalDirStore) Close() error {
	return nil
}
