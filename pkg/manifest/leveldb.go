// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"fmt"

	"github.com/redowanracy/AmazingStorageSystem/pkg/types"

	"github.com/syndtr/goleveldb/leveldb"
	lverrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDBStore persists manifests in an embedded LevelDB database,
// one key per file id with the JSON document as value. Suited to
// deployments with many files where a directory of JSON documents
// becomes unwieldy.
type LevelDBStore struct {
	db *leveldb.DB

	// Manifest mutations are the commit point of an upload, so every
	// write goes out with fsync.
	writeOpts *opt.WriteOptions
}

// NewLevelDBStore opens (or recovers) the database at dir
func NewLevelDBStore(dir string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if lverrors.IsCorrupted(err) {
		db, err = leveldb.RecoverFile(dir, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("open manifest db: %w", err)
	}

	return &LevelDBStore{
		db:        db,
		writeOpts: &opt.WriteOptions{Sync: true},
	}, nil
}

func (s *LevelDBStore) Save(ctx context.Context, m *types.Manifest) error {
	data, err := types.EncodeManifest(m)
	if err != nil {
		return fmt.Errorf("encode manifest %s: %w", m.FileID, err)
	}
	return s.db.Put([]byte(m.FileID), data, s.writeOpts)
}

func (s *LevelDBStore) Load(ctx context.Context, fileID string) (*types.Manifest, error) {
	data, err := s.db.Get([]byte(fileID), nil)
	if err == leveldb.ErrNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, fileID)
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", fileID, err)
	}
	return types.DecodeManifest(data)
}

func (s *LevelDBStore) Delete(ctx context.Context, fileID string) (bool, error) {
	key := []byte(fileID)
	has, err := s.db.Has(key, nil)
	if err != nil {
		return false, fmt.Errorf("check manifest %s: %w", fileID, err)
	}
	if !has {
		return false, nil
	}
	if err := s.db.Delete(key, s.writeOpts); err != nil {
		return false, fmt.Errorf("delete manifest %s: %w", fileID, err)
	}
	return true, nil
}

func (s *LevelDBStore) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	for iter.Next() {
		ids = append(ids, string(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate manifests: %w", err)
	}
	return ids, nil
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
