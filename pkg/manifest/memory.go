// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/redowanracy/AmazingStorageSystem/pkg/types"
)

// MemoryStore is an in-memory Store for testing. Documents are stored
// encoded so tests exercise the same serialization path as durable
// stores.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Save(ctx context.Context, m *types.Manifest) error {
	data, err := types.EncodeManifest(m)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[m.FileID] = data
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, fileID string) (*types.Manifest, error) {
	s.mu.RLock()
	data, ok := s.data[fileID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, fileID)
	}
	return types.DecodeManifest(data)
}

func (s *MemoryStore) Delete(ctx context.Context, fileID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.data[fileID]
	delete(s.data, fileID)
	return ok, nil
}

func (s *MemoryStore) ListIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Put stores a raw document verbatim. Test helper for seeding legacy
// or corrupt records.
func (s *MemoryStore) Put(fileID string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[fileID] = data
}
