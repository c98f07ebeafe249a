// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/redowanracy/AmazingStorageSystem/pkg/types"
)

// StorageTypeMemory is used for testing
const StorageTypeMemory types.StorageType = "memory"

func init() {
	Register(StorageTypeMemory, func(cfg types.BackendConfig) (types.BackendStorage, error) {
		return NewMemoryStorage(), nil
	})
}

// MemoryStorage is an in-memory backend for testing
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage creates a new in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		data: make(map[string][]byte),
	}
}

func (m *MemoryStorage) Type() types.StorageType {
	return StorageTypeMemory
}

func (m *MemoryStorage) Put(ctx context.Context, name string, data io.Reader, size int64) (string, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = buf
	return name, nil
}

func (m *MemoryStorage) Get(ctx context.Context, remoteID string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[remoteID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrBlobNotFound, remoteID)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryStorage) Delete(ctx context.Context, remoteID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.data[remoteID]
	delete(m.data, remoteID)
	return ok, nil
}

func (m *MemoryStorage) List(ctx context.Context, prefix string) ([]types.ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var infos []types.ObjectInfo
	for key, data := range m.data {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		infos = append(infos, types.ObjectInfo{
			ID:   key,
			Name: key,
			Type: "file",
			Size: int64(len(data)),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

func (m *MemoryStorage) SizeInfo(ctx context.Context) (uint64, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var used uint64
	for _, data := range m.data {
		used += uint64(len(data))
	}
	return used, used, nil
}

func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	return nil
}

// Corrupt overwrites a stored blob in place. Test helper for
// exercising integrity failures.
func (m *MemoryStorage) Corrupt(remoteID string, data []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[remoteID]; !ok {
		return false
	}
	m.data[remoteID] = data
	return true
}
