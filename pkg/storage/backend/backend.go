// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

// Package backend provides storage backend adapters.
// All adapters implement types.BackendStorage.
package backend

import (
	"fmt"
	"sync"

	"github.com/redowanracy/AmazingStorageSystem/pkg/types"
)

// Registry holds registered backend factories
var (
	registryMu sync.RWMutex
	registry   = make(map[types.StorageType]Factory)
)

// Factory creates a BackendStorage from config
type Factory func(cfg types.BackendConfig) (types.BackendStorage, error)

// Register adds a factory for a storage type
func Register(t types.StorageType, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t] = f
}

// New creates a BackendStorage from config
func New(cfg types.BackendConfig) (types.BackendStorage, error) {
	registryMu.RLock()
	f, ok := registry[cfg.Type]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
	return f(cfg)
}

// Pool is the ordered set of backend instances chunks are placed on.
// Order is significant: chunk records refer to backends by position,
// so the pool must be constructed with the same bucket order the
// manifests were written with.
type Pool struct {
	backends []types.BackendStorage
	configs  []types.BackendConfig
}

// NewPool creates every configured backend, preserving bucket order.
// Failing adapters abort construction rather than being skipped, so a
// misconfigured bucket can never silently shift placement indices.
func NewPool(configs []types.BackendConfig) (*Pool, error) {
	p := &Pool{
		backends: make([]types.BackendStorage, 0, len(configs)),
		configs:  make([]types.BackendConfig, 0, len(configs)),
	}
	for i, cfg := range configs {
		storage, err := New(cfg)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("create backend %d (%s): %w", i, cfg.Type, err)
		}
		p.backends = append(p.backends, storage)
		p.configs = append(p.configs, cfg)
	}
	return p, nil
}

// NewPoolFromStorages builds a pool from already-constructed backends,
// in the given order. Used for dependency injection in tests and by
// callers that manage adapter lifecycles themselves.
func NewPoolFromStorages(storages ...types.BackendStorage) *Pool {
	return &Pool{
		backends: storages,
		configs:  make([]types.BackendConfig, len(storages)),
	}
}

// Len returns the number of backends in the pool
func (p *Pool) Len() int {
	return len(p.backends)
}

// Get retrieves a backend by position
func (p *Pool) Get(index int) (types.BackendStorage, bool) {
	if index < 0 || index >= len(p.backends) {
		return nil, false
	}
	return p.backends[index], true
}

// All returns the ordered backend list
func (p *Pool) All() []types.BackendStorage {
	return p.backends
}

// Config returns the configuration a backend was built from
func (p *Pool) Config(index int) (types.BackendConfig, bool) {
	if index < 0 || index >= len(p.configs) {
		return types.BackendConfig{}, false
	}
	return p.configs[index], true
}

// Close closes all backends
func (p *Pool) Close() error {
	var firstErr error
	for _, b := range p.backends {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.backends = nil
	p.configs = nil
	return firstErr
}
