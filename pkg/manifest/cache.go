// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redowanracy/AmazingStorageSystem/pkg/logger"
	"github.com/redowanracy/AmazingStorageSystem/pkg/types"

	"github.com/redis/go-redis/v9"
)

// cacheTTL bounds staleness for entries written by other processes.
const cacheTTL = 5 * time.Minute

// CachedStore is a redis read-through layer over another Store.
// Cache failures degrade to the inner store; they are logged, never
// surfaced.
type CachedStore struct {
	inner  Store
	client *redis.Client
}

// NewCachedStore connects to redis and wraps inner
func NewCachedStore(inner Store, cfg types.CacheConfig) (*CachedStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &CachedStore{inner: inner, client: client}, nil
}

// NewCachedStoreWithClient wraps inner using an existing redis client.
// Used by tests with miniredis.
func NewCachedStoreWithClient(inner Store, client *redis.Client) *CachedStore {
	return &CachedStore{inner: inner, client: client}
}

func cacheKey(fileID string) string {
	return "manifest:" + fileID
}

func (s *CachedStore) Save(ctx context.Context, m *types.Manifest) error {
	if err := s.inner.Save(ctx, m); err != nil {
		return err
	}

	data, err := types.EncodeManifest(m)
	if err == nil {
		err = s.client.Set(ctx, cacheKey(m.FileID), data, cacheTTL).Err()
	}
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("file_id", m.FileID).Msg("manifest cache set failed")
	}
	return nil
}

func (s *CachedStore) Load(ctx context.Context, fileID string) (*types.Manifest, error) {
	data, err := s.client.Get(ctx, cacheKey(fileID)).Bytes()
	if err == nil {
		if m, decodeErr := types.DecodeManifest(data); decodeErr == nil {
			return m, nil
		}
		// Poisoned entry; fall through to the inner store.
		s.client.Del(ctx, cacheKey(fileID))
	} else if !errors.Is(err, redis.Nil) {
		logger.Ctx(ctx).Warn().Err(err).Str("file_id", fileID).Msg("manifest cache get failed")
	}

	m, err := s.inner.Load(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if data, encErr := types.EncodeManifest(m); encErr == nil {
		if setErr := s.client.Set(ctx, cacheKey(fileID), data, cacheTTL).Err(); setErr != nil {
			logger.Ctx(ctx).Warn().Err(setErr).Str("file_id", fileID).Msg("manifest cache fill failed")
		}
	}
	return m, nil
}

func (s *CachedStore) Delete(ctx context.Context, fileID string) (bool, error) {
	existed, err := s.inner.Delete(ctx, fileID)
	if err != nil {
		return existed, err
	}
	if delErr := s.client.Del(ctx, cacheKey(fileID)).Err(); delErr != nil {
		logger.Ctx(ctx).Warn().Err(delErr).Str("file_id", fileID).Msg("manifest cache invalidation failed")
	}
	return existed, nil
}

func (s *CachedStore) ListIDs(ctx context.Context) ([]string, error) {
	// Listing always hits the source of truth.
	return s.inner.ListIDs(ctx)
}

func (s *CachedStore) Close() error {
	if err := s.client.Close(); err != nil {
		logger.Warn().Err(err).Msg("close redis client")
	}
	return s.inner.Close()
}
