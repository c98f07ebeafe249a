// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"

	"github.com/spf13/viper"
)

// ManifestStoreKind selects the manifest persistence implementation
type ManifestStoreKind string

const (
	ManifestStoreLocalDir ManifestStoreKind = "localdir" // One JSON document per file
	ManifestStoreLevelDB  ManifestStoreKind = "leveldb"
	ManifestStorePostgres ManifestStoreKind = "postgres"
)

// ManifestStoreConfig configures manifest persistence.
type ManifestStoreConfig struct {
	Kind ManifestStoreKind `json:"kind" mapstructure:"kind"`
	Path string            `json:"path,omitempty" mapstructure:"path"` // localdir / leveldb
	DSN  string            `json:"dsn,omitempty" mapstructure:"dsn"`   // postgres
}

// CacheConfig configures the optional redis manifest cache.
type CacheConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Addr     string `json:"addr,omitempty" mapstructure:"addr"`
	Password string `json:"password,omitempty" mapstructure:"password"`
	DB       int    `json:"db,omitempty" mapstructure:"db"`
}

// AppConfig is the full engine configuration.
type AppConfig struct {
	Buckets   []BackendConfig     `json:"buckets" mapstructure:"buckets"`
	ChunkSize int64               `json:"chunk_size" mapstructure:"chunk_size"`
	Manifest  ManifestStoreConfig `json:"manifest" mapstructure:"manifest"`
	Cache     CacheConfig         `json:"cache" mapstructure:"cache"`

	// Encryption-at-rest flag. Recognized and validated but not
	// exercised by the chunking engine.
	EncryptionEnabled bool   `json:"encryption_enabled" mapstructure:"encryption_enabled"`
	EncryptionKey     string `json:"encryption_key,omitempty" mapstructure:"encryption_key"`
}

// LoadAppConfig decodes the application configuration from viper's
// merged state, applying defaults.
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Manifest.Kind == "" {
		cfg.Manifest.Kind = ManifestStoreLocalDir
	}
	if cfg.Manifest.Kind != ManifestStorePostgres && cfg.Manifest.Path == "" {
		cfg.Manifest.Path = "metadata"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants that make the engine
// unable to start when violated.
func (c *AppConfig) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	seen := make(map[string]struct{}, len(c.Buckets))
	for i, b := range c.Buckets {
		if b.Type == "" {
			return fmt.Errorf("bucket %d: type is required", i)
		}
		if b.ID != "" {
			if _, dup := seen[b.ID]; dup {
				return fmt.Errorf("bucket %d: duplicate id %q", i, b.ID)
			}
			seen[b.ID] = struct{}{}
		}
		switch b.Type {
		case StorageTypeLocal:
			if b.Path == "" {
				return fmt.Errorf("bucket %d: path required for local backend", i)
			}
		case StorageTypeS3, StorageTypeMinio:
			if b.Bucket == "" {
				return fmt.Errorf("bucket %d: bucket name required for %s backend", i, b.Type)
			}
		}
	}
	switch c.Manifest.Kind {
	case ManifestStoreLocalDir, ManifestStoreLevelDB:
		if c.Manifest.Path == "" {
			return fmt.Errorf("manifest store %q requires a path", c.Manifest.Kind)
		}
	case ManifestStorePostgres:
		if c.Manifest.DSN == "" {
			return fmt.Errorf("manifest store postgres requires a dsn")
		}
	default:
		return fmt.Errorf("unknown manifest store kind %q", c.Manifest.Kind)
	}
	if c.EncryptionEnabled && c.EncryptionKey == "" {
		return fmt.Errorf("encryption enabled but no encryption key configured")
	}
	return nil
}
