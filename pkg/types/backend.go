// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"errors"
	"io"
)

// StorageType identifies the backend storage implementation
type StorageType string

const (
	StorageTypeLocal StorageType = "local" // Local filesystem
	StorageTypeS3    StorageType = "s3"    // S3-compatible (AWS SDK)
	StorageTypeMinio StorageType = "minio" // S3-compatible (MinIO SDK)
)

// ErrBlobNotFound is returned by Get when the remote id is unknown to the backend.
var ErrBlobNotFound = errors.New("blob not found")

// Backend describes one configured storage bucket. The position of a
// Backend in the engine's ordered list is what chunk records refer to.
type Backend struct {
	ID         string      `json:"id"`
	Type       StorageType `json:"type"`
	Endpoint   string      `json:"endpoint,omitempty"` // For remote backends
	Bucket     string      `json:"bucket,omitempty"`   // For object store backends
	Path       string      `json:"path,omitempty"`     // For local filesystem
	Region     string      `json:"region,omitempty"`
	TotalBytes uint64      `json:"total_bytes"`
	UsedBytes  uint64      `json:"used_bytes"`
}

// FreeBytes returns available capacity
func (b *Backend) FreeBytes() uint64 {
	if b.UsedBytes >= b.TotalBytes {
		return 0
	}
	return b.TotalBytes - b.UsedBytes
}

// ObjectInfo describes one stored object, as reported by BackendStorage.List.
// Used by presentation layers only, never by the reconstruction path.
type ObjectInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // "file" or "folder"
	Size int64  `json:"size"`
}

// BackendStorage is the capability interface every provider adapter
// implements. The engine depends only on this interface; transport,
// authentication, and retry policy live inside the adapter.
type BackendStorage interface {
	// Type returns the storage type
	Type() StorageType

	// Put stores a blob under the requested name and returns the remote
	// id the backend assigned. Callers must persist the returned id, not
	// the requested name.
	Put(ctx context.Context, name string, data io.Reader, size int64) (string, error)

	// Get opens the blob identified by remoteID.
	// Returns an error wrapping ErrBlobNotFound when the id is unknown.
	Get(ctx context.Context, remoteID string) (io.ReadCloser, error)

	// Delete removes a blob. Deletion is idempotent: an already-absent
	// target yields (false, nil), never an error.
	Delete(ctx context.Context, remoteID string) (bool, error)

	// List enumerates stored objects under a prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// SizeInfo reports total and used capacity in bytes.
	SizeInfo(ctx context.Context) (total, used uint64, err error)

	// Close releases any resources
	Close() error
}

// BackendConfig contains configuration for creating a backend storage instance
type BackendConfig struct {
	ID        string            `json:"id" mapstructure:"id"`
	Type      StorageType       `json:"type" mapstructure:"type"`
	Endpoint  string            `json:"endpoint,omitempty" mapstructure:"endpoint"`
	Bucket    string            `json:"bucket,omitempty" mapstructure:"bucket"`
	Path      string            `json:"path,omitempty" mapstructure:"path"`
	Region    string            `json:"region,omitempty" mapstructure:"region"`
	AccessKey string            `json:"access_key,omitempty" mapstructure:"access_key"`
	SecretKey string            `json:"secret_key,omitempty" mapstructure:"secret_key"`
	UseSSL    bool              `json:"use_ssl,omitempty" mapstructure:"use_ssl"`
	Options   map[string]string `json:"options,omitempty" mapstructure:"options"`
}
