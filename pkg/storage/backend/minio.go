// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"fmt"
	"io"

	"github.com/redowanracy/AmazingStorageSystem/pkg/types"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func init() {
	Register(types.StorageTypeMinio, NewMinio)
}

// Minio implements BackendStorage using the MinIO SDK. Useful for
// self-hosted S3-compatible endpoints where the MinIO client's
// bucket bootstrap is convenient.
type Minio struct {
	client *minio.Client
	bucket string
}

// NewMinio creates a MinIO backend and ensures the bucket exists
func NewMinio(cfg types.BackendConfig) (types.BackendStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket required for minio backend")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint required for minio backend")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &Minio{client: client, bucket: cfg.Bucket}, nil
}

func (m *Minio) Type() types.StorageType {
	return types.StorageTypeMinio
}

func (m *Minio) Put(ctx context.Context, name string, data io.Reader, size int64) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, name, data, size, minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return name, nil
}

func (m *Minio) Get(ctx context.Context, remoteID string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, remoteID, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}

	// GetObject is lazy; Stat forces the first round trip so missing
	// keys surface here instead of on first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", types.ErrBlobNotFound, remoteID)
		}
		return nil, fmt.Errorf("stat object: %w", err)
	}
	return obj, nil
}

func (m *Minio) Delete(ctx context.Context, remoteID string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, remoteID, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat object: %w", err)
	}

	if err := m.client.RemoveObject(ctx, m.bucket, remoteID, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("remove object: %w", err)
	}
	return true, nil
}

func (m *Minio) List(ctx context.Context, prefix string) ([]types.ObjectInfo, error) {
	var infos []types.ObjectInfo
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		infos = append(infos, types.ObjectInfo{
			ID:   obj.Key,
			Name: obj.Key,
			Type: "file",
			Size: obj.Size,
		})
	}
	return infos, nil
}

func (m *Minio) SizeInfo(ctx context.Context) (uint64, uint64, error) {
	infos, err := m.List(ctx, "")
	if err != nil {
		return 0, 0, err
	}
	var used uint64
	for _, info := range infos {
		used += uint64(info.Size)
	}
	return used, used, nil
}

func (m *Minio) Close() error {
	return nil
}
