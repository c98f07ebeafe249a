// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redowanracy/AmazingStorageSystem/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func init() {
	Register(types.StorageTypeS3, NewS3)
}

// S3 implements BackendStorage for S3-compatible storage
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 creates an S3 backend
func NewS3(cfg types.BackendConfig) (types.BackendStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket required for S3 backend")
	}

	opts := []func(*config.LoadOptions) error{}

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	s3Opts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3{
		client: s3.NewFromConfig(awsCfg, s3Opts...),
		bucket: cfg.Bucket,
	}, nil
}

func (s *S3) Type() types.StorageType {
	return types.StorageTypeS3
}

func (s *S3) Put(ctx context.Context, name string, data io.Reader, size int64) (string, error) {
	// Chunks are bounded by the configured chunk size, so buffering is fine.
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", fmt.Errorf("read data: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(buf),
		ContentLength: aws.Int64(int64(len(buf))),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return name, nil
}

func (s *S3) Get(ctx context.Context, remoteID string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(remoteID),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", types.ErrBlobNotFound, remoteID)
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	return out.Body, nil
}

func (s *S3) Delete(ctx context.Context, remoteID string) (bool, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(remoteID),
	})
	if err != nil || head == nil {
		// S3 DeleteObject succeeds on absent keys; report idempotent no-op.
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(remoteID),
	})
	if err != nil {
		return false, fmt.Errorf("delete object: %w", err)
	}
	return true, nil
}

func (s *S3) List(ctx context.Context, prefix string) ([]types.ObjectInfo, error) {
	var infos []types.ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			infos = append(infos, types.ObjectInfo{
				ID:   aws.ToString(obj.Key),
				Name: aws.ToString(obj.Key),
				Type: "file",
				Size: aws.ToInt64(obj.Size),
			})
		}
	}
	return infos, nil
}

func (s *S3) SizeInfo(ctx context.Context) (uint64, uint64, error) {
	// S3 buckets have no fixed capacity; report used bytes only.
	infos, err := s.List(ctx, "")
	if err != nil {
		return 0, 0, err
	}
	var used uint64
	for _, info := range infos {
		used += uint64(info.Size)
	}
	return used, used, nil
}

func (s *S3) Close() error {
	return nil
}
