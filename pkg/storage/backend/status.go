// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"syscall"
)

// SizeInfo reports filesystem capacity for the backend's base path.
func (l *Local) SizeInfo(ctx context.Context) (uint64, uint64, error) {
	fs := syscall.Statfs_t{}
	if err := syscall.Statfs(l.basePath, &fs); err != nil {
		return 0, 0, err
	}
	total := fs.Blocks * uint64(fs.Bsize)
	used := total - (uint64(fs.Bavail) * uint64(fs.Bsize))
	return total, used, nil
}
