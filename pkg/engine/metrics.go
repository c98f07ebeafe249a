// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ChunkOperations tracks chunk operations by type
	ChunkOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "amazingstore",
		Subsystem: "engine",
		Name:      "chunk_operations_total",
		Help:      "Total number of chunk operations",
	}, []string{"operation"}) // operation: "put", "get", "delete", "cleanup"

	// UploadBytes tracks bytes placed on backends
	UploadBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "amazingstore",
		Subsystem: "engine",
		Name:      "upload_bytes_total",
		Help:      "Total bytes placed on storage backends",
	})

	// DownloadBytes tracks bytes reassembled for callers
	DownloadBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "amazingstore",
		Subsystem: "engine",
		Name:      "download_bytes_total",
		Help:      "Total bytes fetched and reassembled",
	})

	// IntegrityFailures tracks hash mismatches detected on download
	IntegrityFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "amazingstore",
		Subsystem: "engine",
		Name:      "integrity_failures_total",
		Help:      "Number of chunk hash mismatches detected on download",
	})

	// ManifestOperations tracks manifest store operations by type
	ManifestOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "amazingstore",
		Subsystem: "engine",
		Name:      "manifest_operations_total",
		Help:      "Total number of manifest operations",
	}, []string{"operation"}) // operation: "save", "load", "delete"
)

func init() {
	prometheus.MustRegister(
		ChunkOperations,
		UploadBytes,
		DownloadBytes,
		IntegrityFailures,
		ManifestOperations,
	)
}
