// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package placer

import (
	"fmt"
)

// Placer maps chunk indices to positions in the ordered backend list
type Placer interface {
	// BackendFor returns the backend position that stores the given chunk
	BackendFor(chunkIndex int) int
	// NumBackends returns the size of the backend list the placer was built for
	NumBackends() int
}

// RoundRobin distributes chunks across backends by index modulo the
// backend count. Stateless with respect to call history: re-uploading
// the same file against the same backend list places chunks
// identically. Skew across files with equal chunk counts is possible
// and accepted.
type RoundRobin struct {
	n int
}

// NewRoundRobin creates a placer over n backends.
// A pool of zero backends is a configuration error, not a runtime one.
func NewRoundRobin(numBackends int) (*RoundRobin, error) {
	if numBackends < 1 {
		return nil, fmt.Errorf("no storage backends configured")
	}
	return &RoundRobin{n: numBackends}, nil
}

func (p *RoundRobin) BackendFor(chunkIndex int) int {
	return chunkIndex % p.n
}

func (p *RoundRobin) NumBackends() int {
	return p.n
}
