// Copyright 2026 Amazing Storage System Authors
// SPDX-License-Identifier: Apache-2.0

package placer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoundRobin_RejectsEmptyPool(t *testing.T) {
	t.Parallel()

	p, err := NewRoundRobin(0)
	require.Error(t, err)
	assert.Nil(t, p)

	p, err = NewRoundRobin(-1)
	require.Error(t, err)
	assert.Nil(t, p)
}

func TestRoundRobin_BackendFor(t *testing.T) {
	t.Parallel()

	p, err := NewRoundRobin(3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.NumBackends())

	// Indices 0..4 over backends [A,B,C] land on A,B,C,A,B.
	want := []int{0, 1, 2, 0, 1}
	for idx, expected := range want {
		assert.Equal(t, expected, p.BackendFor(idx), "chunk %d", idx)
	}
}

func TestRoundRobin_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := NewRoundRobin(5)
	require.NoError(t, err)
	b, err := NewRoundRobin(5)
	require.NoError(t, err)

	// No call-history state: two placers over the same pool agree for
	// every index regardless of call order.
	for i := 99; i >= 0; i-- {
		assert.Equal(t, a.BackendFor(i), b.BackendFor(i))
	}
}

func TestRoundRobin_SingleBackend(t *testing.T) {
	t.Parallel()

	p, err := NewRoundRobin(1)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, 0, p.BackendFor(i))
	}
}
