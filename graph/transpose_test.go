// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/tensorgraph/dtypes"
	"github.com/gomlx/tensorgraph/runtime"
)

func TestTransposeShapeInference(t *testing.T) {
	g := New(runtime.NewSimpleRuntime())
	a := g.AddTensor(dtypes.Float32, 2, 3, 4)

	op, err := g.AddTranspose(a, []int{0, 2, 1})
	require.NoError(t, err)
	require.Equal(t, []int{2, 4, 3}, op.Outputs()[0].Shape().Dimensions)
}

func TestTransposeRejectsNonPermutation(t *testing.T) {
	g := New(runtime.NewSimpleRuntime())
	a := g.AddTensor(dtypes.Float32, 2, 3, 4)

	require.Panics(t, func() {
		_, _ = g.AddTranspose(a, []int{0, 2, 2})
	})
}

func TestIsPermutation(t *testing.T) {
	require.True(t, IsPermutation([]int{2, 0, 1}, 3))
	require.False(t, IsPermutation([]int{2, 0, 0}, 3))
	require.False(t, IsPermutation([]int{0, 1}, 3))
}

func TestSwapsLastTwoAxes(t *testing.T) {
	require.True(t, swapsLastTwoAxes([]int{0, 2, 1}))
	require.True(t, swapsLastTwoAxes([]int{1, 0}))
	require.False(t, swapsLastTwoAxes([]int{1, 2, 0}))
}

func TestInverseVsIdenticalPermutation(t *testing.T) {
	// perm1 and perm2 are mutual inverses but not equal.
	perm1 := []int{1, 2, 0}
	perm2 := []int{2, 0, 1}
	require.True(t, isInversePermutation(perm1, perm2))
	require.False(t, isIdenticalPermutation(perm1, perm2))

	// A last-two-axes swap is its own inverse: both rules agree there.
	swap := []int{0, 2, 1}
	require.True(t, isInversePermutation(swap, swap))
	require.True(t, isIdenticalPermutation(swap, swap))
}
