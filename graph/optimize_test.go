// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/tensorgraph/dtypes"
	"github.com/gomlx/tensorgraph/runtime"
)

// TestOptimizeFusesTransposeIntoMatmul covers the fusion scenario:
// X -Transpose(swap last two)-> T -Matmul-> Y. After Optimize, the Transpose is gone, the
// Matmul reads X directly, and TransA is true (the transpose feeds input 0).
func TestOptimizeFusesTransposeIntoMatmul(t *testing.T) {
	g := New(runtime.NewSimpleRuntime())
	x := g.AddTensor(dtypes.Float32, 5, 3)
	b := g.AddTensor(dtypes.Float32, 5, 7)

	transposeOp, err := g.AddTranspose(x, []int{1, 0})
	require.NoError(t, err)
	transposeOutput := transposeOp.Outputs()[0]

	matmulOp, err := g.AddMatmul(transposeOutput, b, false, false)
	require.NoError(t, err)

	require.NoError(t, g.CheckValid())
	g.Optimize()
	require.NoError(t, g.CheckValid())

	require.Equal(t, []*Operator{matmulOp}, g.Ops())
	require.Same(t, x, matmulOp.Inputs()[0])
	require.True(t, matmulOp.Attrs().(*MatmulAttrs).TransA)
	require.False(t, matmulOp.Attrs().(*MatmulAttrs).TransB)

	for _, tensor := range g.Tensors() {
		require.NotSame(t, transposeOutput, tensor, "the fused transpose's output tensor must be cleaned up")
	}
}

// TestOptimizeCollapsesInversePermutations exercises the default (sound) rule: two Transposes
// whose permutations are mutual inverses, but not equal, collapse away.
func TestOptimizeCollapsesInversePermutations(t *testing.T) {
	g := New(runtime.NewSimpleRuntime())
	x := g.AddTensor(dtypes.Float32, 2, 3, 4)

	perm1 := []int{1, 2, 0}
	perm2 := []int{2, 0, 1}
	op1, err := g.AddTranspose(x, perm1)
	require.NoError(t, err)
	t1 := op1.Outputs()[0]
	op2, err := g.AddTranspose(t1, perm2)
	require.NoError(t, err)
	final := op2.Outputs()[0]

	// A consumer downstream of the pair, to verify rewiring.
	consumerOp, err := g.AddTranspose(final, []int{0, 1, 2})
	require.NoError(t, err)

	g.Optimize()
	require.NoError(t, g.CheckValid())

	require.Equal(t, []*Operator{consumerOp}, g.Ops())
	require.Same(t, x, consumerOp.Inputs()[0])
}

// TestOptimizeCompatModeCollapsesEqualPermutations verifies the flagged compatibility behavior:
// with CompatPermutationMode enabled, two Transposes with equal (and, here, involutive)
// permutations collapse, matching the source's original (narrower) rule.
func TestOptimizeCompatModeCollapsesEqualPermutations(t *testing.T) {
	g := New(runtime.NewSimpleRuntime())
	g.SetCompatPermutationMode(true)
	x := g.AddTensor(dtypes.Float32, 2, 3)

	swap := []int{1, 0}
	op1, err := g.AddTranspose(x, swap)
	require.NoError(t, err)
	mid := op1.Outputs()[0]
	op2, err := g.AddTranspose(mid, swap)
	require.NoError(t, err)
	final := op2.Outputs()[0]

	consumerOp, err := g.AddTranspose(final, swap)
	require.NoError(t, err)

	g.Optimize()
	require.NoError(t, g.CheckValid())
	require.Equal(t, []*Operator{consumerOp}, g.Ops())
	require.Same(t, x, consumerOp.Inputs()[0])
}

func TestOptimizeLeavesUnrelatedGraphIntact(t *testing.T) {
	g := New(runtime.NewSimpleRuntime())
	a := g.AddTensor(dtypes.Float32, 2, 3, 4)
	b := g.AddTensor(dtypes.Float32, 2, 5, 4)

	op, err := g.AddConcat([]*Tensor{a, b}, 1)
	require.NoError(t, err)

	g.Optimize()
	require.Equal(t, []*Operator{op}, g.Ops())
}
