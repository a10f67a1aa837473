// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"slices"

	"github.com/gomlx/tensorgraph/shapes"
)

// TransposeAttrs holds the attributes of a Transpose operator. Perm must be a permutation of
// [0, rank): validated at construction, not at inference time.
type TransposeAttrs struct {
	Perm []int
}

// Kind implements Attrs.
func (*TransposeAttrs) Kind() OpKind { return TransposeKind }

// InferShape applies Perm to the input's shape: output.Dimensions[i] = input.Dimensions[Perm[i]].
func (t *TransposeAttrs) InferShape(inputs []*Tensor) ([]shapes.Shape, error) {
	if len(inputs) != 1 {
		return nil, newInferenceFailed("Transpose: expected 1 input, got %d", len(inputs))
	}
	in := inputs[0].Shape()
	if len(t.Perm) != in.Rank() {
		return nil, newInferenceFailed("Transpose: perm length %d does not match input rank %d", len(t.Perm), in.Rank())
	}
	dims := make([]int, in.Rank())
	for i, p := range t.Perm {
		dims[i] = in.Dim(p)
	}
	return []shapes.Shape{shapes.Make(in.DType, dims...)}, nil
}

// IsPermutation reports whether perm is a permutation of [0, rank).
func IsPermutation(perm []int, rank int) bool {
	if len(perm) != rank {
		return false
	}
	seen := make([]bool, rank)
	for _, p := range perm {
		if p < 0 || p >= rank || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

// swapsLastTwoAxes reports whether perm is the identity everywhere except that it swaps the
// last two axes: perm[n-2]==n-1, perm[n-1]==n-2, and perm[i]==i for every other i. This is the
// shape of transpose that Graph.Optimize's fusion pass folds into a Matmul's TransA/TransB.
func swapsLastTwoAxes(perm []int) bool {
	n := len(perm)
	if n < 2 {
		return false
	}
	if perm[n-2] != n-1 || perm[n-1] != n-2 {
		return false
	}
	for i := 0; i < n-2; i++ {
		if perm[i] != i {
			return false
		}
	}
	return true
}

// isInversePermutation reports whether perm1 and perm2 compose to the identity:
// perm1[perm2[i]] == i for every i. This is the sound rule for collapsing a pair of chained
// transposes back to a no-op.
func isInversePermutation(perm1, perm2 []int) bool {
	if len(perm1) != len(perm2) {
		return false
	}
	for i := range perm2 {
		if perm1[perm2[i]] != i {
			return false
		}
	}
	return true
}

// isIdenticalPermutation collapses two transposes whenever their permutations are equal, which
// is only correct when the shared permutation happens to be an involution. Kept for compat mode
// (see Graph.SetCompatPermutationMode); isInversePermutation is the sound default.
func isIdenticalPermutation(perm1, perm2 []int) bool {
	return slices.Equal(perm1, perm2)
}
