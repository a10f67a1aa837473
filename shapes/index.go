// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

// MultiIndex converts a linear (flat, row-major) index into a per-axis multi-index for the
// given dimensions: walk dimensions from the last axis to the first, peeling off each axis's
// remainder.
func MultiIndex(linear int, dimensions []int) []int {
	index := make([]int, len(dimensions))
	for i := len(dimensions) - 1; i >= 0; i-- {
		d := dimensions[i]
		index[i] = linear % d
		linear /= d
	}
	return index
}

// LinearIndex converts a per-axis multi-index (wrapped modulo each axis's dimension) back into
// a flat row-major index using the given strides. Strides must have the same length as index
// and dimensions, typically produced by Strides.
func LinearIndex(index, dimensions, strides []int) int {
	linear := 0
	for i, dim := range dimensions {
		wrapped := index[i] % dim
		linear += wrapped * strides[i]
	}
	return linear
}

// Strides returns the row-major (C-contiguous) strides for the given dimensions: the number
// of elements to skip along each axis to advance by one index on that axis.
func Strides(dimensions []int) []int {
	strides := make([]int, len(dimensions))
	stride := 1
	for i := len(dimensions) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= dimensions[i]
	}
	return strides
}
