// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes defines Shape, the ordered list of axis dimensions (plus a DType) describing
// a Tensor or an Operator's output, and the shape-level arithmetic tensorgraph needs:
// bidirectional broadcasting, axis normalization, and linear/multi-index conversion.
package shapes

import (
	"fmt"
	"slices"

	"github.com/gomlx/tensorgraph/dtypes"
)

// Shape describes the dimensions and element type of a Tensor.
//
// An empty Dimensions slice is a valid scalar shape.
type Shape struct {
	DType      dtypes.DType
	Dimensions []int
}

// Make returns a new Shape. It panics if any dimension is not strictly positive — the same
// restriction github.com/gomlx/gomlx/types/shapes.Make applies, since a zero or negative axis
// dimension is never a valid tensor shape here.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	for _, d := range dimensions {
		if d <= 0 {
			panic(fmt.Sprintf("shapes.Make: axis dimension must be > 0, got %v", dimensions))
		}
	}
	return Shape{DType: dtype, Dimensions: slices.Clone(dimensions)}
}

// Scalar returns a rank-0 shape for dtype.
func Scalar(dtype dtypes.DType) Shape {
	return Shape{DType: dtype}
}

// Rank returns the number of axes (dimensions) of the shape.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar reports whether s has rank 0.
func (s Shape) IsScalar() bool { return s.Rank() == 0 }

// Ok reports whether s is a valid (non-zero) shape.
func (s Shape) Ok() bool { return s.DType != dtypes.InvalidDType }

// Dim returns the dimension at axis, which may be negative (counting from the end, as in Python
// slicing). It panics for an out-of-range axis — callers that need a recoverable error should
// call NormalizeAxis first.
func (s Shape) Dim(axis int) int {
	a := axis
	if a < 0 {
		a += s.Rank()
	}
	if a < 0 || a >= s.Rank() {
		panic(fmt.Sprintf("shapes.Shape.Dim: axis %d out of range for rank %d", axis, s.Rank()))
	}
	return s.Dimensions[a]
}

// Size returns the number of elements in the shape: the product of all dimensions (1 for a
// scalar).
func (s Shape) Size() int {
	size := 1
	for _, d := range s.Dimensions {
		size *= d
	}
	return size
}

// Bytes returns the number of bytes needed to store the shape's elements contiguously:
// product(shape) * sizeof(dtype).
func (s Shape) Bytes() int {
	return s.Size() * int(s.DType.Memory())
}

// Clone returns a deep copy of s.
func (s Shape) Clone() Shape {
	return Shape{DType: s.DType, Dimensions: slices.Clone(s.Dimensions)}
}

// Equal reports whether s and s2 have the same DType and dimensions.
func (s Shape) Equal(s2 Shape) bool {
	return s.DType == s2.DType && slices.Equal(s.Dimensions, s2.Dimensions)
}

// String implements fmt.Stringer.
func (s Shape) String() string {
	if s.Rank() == 0 {
		return fmt.Sprintf("(%s)", s.DType)
	}
	return fmt.Sprintf("(%s)%v", s.DType, s.Dimensions)
}
