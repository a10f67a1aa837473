// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"github.com/gomlx/tensorgraph/shapes"
)

// ConcatAttrs holds the attributes of a Concat operator. Dim is stored already normalized to
// [0, rank).
//
// Dim == 0 (concatenation along the leading axis) is accepted: only dim >= 0 is required, since
// ONNX-style concatenation along the leading axis is well-defined.
type ConcatAttrs struct {
	Dim int
}

// Kind implements Attrs.
func (*ConcatAttrs) Kind() OpKind { return ConcatKind }

// InferShape requires every input to share rank, and every dimension other than Dim to match
// pairwise; the output's Dim axis is the sum of each input's Dim axis.
func (c *ConcatAttrs) InferShape(inputs []*Tensor) ([]shapes.Shape, error) {
	if len(inputs) == 0 {
		return nil, shapes.NewShapeMismatch("Concat: no inputs")
	}
	first := inputs[0].Shape()
	if c.Dim < 0 || c.Dim >= first.Rank() {
		return nil, shapes.NewShapeMismatch("Concat: dim %d out of range for rank %d", c.Dim, first.Rank())
	}

	dims := append([]int(nil), first.Dimensions...)
	for i := 1; i < len(inputs); i++ {
		s := inputs[i].Shape()
		if s.Rank() != first.Rank() {
			return nil, shapes.NewShapeMismatch("Concat: input %d has rank %d, want %d", i, s.Rank(), first.Rank())
		}
		for axis := 0; axis < first.Rank(); axis++ {
			if axis == c.Dim {
				continue
			}
			if s.Dim(axis) != first.Dim(axis) {
				return nil, shapes.NewShapeMismatch(
					"Concat: input %d has dimension %d at axis %d, want %d (only axis %d may differ)",
					i, s.Dim(axis), axis, first.Dim(axis), c.Dim)
			}
		}
		dims[c.Dim] += s.Dim(c.Dim)
	}

	return []shapes.Shape{shapes.Make(first.DType, dims...)}, nil
}
