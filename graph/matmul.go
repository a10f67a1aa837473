// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"github.com/gomlx/tensorgraph/shapes"
)

// MatmulAttrs holds the attributes of a Matmul operator. M, N, K are cached by InferShape for
// downstream consumers once inference has succeeded at least once.
type MatmulAttrs struct {
	TransA, TransB bool

	M, N, K int
}

// Kind implements Attrs.
func (*MatmulAttrs) Kind() OpKind { return MatmulKind }

// InferShape computes the output shape of A @ B (optionally transposed), broadcasting batch
// dimensions per shapes.Broadcast: effective (m, kA) from A's last two axes (swapped if TransA),
// effective (kB, n) from B's last two axes (swapped if TransB); the contraction dims must match;
// batch dims (all axes before the last two) broadcast independently.
func (a *MatmulAttrs) InferShape(inputs []*Tensor) ([]shapes.Shape, error) {
	if len(inputs) != 2 {
		return nil, newInferenceFailed("Matmul: expected 2 inputs, got %d", len(inputs))
	}
	shapeA, shapeB := inputs[0].Shape(), inputs[1].Shape()
	if shapeA.Rank() < 2 {
		return nil, newInferenceFailed("Matmul: input A has rank %d, want >= 2", shapeA.Rank())
	}
	if shapeB.Rank() < 2 {
		return nil, newInferenceFailed("Matmul: input B has rank %d, want >= 2", shapeB.Rank())
	}

	m, kA := lastTwoDims(shapeA, a.TransA)
	kB, n := lastTwoDims(shapeB, a.TransB)
	if kA != kB {
		return nil, shapes.NewShapeMismatch("Matmul: contraction dims mismatch, A gives k=%d, B gives k=%d", kA, kB)
	}

	batchA := shapeA.Dimensions[:shapeA.Rank()-2]
	batchB := shapeB.Dimensions[:shapeB.Rank()-2]
	batch, err := shapes.Broadcast(batchA, batchB)
	if err != nil {
		return nil, err
	}

	dims := append(append([]int(nil), batch...), m, n)
	a.M, a.N, a.K = m, n, kA
	return []shapes.Shape{shapes.Make(shapeA.DType, dims...)}, nil
}

// lastTwoDims returns a shape's last two axis dimensions, as (rows, cols), swapped if
// transposed is set.
func lastTwoDims(s shapes.Shape, transposed bool) (rows, cols int) {
	rows, cols = s.Dim(-2), s.Dim(-1)
	if transposed {
		rows, cols = cols, rows
	}
	return rows, cols
}
