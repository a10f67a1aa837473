// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import "github.com/pkg/errors"

// ShapeMismatchError is returned whenever two shapes cannot be reconciled: incompatible
// broadcast dimensions, a matmul contraction mismatch, or a concat axis mismatch.
type ShapeMismatchError struct {
	error
}

// AxisOutOfRangeError is returned when a requested axis falls outside [-rank, rank-1].
type AxisOutOfRangeError struct {
	error
}

// NewShapeMismatch builds a ShapeMismatchError, for callers outside this package (e.g. graph's
// operator InferShape implementations) that need to raise the same error kind Broadcast does.
func NewShapeMismatch(format string, args ...any) error {
	return newShapeMismatch(format, args...)
}

func newShapeMismatch(format string, args ...any) error {
	return ShapeMismatchError{errors.Errorf(format, args...)}
}

func newAxisOutOfRange(format string, args ...any) error {
	return AxisOutOfRangeError{errors.Errorf(format, args...)}
}
