// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import "github.com/pkg/errors"

// Error kinds raised by this package. Each wraps a formatted error so that callers can match on
// type with errors.As while still getting a readable message.

// InferenceFailedError is raised by ShapeInfer when an operator's InferShape returns no shape,
// and directly by Matmul's and Transpose's InferShape for a wrong input count or rank.
type InferenceFailedError struct{ error }

// InvariantViolatedError is raised by CheckValid when connectivity or uniqueness is broken.
type InvariantViolatedError struct{ error }

// RuntimeMismatchError is raised by AddExistingTensor when a tensor belongs to a graph on a
// different runtime.
type RuntimeMismatchError struct{ error }

func newInferenceFailed(format string, args ...any) error {
	return InferenceFailedError{errors.Errorf(format, args...)}
}

func newInvariantViolated(format string, args ...any) error {
	return InvariantViolatedError{errors.Errorf(format, args...)}
}

func newRuntimeMismatch(format string, args ...any) error {
	return RuntimeMismatchError{errors.Errorf(format, args...)}
}

func cycleError(remaining int) error {
	return errors.Errorf("graph.TopoSort: cycle detected, %d operator(s) never became ready", remaining)
}
