// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"

	. "github.com/gomlx/exceptions"

	"github.com/gomlx/tensorgraph/sets"
	"github.com/gomlx/tensorgraph/shapes"
)

// OpKind tags which variant an Operator's Attrs carries: a tagged variant whose arms carry
// per-kind attributes, in preference to dynamic dispatch.
type OpKind int8

const (
	InvalidKind OpKind = iota
	MatmulKind
	TransposeKind
	ConcatKind
)

func (k OpKind) String() string {
	switch k {
	case MatmulKind:
		return "Matmul"
	case TransposeKind:
		return "Transpose"
	case ConcatKind:
		return "Concat"
	default:
		return "InvalidKind"
	}
}

// Attrs is implemented by each operator kind's attribute type (MatmulAttrs, TransposeAttrs,
// ConcatAttrs). InferShape is pure: it must not mutate inputs or the attrs themselves except
// for caching derived values the kind declares as its own (e.g. Matmul's m/n/k).
type Attrs interface {
	Kind() OpKind
	InferShape(inputs []*Tensor) ([]shapes.Shape, error)
}

// Operator is a node producing output tensors from input tensors under a declared kind.
// Operators are owned exclusively by the Graph they were created in.
type Operator struct {
	graph *Graph
	guid  GUID
	attrs Attrs

	inputs  []*Tensor
	outputs []*Tensor

	predecessors sets.Set[*Operator]
	successors   sets.Set[*Operator]
}

// GUID returns the operator's stable, process-wide unique id.
func (op *Operator) GUID() GUID { return op.guid }

// Graph returns the Graph that owns this operator.
func (op *Operator) Graph() *Graph { return op.graph }

// Kind returns the operator's tagged kind.
func (op *Operator) Kind() OpKind { return op.attrs.Kind() }

// Attrs returns the operator's kind-specific attributes. Callers type-assert to the concrete
// type matching Kind(), e.g. op.Attrs().(*MatmulAttrs).
func (op *Operator) Attrs() Attrs { return op.attrs }

// Inputs returns the operator's ordered input tensors.
func (op *Operator) Inputs() []*Tensor { return op.inputs }

// Outputs returns the operator's ordered output tensors.
func (op *Operator) Outputs() []*Tensor { return op.outputs }

// Predecessors returns the set of operators that produce one of this operator's inputs.
func (op *Operator) Predecessors() sets.Set[*Operator] { return op.predecessors }

// Successors returns the set of operators that consume one of this operator's outputs.
func (op *Operator) Successors() sets.Set[*Operator] { return op.successors }

// AddPredecessors adds ops to the predecessor set.
func (op *Operator) AddPredecessors(ops ...*Operator) { op.predecessors.Insert(ops...) }

// RemovePredecessors removes ops from the predecessor set.
func (op *Operator) RemovePredecessors(ops ...*Operator) { op.predecessors.Remove(ops...) }

// AddSuccessors adds ops to the successor set.
func (op *Operator) AddSuccessors(ops ...*Operator) { op.successors.Insert(ops...) }

// RemoveSuccessors removes ops from the successor set.
func (op *Operator) RemoveSuccessors(ops ...*Operator) { op.successors.Remove(ops...) }

// ReplaceInput replaces the first occurrence of old in the operator's inputs with replacement.
// It panics if old is not found: callers are expected to have checked membership (rewrite
// passes only call this on matches they just found).
func (op *Operator) ReplaceInput(old, replacement *Tensor) {
	for i, in := range op.inputs {
		if in == old {
			op.inputs[i] = replacement
			return
		}
	}
	Panicf("graph.Operator.ReplaceInput: tensor %d is not an input of operator %d", old.fuid, op.guid)
}

// InferShape delegates to the operator's kind-specific attrs.
func (op *Operator) InferShape() ([]shapes.Shape, error) {
	return op.attrs.InferShape(op.inputs)
}

// String implements fmt.Stringer.
func (op *Operator) String() string {
	return fmt.Sprintf("Operator#%d[%s]", op.guid, op.Kind())
}
