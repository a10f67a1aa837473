// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"

	. "github.com/gomlx/exceptions"

	"github.com/gomlx/tensorgraph/dtypes"
	"github.com/gomlx/tensorgraph/shapes"
)

// Blob is a handle to a byte range bound to a Tensor once the owning Graph's allocator has
// materialized its backing buffer.
type Blob struct {
	Buf    []byte
	Offset int
	Size   int
}

// Bytes returns the blob's byte range, a sub-slice of the arena's backing buffer.
func (b Blob) Bytes() []byte {
	return b.Buf[b.Offset : b.Offset+b.Size]
}

// Tensor is a shaped, typed node in the dataflow graph. A Tensor is owned exclusively by the
// Graph it was created in; source/targets are non-owning back-references maintained by the
// Graph on every mutation.
type Tensor struct {
	graph *Graph
	fuid  FUID
	shape shapes.Shape

	// source is the operator producing this tensor, or nil for a graph input.
	source *Operator

	// targets are the operators consuming this tensor, in insertion order. AddTarget is
	// idempotent: re-inserting an operator already present is a no-op that does not disturb
	// order.
	targets []*Operator

	blob    *Blob
	hasBlob bool
}

// FUID returns the tensor's stable, process-wide unique id.
func (t *Tensor) FUID() FUID { return t.fuid }

// Graph returns the Graph that owns this tensor.
func (t *Tensor) Graph() *Graph { return t.graph }

// Shape returns the tensor's current shape.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// SetShape overwrites the tensor's shape. It is used by shape inference only and panics if a
// data blob is already bound, since resizing a materialized tensor would invalidate its offset.
func (t *Tensor) SetShape(shape shapes.Shape) {
	if t.hasBlob {
		Panicf("graph.Tensor.SetShape: cannot reshape tensor %d after a data blob has been bound", t.fuid)
	}
	t.shape = shape
}

// Bytes returns product(shape) * sizeof(dtype): the number of bytes this tensor needs in the
// arena.
func (t *Tensor) Bytes() int {
	return t.shape.Bytes()
}

// Source returns the operator producing this tensor, or nil if it is a graph input.
func (t *Tensor) Source() *Operator { return t.source }

// SetSource sets the producing operator (or nil). Graph-internal: callers should go through
// the Graph's Add* operator constructors / Graph.RemoveOperator instead of calling this directly.
func (t *Tensor) SetSource(op *Operator) { t.source = op }

// Targets returns the operators consuming this tensor, in insertion order.
func (t *Tensor) Targets() []*Operator {
	return t.targets
}

// AddTarget records op as a consumer of t. Idempotent: adding an operator already present is a
// no-op, preserving the existing insertion order.
func (t *Tensor) AddTarget(op *Operator) {
	for _, existing := range t.targets {
		if existing == op {
			return
		}
	}
	t.targets = append(t.targets, op)
}

// RemoveTarget removes all occurrences of op from t's targets.
func (t *Tensor) RemoveTarget(op *Operator) {
	kept := t.targets[:0]
	for _, existing := range t.targets {
		if existing != op {
			kept = append(kept, existing)
		}
	}
	t.targets = kept
}

// HasBlob reports whether a data blob has been bound (i.e. DataMalloc has run since the last
// shape change).
func (t *Tensor) HasBlob() bool { return t.hasBlob }

// Blob returns the tensor's bound data blob. It panics if none is bound yet.
func (t *Tensor) Blob() Blob {
	if !t.hasBlob {
		Panicf("graph.Tensor.Blob: tensor %d has no data blob bound, call Graph.DataMalloc first", t.fuid)
	}
	return *t.blob
}

// SetDataBlob binds a data blob to this tensor; called only by Graph.DataMalloc.
func (t *Tensor) SetDataBlob(b Blob) {
	t.blob = &b
	t.hasBlob = true
}

// DType is a shorthand for Shape().DType.
func (t *Tensor) DType() dtypes.DType { return t.shape.DType }

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor#%d%s", t.fuid, t.shape)
}
