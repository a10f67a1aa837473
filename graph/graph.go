/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package graph implements the tensor dataflow graph IR: a bipartite structure of Tensor and
// Operator nodes with cross-linked connectivity, a topological sort, a graph-rewrite optimizer,
// shape inference, and an arena-backed memory planner.
package graph

import (
	"fmt"
	"strings"

	. "github.com/gomlx/exceptions"

	"github.com/gomlx/tensorgraph/allocator"
	"github.com/gomlx/tensorgraph/dtypes"
	"github.com/gomlx/tensorgraph/runtime"
	"github.com/gomlx/tensorgraph/sets"
	"github.com/gomlx/tensorgraph/shapes"
)

// Graph owns a set of Tensors and Operators and enforces the connectivity invariants through
// every mutating method.
type Graph struct {
	runtime   runtime.Runtime
	allocator *allocator.Arena

	tensors []*Tensor
	ops     []*Operator

	// sorted is cleared by any mutation that can invalidate topological order.
	sorted bool

	// compatPermutationMode, when true, makes Optimize's identical-transpose pass use the
	// source's original (unsound outside involutions) equal-permutation rule instead of the
	// inverse-permutation rule that is the default.
	compatPermutationMode bool
}

// New creates an empty Graph backed by rt.
func New(rt runtime.Runtime) *Graph {
	return &Graph{
		runtime:   rt,
		allocator: allocator.New(rt),
		sorted:    true,
	}
}

// SetCompatPermutationMode toggles the identical-transpose (rather than inverse-transpose)
// collapse rule for Optimize's first pass. Default is false (the sound, inverse rule).
func (g *Graph) SetCompatPermutationMode(enabled bool) { g.compatPermutationMode = enabled }

// Runtime returns the graph's allocation collaborator.
func (g *Graph) Runtime() runtime.Runtime { return g.runtime }

// Allocator returns the graph's arena allocator.
func (g *Graph) Allocator() *allocator.Arena { return g.allocator }

// Tensors returns the graph's owned tensors, in insertion order. The returned slice must not be
// mutated by the caller.
func (g *Graph) Tensors() []*Tensor { return g.tensors }

// Ops returns the graph's owned operators, in their current order (topological, if Sorted()).
// The returned slice must not be mutated by the caller.
func (g *Graph) Ops() []*Operator { return g.ops }

// Sorted reports whether Ops() is currently known to be in topological order.
func (g *Graph) Sorted() bool { return g.sorted }

// AddTensor creates a new tensor of the given shape and dtype, owned by g.
func (g *Graph) AddTensor(dtype dtypes.DType, dimensions ...int) *Tensor {
	t := &Tensor{
		graph: g,
		fuid:  nextFUID(),
		shape: shapes.Make(dtype, dimensions...),
	}
	g.tensors = append(g.tensors, t)
	return t
}

// AddExistingTensor adds a tensor created for a different Graph (or with no graph at all) to g.
// It fails with RuntimeMismatchError if the tensor's existing graph runs on a different Runtime;
// two Graphs sharing the same Runtime may freely share tensors.
func (g *Graph) AddExistingTensor(t *Tensor) error {
	if t.graph == g {
		return nil
	}
	if t.graph != nil && t.graph.runtime != g.runtime {
		return newRuntimeMismatch("AddExistingTensor: tensor %d belongs to a graph on a different runtime", t.fuid)
	}
	t.graph = g
	g.tensors = append(g.tensors, t)
	return nil
}

// GetTensor looks up a tensor owned by g by its fuid.
func (g *Graph) GetTensor(fuid FUID) (*Tensor, bool) {
	for _, t := range g.tensors {
		if t.fuid == fuid {
			return t, true
		}
	}
	return nil, false
}

// GetInputs returns the tensors with no source: graph inputs.
func (g *Graph) GetInputs() []*Tensor {
	var inputs []*Tensor
	for _, t := range g.tensors {
		if t.source == nil {
			inputs = append(inputs, t)
		}
	}
	return inputs
}

// GetOutputs returns the tensors with no targets: graph outputs.
func (g *Graph) GetOutputs() []*Tensor {
	var outputs []*Tensor
	for _, t := range g.tensors {
		if len(t.targets) == 0 {
			outputs = append(outputs, t)
		}
	}
	return outputs
}

// addOperatorAndConnect appends op to g.ops and wires connectivity to/from its inputs and
// outputs: every input records op as a target and, if the input has a source, links
// predecessor/successor both ways; every output's source is set to op, and op is linked with
// any existing targets of that output.
func (g *Graph) addOperatorAndConnect(op *Operator) {
	for _, in := range op.inputs {
		in.AddTarget(op)
		if in.source != nil {
			op.AddPredecessors(in.source)
			in.source.AddSuccessors(op)
		}
	}
	for _, out := range op.outputs {
		out.SetSource(op)
		for _, target := range out.targets {
			op.AddSuccessors(target)
			target.AddPredecessors(op)
		}
	}
	g.ops = append(g.ops, op)
	g.sorted = false
}

// newOperator allocates an Operator owned by g with the given attrs/inputs/outputs, without
// wiring connectivity yet.
func (g *Graph) newOperator(attrs Attrs, inputs, outputs []*Tensor) *Operator {
	return &Operator{
		graph:        g,
		guid:         nextGUID(),
		attrs:        attrs,
		inputs:       inputs,
		outputs:      outputs,
		predecessors: sets.Make[*Operator](),
		successors:   sets.Make[*Operator](),
	}
}

// addOp infers output shapes from attrs and inputs, creates the corresponding output tensors,
// and wires the new operator into the graph.
func (g *Graph) addOp(attrs Attrs, inputs ...*Tensor) (*Operator, error) {
	outShapes, err := attrs.InferShape(inputs)
	if err != nil {
		return nil, err
	}
	outputs := make([]*Tensor, len(outShapes))
	for i, s := range outShapes {
		outputs[i] = g.AddTensor(s.DType, s.Dimensions...)
	}
	op := g.newOperator(attrs, inputs, outputs)
	g.addOperatorAndConnect(op)
	return op, nil
}

// addOpWithOutputs wires a new operator using caller-supplied outputs (already owned by g via
// AddTensor), without invoking shape inference.
func (g *Graph) addOpWithOutputs(attrs Attrs, inputs, outputs []*Tensor) *Operator {
	op := g.newOperator(attrs, inputs, outputs)
	g.addOperatorAndConnect(op)
	return op
}

// AddMatmul adds a Matmul operator with newly-created, shape-inferred outputs.
func (g *Graph) AddMatmul(a, b *Tensor, transA, transB bool) (*Operator, error) {
	return g.addOp(&MatmulAttrs{TransA: transA, TransB: transB}, a, b)
}

// AddMatmulWithOutput adds a Matmul operator with a caller-supplied output tensor.
func (g *Graph) AddMatmulWithOutput(a, b, out *Tensor, transA, transB bool) *Operator {
	return g.addOpWithOutputs(&MatmulAttrs{TransA: transA, TransB: transB}, []*Tensor{a, b}, []*Tensor{out})
}

// AddTranspose adds a Transpose operator with a newly-created, shape-inferred output. It panics
// if perm is not a permutation of [0, rank) (rejected at construction).
func (g *Graph) AddTranspose(in *Tensor, perm []int) (*Operator, error) {
	if !IsPermutation(perm, in.Shape().Rank()) {
		Panicf("graph.AddTranspose: perm %v is not a permutation of [0, %d)", perm, in.Shape().Rank())
	}
	return g.addOp(&TransposeAttrs{Perm: append([]int(nil), perm...)}, in)
}

// AddTransposeWithOutput adds a Transpose operator with a caller-supplied output tensor.
func (g *Graph) AddTransposeWithOutput(in, out *Tensor, perm []int) *Operator {
	if !IsPermutation(perm, in.Shape().Rank()) {
		Panicf("graph.AddTransposeWithOutput: perm %v is not a permutation of [0, %d)", perm, in.Shape().Rank())
	}
	return g.addOpWithOutputs(&TransposeAttrs{Perm: append([]int(nil), perm...)}, []*Tensor{in}, []*Tensor{out})
}

// AddConcat adds a Concat operator with a newly-created, shape-inferred output. dim is
// normalized via shapes.NormalizeAxis before inference.
func (g *Graph) AddConcat(inputs []*Tensor, dim int) (*Operator, error) {
	if len(inputs) == 0 {
		return nil, shapes.NewShapeMismatch("Concat: no inputs")
	}
	normalized, err := shapes.NormalizeAxis(dim, inputs[0].Shape().Rank())
	if err != nil {
		return nil, err
	}
	return g.addOp(&ConcatAttrs{Dim: normalized}, inputs...)
}

// AddConcatWithOutput adds a Concat operator with a caller-supplied output tensor.
func (g *Graph) AddConcatWithOutput(inputs []*Tensor, out *Tensor, dim int) (*Operator, error) {
	normalized, err := shapes.NormalizeAxis(dim, inputs[0].Shape().Rank())
	if err != nil {
		return nil, err
	}
	return g.addOpWithOutputs(&ConcatAttrs{Dim: normalized}, inputs, []*Tensor{out}), nil
}

// RemoveOperator severs op's connectivity and deletes it from the graph: every input tensor
// drops op from its targets; every output tensor's source is cleared; every predecessor drops
// op from its successors and vice versa.
func (g *Graph) RemoveOperator(op *Operator) {
	for _, in := range op.inputs {
		in.RemoveTarget(op)
	}
	for _, out := range op.outputs {
		out.SetSource(nil)
	}
	for _, pred := range op.predecessors.Keys() {
		pred.RemoveSuccessors(op)
	}
	for _, succ := range op.successors.Keys() {
		succ.RemovePredecessors(op)
	}
	g.ops = removeOperator(g.ops, op)
	g.sorted = false
}

func removeOperator(ops []*Operator, target *Operator) []*Operator {
	kept := ops[:0]
	for _, op := range ops {
		if op != target {
			kept = append(kept, op)
		}
	}
	return kept
}

// String renders a summary of the graph's tensors and operators.
func (g *Graph) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Graph{%d tensors, %d ops, sorted=%v}", len(g.tensors), len(g.ops), g.sorted)
	for _, op := range g.ops {
		fmt.Fprintf(&b, "\n  %s: ", op)
		for i, in := range op.inputs {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s", in)
		}
		b.WriteString(" -> ")
		for i, out := range op.outputs {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s", out)
		}
	}
	return b.String()
}
