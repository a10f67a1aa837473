// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

// transposePair is a candidate match for the identical/inverse-transpose collapse pass.
type transposePair struct {
	u, v *Operator
}

// Optimize runs two fixed rewrite passes in order, followed by cleanupUnusedTensors. Both
// passes collect all match candidates before mutating the graph, so that mutation never
// invalidates an in-progress scan.
func (g *Graph) Optimize() {
	g.collapseTransposePairs()
	g.fuseTransposeIntoMatmul()
	g.cleanupUnusedTensors()
	g.sorted = false
}

// collapseTransposePairs finds Transpose->Transpose chains whose permutations cancel out and
// removes both operators, rewiring the chain's consumers to read directly from its original
// input.
//
// Matching on *equal* permutations rather than *inverse* ones is unsound outside involutions.
// This implementation defaults to the sound inverse rule; SetCompatPermutationMode(true)
// restores the equal-permutation behavior for callers that need it.
func (g *Graph) collapseTransposePairs() {
	var matches []transposePair
	claimed := make(map[*Operator]bool)
	for _, op := range g.ops {
		if op.Kind() != TransposeKind || claimed[op] {
			continue
		}
		u := op.attrs.(*TransposeAttrs)
		for _, succ := range op.successors.Keys() {
			if succ.Kind() != TransposeKind || claimed[succ] {
				continue
			}
			v := succ.attrs.(*TransposeAttrs)
			matched := isInversePermutation(u.Perm, v.Perm)
			if g.compatPermutationMode {
				matched = isIdenticalPermutation(u.Perm, v.Perm)
			}
			if matched {
				matches = append(matches, transposePair{u: op, v: succ})
				claimed[op], claimed[succ] = true, true
				break
			}
		}
	}

	for _, m := range matches {
		g.reconnectAroundPair(m.u, m.v)
		g.RemoveOperator(m.u)
		g.RemoveOperator(m.v)
	}
}

// reconnectAroundPair splices out the u->v chain: every consumer of v's output is rewired to
// read u's input directly, and u's predecessors become predecessors of v's successors.
func (g *Graph) reconnectAroundPair(u, v *Operator) {
	uInput := u.inputs[0]
	vOutput := v.outputs[0]

	for _, target := range append([]*Operator(nil), vOutput.Targets()...) {
		if target == u || target == v {
			continue
		}
		target.ReplaceInput(vOutput, uInput)
		uInput.AddTarget(target)
	}

	for _, pred := range u.predecessors.Keys() {
		for _, succ := range v.successors.Keys() {
			if pred == succ {
				continue
			}
			pred.AddSuccessors(succ)
			succ.AddPredecessors(pred)
		}
	}
}

// transposeMatmulPair is a candidate match for the transpose-into-matmul fusion pass.
type transposeMatmulPair struct {
	transpose, matmul *Operator
}

// fuseTransposeIntoMatmul folds a Transpose that only swaps the last two axes into a
// succeeding Matmul's TransA/TransB attribute, replacing the matmul's input and removing the
// transpose.
func (g *Graph) fuseTransposeIntoMatmul() {
	var matches []transposeMatmulPair
	for _, op := range g.ops {
		if op.Kind() != TransposeKind {
			continue
		}
		t := op.attrs.(*TransposeAttrs)
		if !swapsLastTwoAxes(t.Perm) {
			continue
		}
		for _, succ := range op.successors.Keys() {
			if succ.Kind() == MatmulKind {
				matches = append(matches, transposeMatmulPair{transpose: op, matmul: succ})
				break
			}
		}
	}

	for _, m := range matches {
		g.mergeTransposeIntoMatmul(m.transpose, m.matmul)
		g.RemoveOperator(m.transpose)
	}
}

func (g *Graph) mergeTransposeIntoMatmul(transpose, matmul *Operator) {
	transposeInput := transpose.inputs[0]
	transposeOutput := transpose.outputs[0]
	attrs := matmul.attrs.(*MatmulAttrs)

	switch transposeOutput {
	case matmul.inputs[0]:
		attrs.TransA = true
		matmul.ReplaceInput(transposeOutput, transposeInput)
	case matmul.inputs[1]:
		attrs.TransB = true
		matmul.ReplaceInput(transposeOutput, transposeInput)
	default:
		return
	}
	transposeInput.AddTarget(matmul)
	transposeOutput.RemoveTarget(matmul)
}

// cleanupUnusedTensors drops every owned tensor not referenced as an input or output of any
// surviving operator.
func (g *Graph) cleanupUnusedTensors() {
	used := make(map[*Tensor]bool, len(g.tensors))
	for _, op := range g.ops {
		for _, in := range op.inputs {
			used[in] = true
		}
		for _, out := range op.outputs {
			used[out] = true
		}
	}

	kept := g.tensors[:0]
	for _, t := range g.tensors {
		if used[t] {
			kept = append(kept, t)
		}
	}
	g.tensors = kept
}
