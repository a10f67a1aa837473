// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

// CheckValid verifies the graph's connectivity invariants: no orphan tensors, every
// tensor/operator referenced by an operator is owned by this graph, and fuids are unique. It
// returns the first violation found as an InvariantViolatedError.
func (g *Graph) CheckValid() error {
	tensorOwned := make(map[*Tensor]bool, len(g.tensors))
	fuidSeen := make(map[FUID]bool, len(g.tensors))
	for _, t := range g.tensors {
		if fuidSeen[t.fuid] {
			return newInvariantViolated("CheckValid: duplicate fuid %d", t.fuid)
		}
		fuidSeen[t.fuid] = true
		tensorOwned[t] = true

		if t.source == nil && len(t.targets) == 0 {
			return newInvariantViolated("CheckValid: tensor %d is an orphan (no source, no targets)", t.fuid)
		}
	}

	opOwned := make(map[*Operator]bool, len(g.ops))
	for _, op := range g.ops {
		opOwned[op] = true
	}

	for _, op := range g.ops {
		for _, in := range op.inputs {
			if !tensorOwned[in] {
				return newInvariantViolated("CheckValid: operator %s references input tensor %d not owned by this graph", op, in.fuid)
			}
			if in.source != nil {
				if !opOwned[in.source] {
					return newInvariantViolated("CheckValid: tensor %d's source is not owned by this graph", in.fuid)
				}
				if !in.source.successors.Has(op) {
					return newInvariantViolated("CheckValid: operator %s not registered as successor of %s", op, in.source)
				}
				if !op.predecessors.Has(in.source) {
					return newInvariantViolated("CheckValid: %s not registered as predecessor of operator %s", in.source, op)
				}
			}
		}
		for _, out := range op.outputs {
			if !tensorOwned[out] {
				return newInvariantViolated("CheckValid: operator %s references output tensor %d not owned by this graph", op, out.fuid)
			}
			if out.source != op {
				return newInvariantViolated("CheckValid: output tensor %d's source is not operator %s", out.fuid, op)
			}
			for _, target := range out.targets {
				if !opOwned[target] {
					return newInvariantViolated("CheckValid: tensor %d has a target not owned by this graph", out.fuid)
				}
				if !op.successors.Has(target) {
					return newInvariantViolated("CheckValid: %s not registered as successor of operator %s", target, op)
				}
				if !target.predecessors.Has(op) {
					return newInvariantViolated("CheckValid: operator %s not registered as predecessor of %s", op, target)
				}
			}
		}
	}
	return nil
}
