// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

// CycleDetectedError is returned by TopoSort when the graph contains a directed cycle.
type CycleDetectedError struct{ error }

// TopoSort orders g.Ops() so that every operator's predecessors precede it. If the graph is
// already known to be sorted, it returns immediately.
//
// Algorithm: repeatedly scan the remaining operators and move to the output any operator all of
// whose inputs either have no source or whose source already appears in the output. If a full
// scan makes no progress while operators remain, the graph has a cycle. Ties are broken by
// insertion order among operators that become ready in the same pass, so the result is stable
// with respect to insertion order.
func (g *Graph) TopoSort() error {
	if g.sorted {
		return nil
	}

	remaining := append([]*Operator(nil), g.ops...)
	sortedOps := make([]*Operator, 0, len(remaining))
	placed := make(map[*Operator]bool, len(remaining))

	for len(remaining) > 0 {
		progressed := false
		next := remaining[:0]
		for _, op := range remaining {
			if isReady(op, placed) {
				sortedOps = append(sortedOps, op)
				placed[op] = true
				progressed = true
			} else {
				next = append(next, op)
			}
		}
		remaining = next
		if !progressed {
			return CycleDetectedError{cycleError(len(remaining))}
		}
	}

	g.ops = sortedOps
	g.sorted = true
	return nil
}

func isReady(op *Operator, placed map[*Operator]bool) bool {
	for _, in := range op.inputs {
		if in.source == nil {
			continue
		}
		if !placed[in.source] {
			return false
		}
	}
	return true
}
