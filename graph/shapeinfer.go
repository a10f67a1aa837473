// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

// ShapeInfer walks g.Ops() in order (which must already be topologically sorted) and updates
// each operator's output tensors in place with freshly inferred shapes. An operator whose
// InferShape fails is fatal: ShapeInfer returns InferenceFailedError immediately.
func (g *Graph) ShapeInfer() error {
	for _, op := range g.ops {
		outShapes, err := op.InferShape()
		if err != nil {
			return newInferenceFailed("ShapeInfer: operator %s: %v", op, err)
		}
		if len(outShapes) != len(op.outputs) {
			return newInferenceFailed(
				"ShapeInfer: operator %s produced %d shapes for %d outputs", op, len(outShapes), len(op.outputs))
		}
		for i, s := range outShapes {
			out := op.outputs[i]
			if !out.Shape().Equal(s) {
				out.SetShape(s)
			}
		}
	}
	return nil
}
