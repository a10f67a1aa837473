// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

// DataMalloc topologically sorts g (a no-op if it is already sorted), then assigns every owned
// tensor (in insertion order) an offset via the arena allocator, materializes the backing
// buffer, and binds every tensor's blob to base+offset.
//
// Allocate-then-materialize: shape inference may still have changed tensor byte sizes since
// construction, so offsets are planned in one pass over the tensors' current sizes, bounding
// the arena's peak footprint before a single host allocation is committed.
func (g *Graph) DataMalloc() error {
	if err := g.TopoSort(); err != nil {
		return err
	}

	offsets := make([]int, len(g.tensors))
	for i, t := range g.tensors {
		offsets[i] = g.allocator.Alloc(t.Bytes())
	}

	buf, err := g.allocator.GetPtr()
	if err != nil {
		return err
	}

	for i, t := range g.tensors {
		t.SetDataBlob(Blob{Buf: buf, Offset: offsets[i], Size: t.Bytes()})
	}
	return nil
}
