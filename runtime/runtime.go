// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package runtime defines Runtime, the external collaborator injected into a Graph: it is
// responsible only for the raw allocation/deallocation of the byte buffer the arena planner
// (package allocator) sizes and offsets into. Package runtime is deliberately a thin boundary —
// concrete device backends (accelerators, pooled host allocators, etc.) are not its concern.
package runtime

import (
	"fmt"

	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Runtime is the allocation collaborator a Graph is constructed with. The allocator (package
// allocator) is its only caller.
type Runtime interface {
	// Alloc requests a raw buffer of the given size in bytes. It returns an AllocationFailedError
	// if the buffer cannot be provided.
	Alloc(bytes int) ([]byte, error)

	// Dealloc releases a buffer previously returned by Alloc. Calling it with a buffer not
	// obtained from this Runtime is a programmer error.
	Dealloc(buf []byte)

	// String identifies the runtime, e.g. in the allocator's diagnostic log lines.
	String() string
}

// AllocationFailedError is returned by Runtime.Alloc when the backing buffer could not be
// obtained.
type AllocationFailedError struct {
	error
}

func newAllocationFailed(format string, args ...any) error {
	return AllocationFailedError{fmt.Errorf(format, args...)}
}

// SimpleRuntime is a host-memory Runtime: Alloc makes a Go byte slice, Dealloc drops the
// reference. It is sufficient to exercise the allocator and graph end to end without a real
// device backend; graph.New still has to be given it explicitly.
type SimpleRuntime struct {
	name string

	// maxBytes, if non-zero, makes Alloc fail once the runtime's total outstanding allocation
	// would exceed it -- useful for exercising AllocationFailedError in tests.
	maxBytes int
	used     int
}

// NewSimpleRuntime creates a SimpleRuntime with a unique name and no allocation cap.
func NewSimpleRuntime() *SimpleRuntime {
	return &SimpleRuntime{name: "simple-runtime-" + uuid.NewString()}
}

// NewBoundedSimpleRuntime creates a SimpleRuntime that fails Alloc once more than maxBytes are
// outstanding at once.
func NewBoundedSimpleRuntime(maxBytes int) *SimpleRuntime {
	r := NewSimpleRuntime()
	r.maxBytes = maxBytes
	return r
}

// Alloc implements Runtime.
func (r *SimpleRuntime) Alloc(bytes int) ([]byte, error) {
	if r.maxBytes > 0 && r.used+bytes > r.maxBytes {
		return nil, newAllocationFailed(
			"%s: cannot allocate %d bytes, would exceed cap of %d bytes (%d already used)",
			r.name, bytes, r.maxBytes, r.used)
	}
	r.used += bytes
	klog.V(2).Infof("%s: allocated %d bytes (%d total)", r.name, bytes, r.used)
	return make([]byte, bytes), nil
}

// Dealloc implements Runtime.
func (r *SimpleRuntime) Dealloc(buf []byte) {
	r.used -= len(buf)
	klog.V(2).Infof("%s: released %d bytes (%d total)", r.name, len(buf), r.used)
}

// String implements Runtime and fmt.Stringer.
func (r *SimpleRuntime) String() string {
	return r.name
}
