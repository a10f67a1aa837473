// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package allocator implements Arena, an offset-based first-fit free-list memory planner:
// tensors are assigned byte offsets into a single contiguous buffer without ever touching a
// real pointer until the buffer is materialized on demand through a runtime.Runtime.
package allocator

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/gomlx/tensorgraph/runtime"
)

// DefaultAlignment is the allocator's default byte alignment: sizeof(uint64), the size of the
// widest element type a Tensor can carry.
const DefaultAlignment = 8

// Arena is a first-fit, free-list-with-coalescing offset allocator. It hands out integer byte
// offsets into a conceptual buffer that grows lazily; the real, contiguous backing buffer (of
// size Peak()) is only materialized the first time GetPtr is called.
//
// An Arena is not safe for concurrent use: graph construction and allocation planning is
// expected to run on a single goroutine.
type Arena struct {
	runtime   runtime.Runtime
	alignment int

	used int
	peak int

	// freeBlocks maps a free block's starting address to its size. Disjoint, non-adjacent by
	// construction: Free always coalesces with any adjacent neighbor.
	freeBlocks map[int]int

	// buf is nil until GetPtr's first call.
	buf []byte
}

// New creates an Arena backed by rt, using DefaultAlignment.
func New(rt runtime.Runtime) *Arena {
	return &Arena{
		runtime:    rt,
		alignment:  DefaultAlignment,
		freeBlocks: make(map[int]int),
	}
}

// Alloc reserves size bytes and returns the byte offset assigned to them. It first-fits into an
// existing free block, splitting off any remainder; if no free block is large enough, the arena
// grows by extending its high-water mark.
//
// Alloc panics if the backing buffer has already been materialized (GetPtr called): once real
// memory exists, offsets can no longer move.
func (a *Arena) Alloc(size int) int {
	if a.buf != nil {
		panic("allocator.Arena.Alloc: cannot allocate after GetPtr has materialized the buffer")
	}
	size = a.AlignUp(size)

	var bestAddr, bestSize int
	found := false
	for addr, blockSize := range a.freeBlocks {
		if blockSize < size {
			continue
		}
		if !found || addr < bestAddr {
			bestAddr, bestSize, found = addr, blockSize, true
		}
	}

	if found {
		delete(a.freeBlocks, bestAddr)
		if remaining := bestSize - size; remaining > 0 {
			a.freeBlocks[bestAddr+size] = remaining
		}
		a.use(size)
		klog.V(3).Infof("allocator: first-fit alloc %d bytes at offset %d", size, bestAddr)
		return bestAddr
	}

	addr := a.used
	a.use(size)
	klog.V(3).Infof("allocator: grew arena, alloc %d bytes at offset %d", size, addr)
	return addr
}

func (a *Arena) use(size int) {
	a.used += size
	if a.used > a.peak {
		a.peak = a.used
	}
}

// Free releases the block at addr (of the given size, as originally passed to Alloc) back to
// the free list, coalescing it with any adjacent free block.
func (a *Arena) Free(addr, size int) {
	if a.buf != nil {
		panic("allocator.Arena.Free: cannot free after GetPtr has materialized the buffer")
	}
	size = a.AlignUp(size)
	a.freeBlocks[addr] = size
	a.mergeAdjacent(addr, size)
	a.used -= size
}

// mergeAdjacent merges the free block at (addr, size) with its immediate predecessor and
// successor in the free list, if either is exactly adjacent.
func (a *Arena) mergeAdjacent(addr, size int) {
	for prevAddr, prevSize := range a.freeBlocks {
		if prevAddr+prevSize == addr {
			delete(a.freeBlocks, addr)
			addr, size = prevAddr, prevSize+size
			a.freeBlocks[addr] = size
			break
		}
	}
	if nextSize, ok := a.freeBlocks[addr+size]; ok {
		delete(a.freeBlocks, addr+size)
		size += nextSize
		a.freeBlocks[addr] = size
	}
}

// AlignUp rounds size up to the next multiple of the arena's alignment. AlignUp(0) is 0; for
// size < 0 it also returns 0, since no negative-size allocation is ever valid.
func (a *Arena) AlignUp(size int) int {
	if size <= 0 {
		return 0
	}
	return ((size-1)/a.alignment + 1) * a.alignment
}

// Used returns the number of bytes currently allocated (not freed).
func (a *Arena) Used() int { return a.used }

// Peak returns the high-water mark of bytes ever allocated at once: the size of the buffer
// GetPtr will materialize.
func (a *Arena) Peak() int { return a.peak }

// GetPtr materializes (on first call) and returns the arena's backing buffer, sized to Peak(),
// via the injected runtime.Runtime. Subsequent calls return the same buffer.
func (a *Arena) GetPtr() ([]byte, error) {
	if a.buf == nil {
		buf, err := a.runtime.Alloc(a.peak)
		if err != nil {
			return nil, err
		}
		a.buf = buf
		klog.V(2).Infof("allocator: materialized %s buffer via %s", humanize.Bytes(uint64(a.peak)), a.runtime)
	}
	return a.buf, nil
}

// Release returns the materialized buffer (if any) to the runtime. The Arena must not be used
// for further allocation planning afterwards.
func (a *Arena) Release() {
	if a.buf != nil {
		a.runtime.Dealloc(a.buf)
		a.buf = nil
	}
}

// String renders a human-readable usage report, in the spirit of the original's Allocator::info,
// extended with a free-block table.
func (a *Arena) String() string {
	s := fmt.Sprintf("Arena{used: %s, peak: %s, free blocks: %d}",
		humanize.Bytes(uint64(a.used)), humanize.Bytes(uint64(a.peak)), len(a.freeBlocks))
	if len(a.freeBlocks) == 0 {
		return s
	}
	addrs := make([]int, 0, len(a.freeBlocks))
	for addr := range a.freeBlocks {
		addrs = append(addrs, addr)
	}
	sort.Ints(addrs)
	for _, addr := range addrs {
		s += fmt.Sprintf("\n  [%d, %d) free (%s)", addr, addr+a.freeBlocks[addr], humanize.Bytes(uint64(a.freeBlocks[addr])))
	}
	return s
}
