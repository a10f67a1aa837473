// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import "sync/atomic"

// fuidCounter and guidCounter back Tensor.fuid and Operator.guid: process-wide monotonic
// counters, so ids stay unique even across multiple Graphs in the same process.
var (
	fuidCounter atomic.Uint64
	guidCounter atomic.Uint64
)

// FUID is a Tensor's stable, process-wide unique identifier.
type FUID uint64

// GUID is an Operator's stable, process-wide unique identifier.
type GUID uint64

func nextFUID() FUID {
	return FUID(fuidCounter.Add(1))
}

func nextGUID() GUID {
	return GUID(guidCounter.Add(1))
}
