// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/tensorgraph/dtypes"
	"github.com/gomlx/tensorgraph/runtime"
)

func TestCheckValidOnFreshGraph(t *testing.T) {
	g := New(runtime.NewSimpleRuntime())
	a := g.AddTensor(dtypes.Float32, 2, 3)
	b := g.AddTensor(dtypes.Float32, 3, 4)
	_, err := g.AddMatmul(a, b, false, false)
	require.NoError(t, err)
	require.NoError(t, g.CheckValid())
}

func TestCheckValidDetectsOrphanTensor(t *testing.T) {
	g := New(runtime.NewSimpleRuntime())
	g.AddTensor(dtypes.Float32, 2, 3) // never wired to any operator

	err := g.CheckValid()
	require.Error(t, err)
	var invErr InvariantViolatedError
	require.ErrorAs(t, err, &invErr)
}

func TestCheckValidDetectsDuplicateFUID(t *testing.T) {
	g := New(runtime.NewSimpleRuntime())
	a := g.AddTensor(dtypes.Float32, 2, 3)
	b := g.AddTensor(dtypes.Float32, 3, 4)
	_, err := g.AddMatmul(a, b, false, false)
	require.NoError(t, err)

	// Tamper directly: force a duplicate fuid to exercise the uniqueness check.
	g.tensors[1].fuid = g.tensors[0].fuid
	err = g.CheckValid()
	require.Error(t, err)
}

func TestCheckValidDetectsBrokenSuccessorLink(t *testing.T) {
	g := New(runtime.NewSimpleRuntime())
	a := g.AddTensor(dtypes.Float32, 2, 3)
	b := g.AddTensor(dtypes.Float32, 3, 4)
	op, err := g.AddMatmul(a, b, false, false)
	require.NoError(t, err)

	// Tamper directly: add a Transpose consuming op's output, then drop it from op's successor
	// set, so the output side of op has a target that op does not list as a successor.
	out := op.Outputs()[0]
	target, err2 := g.AddTranspose(out, []int{1, 0})
	require.NoError(t, err2)
	op.RemoveSuccessors(target)

	err = g.CheckValid()
	require.Error(t, err)
}
