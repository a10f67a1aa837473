// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/tensorgraph/dtypes"
	"github.com/gomlx/tensorgraph/runtime"
)

func TestAddExistingTensorSharesAcrossGraphsOnSameRuntime(t *testing.T) {
	rt := runtime.NewSimpleRuntime()
	g1 := New(rt)
	g2 := New(rt)

	t1 := g1.AddTensor(dtypes.Float32, 2, 3)
	require.NoError(t, g2.AddExistingTensor(t1))

	got, ok := g2.GetTensor(t1.FUID())
	require.True(t, ok)
	require.Same(t, t1, got)
}

func TestAddExistingTensorRejectsDifferentRuntime(t *testing.T) {
	g1 := New(runtime.NewSimpleRuntime())
	g2 := New(runtime.NewSimpleRuntime())

	t1 := g1.AddTensor(dtypes.Float32, 2, 3)
	err := g2.AddExistingTensor(t1)
	require.Error(t, err)
	var rtErr RuntimeMismatchError
	require.ErrorAs(t, err, &rtErr)
}

func TestAddExistingTensorSameGraphIsNoop(t *testing.T) {
	g := New(runtime.NewSimpleRuntime())
	tensor := g.AddTensor(dtypes.Float32, 2, 3)
	require.NoError(t, g.AddExistingTensor(tensor))
	require.Len(t, g.Tensors(), 1)
}
