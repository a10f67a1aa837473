// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := Make[int]()
	require.Equal(t, 0, s.Len())
	s.Insert(1, 2, 2, 3)
	require.Equal(t, 3, s.Len())
	require.True(t, s.Has(2))
	require.False(t, s.Has(4))

	s.Remove(2)
	require.False(t, s.Has(2))
	require.Equal(t, 2, s.Len())

	s.Remove(99) // no-op
	require.Equal(t, 2, s.Len())

	require.ElementsMatch(t, []int{1, 3}, s.Keys())
}
