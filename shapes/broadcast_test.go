// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroadcast(t *testing.T) {
	tests := []struct {
		a, b, want []int
	}{
		{[]int{1, 3, 4}, []int{2, 1, 4}, []int{2, 3, 4}},
		{nil, []int{5}, []int{5}},
		{[]int{5}, nil, []int{5}},
		{[]int{7}, []int{7}, []int{7}},
		{[]int{1}, []int{9}, []int{9}},
	}
	for _, tc := range tests {
		got, err := Broadcast(tc.a, tc.b)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestBroadcastCommutative(t *testing.T) {
	a, b := []int{1, 3, 4}, []int{2, 1, 4}
	ab, err := Broadcast(a, b)
	require.NoError(t, err)
	ba, err := Broadcast(b, a)
	require.NoError(t, err)
	require.Equal(t, ab, ba)
}

func TestBroadcastMismatch(t *testing.T) {
	_, err := Broadcast([]int{3, 4}, []int{5, 4})
	require.Error(t, err)
	var mismatch ShapeMismatchError
	require.ErrorAs(t, err, &mismatch)
}
