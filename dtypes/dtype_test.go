// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDTypeMemory(t *testing.T) {
	require.Equal(t, uintptr(4), Float32.Memory())
	require.Equal(t, uintptr(8), Float64.Memory())
	require.Equal(t, uintptr(8), Int64.Memory())
}

func TestDTypeString(t *testing.T) {
	require.Equal(t, "Float32", Float32.String())
	require.Equal(t, "InvalidDType", InvalidDType.String())
}

func TestDTypeClassifiers(t *testing.T) {
	require.True(t, Float32.IsFloat())
	require.False(t, Float32.IsInt())
	require.True(t, Int64.IsInt())
	require.False(t, Int64.IsFloat())
}
