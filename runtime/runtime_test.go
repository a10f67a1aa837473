// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimpleRuntimeAllocDealloc(t *testing.T) {
	r := NewSimpleRuntime()
	buf, err := r.Alloc(16)
	require.NoError(t, err)
	require.Len(t, buf, 16)
	r.Dealloc(buf)
	require.Equal(t, 0, r.used)
}

func TestSimpleRuntimeNamesAreUnique(t *testing.T) {
	r1 := NewSimpleRuntime()
	r2 := NewSimpleRuntime()
	require.NotEqual(t, r1.String(), r2.String())
}

func TestBoundedSimpleRuntimeFailsOverCap(t *testing.T) {
	r := NewBoundedSimpleRuntime(32)
	_, err := r.Alloc(16)
	require.NoError(t, err)
	_, err = r.Alloc(16)
	require.NoError(t, err)

	_, err = r.Alloc(1)
	require.Error(t, err)
	var allocErr AllocationFailedError
	require.ErrorAs(t, err, &allocErr)
}
