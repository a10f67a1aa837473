// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package dtypes defines the element data types supported by tensorgraph tensors: a single
// canonical floating-point type, Float32, plus the handful of integer/float/bool types a graph
// IR plausibly carries around for indices and masks.
package dtypes

import (
	"reflect"

	. "github.com/gomlx/exceptions"
)

// DType is the element type of a Tensor.
type DType int8

const (
	// InvalidDType is the zero value, used for uninitialized shapes.
	InvalidDType DType = iota
	Bool
	Int32
	Int64
	Float32
	Float64
)

var dtypeNames = [...]string{
	InvalidDType: "InvalidDType",
	Bool:         "Bool",
	Int32:        "Int32",
	Int64:        "Int64",
	Float32:      "Float32",
	Float64:      "Float64",
}

// String implements fmt.Stringer.
func (d DType) String() string {
	if int(d) < 0 || int(d) >= len(dtypeNames) {
		return "UnknownDType"
	}
	return dtypeNames[d]
}

var goTypeSizes = [...]uintptr{
	InvalidDType: 0,
	Bool:         1,
	Int32:        4,
	Int64:        8,
	Float32:      4,
	Float64:      8,
}

// Memory returns the number of bytes used by one element of this DType. The allocator's default
// alignment (8 bytes) is chosen to be the widest Memory() among supported dtypes.
func (d DType) Memory() uintptr {
	if int(d) < 0 || int(d) >= len(goTypeSizes) {
		Panicf("unknown dtype %d", int(d))
	}
	return goTypeSizes[d]
}

// IsFloat reports whether d is one of the floating-point types.
func (d DType) IsFloat() bool {
	return d == Float32 || d == Float64
}

// IsInt reports whether d is one of the integer types.
func (d DType) IsInt() bool {
	return d == Int32 || d == Int64
}

// GoType returns the reflect.Type of the Go value backing this DType.
func (d DType) GoType() reflect.Type {
	switch d {
	case Bool:
		return reflect.TypeOf(false)
	case Int32:
		return reflect.TypeOf(int32(0))
	case Int64:
		return reflect.TypeOf(int64(0))
	case Float32:
		return reflect.TypeOf(float32(0))
	case Float64:
		return reflect.TypeOf(float64(0))
	default:
		return nil
	}
}
