// Copyright 2025 The Stax Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/stax-ml/stax/internal/tensor"
)

// Type aliases for public API

// DataType represents the underlying data type of an array.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Uint32  DataType = tensor.Uint32
	Bool    DataType = tensor.Bool
)

// MaxRank is the largest rank a Signature can describe.
const MaxRank = tensor.MaxRank

// Shape represents array dimensions.
type Shape = tensor.Shape

// Signature is the shape and dtype of an array, with no data.
// It is comparable and can be used as a map key.
type Signature = tensor.Signature

// Value is anything that flows between layers: *Array, Signature, Tuple or Empty.
type Value = tensor.Value

// Tuple is an ordered container of values.
type Tuple = tensor.Tuple

// Array is a dense CPU array.
type Array = tensor.Array

// Empty marks the absence of weights or state. It is not the same as Tuple{}.
var Empty = tensor.Empty

// NewSignature creates a signature. It panics if the shape is invalid.
func NewSignature(shape Shape, dtype DataType) Signature {
	return tensor.NewSignature(shape, dtype)
}

// FromSlice creates a float32 array from a Go slice.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice(data []float32, shape Shape) (*Array, error) {
	return tensor.FromSlice(data, shape)
}

// FromInts creates an int32 array, typically token ids.
func FromInts(data []int32, shape Shape) (*Array, error) {
	return tensor.FromInts(data, shape)
}

// Zeros creates an array filled with zeros.
func Zeros(shape Shape, dtype DataType) *Array {
	return tensor.Zeros(shape, dtype)
}

// Full creates an array filled with v.
func Full(shape Shape, dtype DataType, v float32) *Array {
	return tensor.Full(shape, dtype, v)
}

// Scalar creates a rank-0 float32 array.
func Scalar(v float32) *Array {
	return tensor.Scalar(v)
}

// SignatureOf replaces every array in v with its signature, keeping the tuple structure.
func SignatureOf(v Value) Value {
	return tensor.SignatureOf(v)
}

// Leaves flattens the arrays and signatures of v in order.
func Leaves(v Value) []Value {
	return tensor.Leaves(v)
}

// IsEmpty reports whether v is the Empty sentinel.
func IsEmpty(v Value) bool {
	return tensor.IsEmpty(v)
}

// IsAbstract reports whether v contains at least one Signature.
func IsAbstract(v Value) bool {
	return tensor.IsAbstract(v)
}
