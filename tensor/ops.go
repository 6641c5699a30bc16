// Copyright 2025 The Stax Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/stax-ml/stax/internal/tensor"
)

// Operations accept concrete arrays or signatures. Given a signature they
// only infer the result's shape and dtype. Invalid shapes panic; inside a
// layer the panic is reported as a LayerError.

// Add adds with NumPy broadcasting.
func Add(a, b Value) Value { return tensor.Add(a, b) }

// Sub subtracts with NumPy broadcasting.
func Sub(a, b Value) Value { return tensor.Sub(a, b) }

// Mul multiplies elementwise with NumPy broadcasting.
func Mul(a, b Value) Value { return tensor.Mul(a, b) }

// Div divides elementwise with NumPy broadcasting.
func Div(a, b Value) Value { return tensor.Div(a, b) }

// AddScalar adds s to every element.
func AddScalar(a Value, s float32) Value { return tensor.AddScalar(a, s) }

// MulScalar multiplies every element by s.
func MulScalar(a Value, s float32) Value { return tensor.MulScalar(a, s) }

// Exp applies e^x elementwise.
func Exp(a Value) Value { return tensor.Exp(a) }

// Log applies the natural logarithm elementwise.
func Log(a Value) Value { return tensor.Log(a) }

// Sqrt applies the square root elementwise.
func Sqrt(a Value) Value { return tensor.Sqrt(a) }

// Tanh applies the hyperbolic tangent elementwise.
func Tanh(a Value) Value { return tensor.Tanh(a) }

// Sigmoid applies 1 / (1 + exp(-x)) elementwise.
func Sigmoid(a Value) Value { return tensor.Sigmoid(a) }

// Relu applies max(0, x) elementwise.
func Relu(a Value) Value { return tensor.Relu(a) }

// MatMul multiplies x[..., k] by w[k, n].
func MatMul(x, w Value) Value { return tensor.MatMul(x, w) }

// Mean averages along axis.
func Mean(a Value, axis int, keepDims bool) Value { return tensor.Mean(a, axis, keepDims) }

// Argmax returns the int32 index of the largest element along axis.
func Argmax(a Value, axis int) Value { return tensor.Argmax(a, axis) }

// Concatenate joins values along axis.
func Concatenate(vs []Value, axis int) Value { return tensor.Concatenate(vs, axis) }

// Reshape returns v with a new shape of equal element count.
func Reshape(v Value, shape Shape) Value { return tensor.Reshape(v, shape) }
