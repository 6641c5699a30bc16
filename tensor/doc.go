// Copyright 2025 The Stax Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the values layers exchange.
//
// # Overview
//
// A Value is one of four kinds:
//   - *Array: concrete data, row-major on the CPU
//   - Signature: shape and dtype only, used for abstract shape inference
//   - Tuple: an ordered, possibly nested container of values
//   - Empty: the "no weights / no state" sentinel, distinct from Tuple{}
//
// # Basic Usage
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	sig := tensor.SignatureOf(x) // Signature{(2, 3), float32}
//
//	ids, _ := tensor.FromInts([]int32{5, 1, 7}, tensor.Shape{1, 3})
//	pair := tensor.Tuple{x, ids}
package tensor
