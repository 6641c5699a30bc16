// Copyright 2025 The Stax Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layers provides the layer contract, the combinators that compose
// layers into networks, and a set of leaf layers.
//
// # Overview
//
// A layer consumes NIn items from the top of a data stack and pushes NOut
// items back. Inputs and outputs are packaged by count: no item is an empty
// Tuple, one item is the bare value, and several items form a Tuple.
//
// Weights and state mirror the layer tree: a combinator's weights are a
// Tuple with one entry per sublayer. Init computes them once and caches
// them on the layer; Apply uses the cache unless it is given explicit values.
//
// # Basic Usage
//
//	model := layers.Serial(
//	    layers.Dense(128),
//	    layers.Relu(),
//	    layers.Dense(10),
//	    layers.LogSoftmax(),
//	)
//
//	x := tensor.NewSignature(tensor.Shape{32, 784}, tensor.Float32)
//	if _, _, err := layers.Init(model, x, layers.NewKey(0)); err != nil {
//	    log.Fatal(err)
//	}
//	out, err := layers.Call(model, input)
//
// # Combinators
//
// Serial: run layers one after another over the stack
//
// Parallel: run layers side by side over consecutive stack slices
//
// Branch: run layers on copies of the top of the stack
//
// Select, Dup, Swap, Drop: reorder, copy and discard stack items
//
// Scan: fold a layer along one axis, threading a carry
//
// Residual, SerialWithSideOutputs: common patterns built from the above
//
// # Errors
//
// Failures inside a layer surface once as a *LayerError naming the layer,
// the operation, where the layer was constructed, the input shapes and the
// path from the outermost layer. Malformed combinator arguments wrap
// ErrConstruction.
package layers
