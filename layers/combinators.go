// Copyright 2025 The Stax Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package layers

import (
	cb "github.com/stax-ml/stax/internal/combinators"
	"github.com/stax-ml/stax/internal/layer"
)

// Combinator types.
type (
	SerialLayer   = cb.SerialLayer
	ParallelLayer = cb.ParallelLayer
	ScanLayer     = cb.ScanLayer
)

func at[L Layer](l L, err error) (L, error) {
	if err != nil {
		return l, err
	}
	return layer.Relocate(l, layer.Caller(2)), nil
}

// NewSerial composes layers one after another over the data stack.
// Arguments are layers, nil, or (nested) slices of them.
func NewSerial(ls ...any) (*SerialLayer, error) { return at(cb.NewSerial(ls...)) }

// Serial is like NewSerial but panics on malformed arguments.
//
// Example:
//
//	mlp := layers.Serial(layers.Dense(64), layers.Relu(), layers.Dense(10))
func Serial(ls ...any) *SerialLayer { return layer.Relocate(cb.Serial(ls...), layer.Caller(1)) }

// NewParallel runs two or more layers side by side over consecutive stack slices.
func NewParallel(ls ...any) (*ParallelLayer, error) { return at(cb.NewParallel(ls...)) }

// Parallel is like NewParallel but panics on malformed arguments.
func Parallel(ls ...any) *ParallelLayer {
	return layer.Relocate(cb.Parallel(ls...), layer.Caller(1))
}

// NewBranch runs layers on copies of the top of the stack.
func NewBranch(ls ...any) (*SerialLayer, error) { return at(cb.NewBranch(ls...)) }

// Branch is like NewBranch but panics on malformed arguments.
func Branch(ls ...any) *SerialLayer { return layer.Relocate(cb.Branch(ls...), layer.Caller(1)) }

// NewResidual adds shortcut(x) to the serial composition of ls applied to x.
func NewResidual(shortcut any, ls ...any) (*SerialLayer, error) {
	return at(cb.NewResidual(shortcut, ls...))
}

// Residual is NewResidual with an identity shortcut, panicking on malformed arguments.
func Residual(ls ...any) *SerialLayer { return layer.Relocate(cb.Residual(ls...), layer.Caller(1)) }

// NewSerialWithSideOutputs runs ls serially, collecting nSideOutputs of each
// layer's outputs at the bottom of the stack.
func NewSerialWithSideOutputs(ls []Layer, nSideOutputs ...int) (*SerialLayer, error) {
	return at(cb.NewSerialWithSideOutputs(ls, nSideOutputs...))
}

// SerialWithSideOutputs is like NewSerialWithSideOutputs but panics on malformed arguments.
func SerialWithSideOutputs(ls []Layer, nSideOutputs ...int) *SerialLayer {
	return layer.Relocate(cb.SerialWithSideOutputs(ls, nSideOutputs...), layer.Caller(1))
}

// NewScan folds l along axis, threading its last nCarry inputs as a carry.
func NewScan(l Layer, axis, nCarry int) (*ScanLayer, error) { return at(cb.NewScan(l, axis, nCarry)) }

// Scan is like NewScan but panics on malformed arguments.
func Scan(l Layer, axis, nCarry int) *ScanLayer {
	return layer.Relocate(cb.Scan(l, axis, nCarry), layer.Caller(1))
}

// NewSelect copies and reorders stack items; output i is input indices[i].
// A negative nIn defaults to max(indices)+1.
func NewSelect(indices []int, nIn int) (*FnLayer, error) { return at(cb.NewSelect(indices, nIn)) }

// Select is like NewSelect with the default n_in.
func Select(indices ...int) *FnLayer {
	return layer.Relocate(cb.Select(indices...), layer.Caller(1))
}

// Dup duplicates the top stack item.
func Dup() *FnLayer { return layer.Relocate(cb.Dup(), layer.Caller(1)) }

// Dup2 copies the top two stack items.
func Dup2() *FnLayer { return layer.Relocate(cb.Dup2(), layer.Caller(1)) }

// Dup3 copies the top three stack items.
func Dup3() *FnLayer { return layer.Relocate(cb.Dup3(), layer.Caller(1)) }

// Swap swaps the top two stack items.
func Swap() *FnLayer { return layer.Relocate(cb.Swap(), layer.Caller(1)) }

// Drop discards the top stack item.
func Drop() *FnLayer { return layer.Relocate(cb.Drop(), layer.Caller(1)) }

// Add adds the top two stack items.
func Add() *FnLayer { return layer.Relocate(cb.Add(), layer.Caller(1)) }

// SubtractTop subtracts the top stack item from the one below it.
func SubtractTop() *FnLayer { return layer.Relocate(cb.SubtractTop(), layer.Caller(1)) }

// Multiply multiplies the top two stack items elementwise.
func Multiply() *FnLayer { return layer.Relocate(cb.Multiply(), layer.Caller(1)) }

// Gate mixes (memory, gate, candidate) into gate*memory + (1-gate)*candidate.
func Gate() *FnLayer { return layer.Relocate(cb.Gate(), layer.Caller(1)) }

// Concatenate joins the top n stack items along axis.
func Concatenate(n, axis int) *FnLayer {
	return layer.Relocate(cb.Concatenate(n, axis), layer.Caller(1))
}

// Split divides the top stack item into n equal parts along axis.
func Split(n, axis int) *FnLayer { return layer.Relocate(cb.Split(n, axis), layer.Caller(1)) }

// FlattenList replaces a nested tuple on the top of the stack with its n leaves.
func FlattenList(n int) *FnLayer { return layer.Relocate(cb.FlattenList(n), layer.Caller(1)) }
