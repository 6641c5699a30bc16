// Copyright 2025 The Stax Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package layers

import (
	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/tensor"
)

// Layer is a node of a computation graph, either a leaf or a combinator.
// Implementations embed Base.
type Layer = layer.Layer

// Base carries the bookkeeping shared by every layer.
type Base = layer.Base

// Site records where a layer was constructed.
type Site = layer.Site

// Optional behaviors a layer implements.
type (
	Forwarder                  = layer.Forwarder
	StatefulForwarder          = layer.StatefulForwarder
	WeightsInitializer         = layer.WeightsInitializer
	WeightsAndStateInitializer = layer.WeightsAndStateInitializer
	Backwarder                 = layer.Backwarder
)

// LayerError reports a failure inside a layer.
type LayerError = layer.LayerError

// Sentinel errors, matched with errors.Is.
var (
	ErrConstruction = layer.ErrConstruction
	ErrArity        = layer.ErrArity
	ErrTreeShape    = layer.ErrTreeShape
)

// DefaultSeed seeds Init when no key is supplied.
const DefaultSeed = layer.DefaultSeed

// Key is a splittable random key.
type Key = random.Key

// NewKey derives a key from an integer seed.
func NewKey(seed uint64) Key {
	return random.New(seed)
}

// SplitKey derives n independent keys from k.
func SplitKey(k Key, n int) []Key {
	return random.Split(k, n)
}

// NewBase creates the bookkeeping for a custom layer.
//
// Example:
//
//	type Double struct{ layers.Base }
//
//	func NewDouble() *Double {
//	    return &Double{Base: layers.NewBase("Double", 1, 1, layers.Caller(1))}
//	}
func NewBase(name string, nIn, nOut int, site Site, sublayers ...Layer) Base {
	return layer.NewBase(name, nIn, nOut, site, sublayers...)
}

// Caller captures the construction site skip frames above the caller.
func Caller(skip int) Site {
	return layer.Caller(skip + 1)
}

// Init seeds l from key, computes its weights and state for inputSignature
// and caches them. Later calls return Empty weights and the recomputed state.
func Init(l Layer, inputSignature tensor.Value, key Key) (weights, state tensor.Value, err error) {
	return layer.Init(l, inputSignature, key)
}

// Apply runs l. Empty weights or state resolve to the cached copies.
func Apply(l Layer, inputs, weights, state tensor.Value, rng Key) (outputs, newState tensor.Value, err error) {
	return layer.Apply(l, inputs, weights, state, rng)
}

// CallOption customizes Call.
type CallOption = layer.CallOption

// Weights overrides the cached weights for one Call.
func Weights(w tensor.Value) CallOption { return layer.Weights(w) }

// State overrides the cached state for one Call.
func State(s tensor.Value) CallOption { return layer.State(s) }

// RNG supplies the key for one Call.
func RNG(k Key) CallOption { return layer.RNG(k) }

// Call runs l as a plain function and discards the updated state.
func Call(l Layer, inputs tensor.Value, opts ...CallOption) (tensor.Value, error) {
	return layer.Call(l, inputs, opts...)
}

// ForwardAbstract infers output and state signatures without computing anything.
func ForwardAbstract(l Layer, sig tensor.Value) (outputs, state tensor.Value, err error) {
	return layer.ForwardAbstract(l, sig)
}

// CheckShapeAgreement compares inferred and computed output shapes.
func CheckShapeAgreement(l Layer, inputSignature tensor.Value) (tensor.Value, error) {
	return layer.CheckShapeAgreement(l, inputSignature)
}

// WithWeights returns a copy of the tree rooted at l caching w.
func WithWeights(l Layer, w tensor.Value) (Layer, error) {
	return layer.WithWeights(l, w)
}

// WithState returns a copy of the tree rooted at l caching s.
func WithState(l Layer, s tensor.Value) (Layer, error) {
	return layer.WithState(l, s)
}

// VJP returns the gradients of <outputs, grad> with respect to inputs and weights.
func VJP(l Layer, inputs, weights, state tensor.Value, rng Key, grad tensor.Value) (gradInputs, gradWeights tensor.Value, err error) {
	return layer.VJP(l, inputs, weights, state, rng, grad)
}

// Summary renders the tree with parameter counts.
func Summary(l Layer) string {
	return layer.Summary(l)
}

// CountParams returns the number of cached trainable parameters.
func CountParams(l Layer) int {
	return layer.CountParams(l)
}

// Function layers.
type (
	FnLayer        = layer.FnLayer
	FnOption       = layer.FnOption
	ForwardFunc    = layer.ForwardFunc
	NewWeightsFunc = layer.NewWeightsFunc
)

// Fn turns a function into a layer.
//
// Example:
//
//	double := layers.Fn("Double", 1, 1, func(x, _ tensor.Value) (tensor.Value, error) {
//	    return tensor.MulScalar(x, 2), nil
//	})
func Fn(name string, nIn, nOut int, forward ForwardFunc, opts ...FnOption) *FnLayer {
	return layer.Fn(name, nIn, nOut, forward, append([]FnOption{layer.AtSite(layer.Caller(1))}, opts...)...)
}

// WithNewWeights gives a function layer a weight initializer.
func WithNewWeights(fn NewWeightsFunc) FnOption {
	return layer.WithNewWeights(fn)
}
