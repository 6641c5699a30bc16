// Package layer implements the layer contract: declared input/output arity,
// weight and state trees that mirror the sublayer nesting, one-shot
// initialization, per-instance splittable randomness, and abstract (data-free)
// shape inference.
//
// Layers communicate through a data stack. Inputs and outputs are packaged by
// count:
//
//   - 0 values: an empty tensor.Tuple
//   - 1 value: the bare value (NOT wrapped in a tuple)
//   - n > 1 values: a tensor.Tuple of n values
//
// Concrete layers embed Base and implement Forward or ForwardWithState, plus
// NewWeights or NewWeightsAndState when they own weights or state.
package layer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// Layer is a node of a computation graph, either a leaf or a combinator.
//
// The interface can only be satisfied by embedding Base.
type Layer interface {
	// Name returns the layer's type name, used in errors and summaries.
	Name() string

	// NIn returns how many stack items the layer consumes.
	NIn() int

	// NOut returns how many stack items the layer produces.
	NOut() int

	// Sublayers returns the direct children; empty for leaves.
	Sublayers() []Layer

	String() string

	base() *Base
}

// Forwarder is implemented by layers whose computation needs neither state nor randomness.
type Forwarder interface {
	Forward(inputs, weights tensor.Value) (tensor.Value, error)
}

// StatefulForwarder is implemented by layers that read or update state or use randomness.
type StatefulForwarder interface {
	ForwardWithState(inputs, weights, state tensor.Value, rng random.Key) (outputs, newState tensor.Value, err error)
}

// WeightsInitializer is implemented by layers that own trainable weights.
type WeightsInitializer interface {
	NewWeights(inputSignature tensor.Value) (tensor.Value, error)
}

// WeightsAndStateInitializer is implemented by layers that own state, and by combinators.
type WeightsAndStateInitializer interface {
	NewWeightsAndState(inputSignature tensor.Value) (weights, state tensor.Value, err error)
}

// Backwarder is implemented by layers that supply a custom gradient rule.
// The rule is used only when HasBackward reports true.
type Backwarder interface {
	HasBackward() bool

	// Backward returns gradients with respect to inputs and weights, given the
	// gradient of the outputs.
	Backward(inputs, output, grad, weights, state, newState tensor.Value, rng random.Key) (gradInputs, gradWeights tensor.Value, err error)
}

// Base carries the bookkeeping shared by every layer.
//
// Base is not safe for concurrent use; forward passes sharing cached weights
// must be serialized by the caller.
type Base struct {
	name      string
	nIn, nOut int
	sublayers []Layer
	site      Site
	id        uuid.UUID

	rng            random.Key
	inputSignature tensor.Value
	weights        tensor.Value
	state          tensor.Value
	initialized    bool
}

// NewBase creates the bookkeeping for a layer. It panics if an arity is negative.
//
// Example:
//
//	type Double struct{ layer.Base }
//
//	func NewDouble() *Double {
//	    return &Double{Base: layer.NewBase("Double", 1, 1, layer.Caller(1))}
//	}
func NewBase(name string, nIn, nOut int, site Site, sublayers ...Layer) Base {
	if nIn < 0 || nOut < 0 {
		panic(fmt.Sprintf("layer %s: arity must be non-negative, got n_in=%d n_out=%d", name, nIn, nOut))
	}
	return Base{
		name:      name,
		nIn:       nIn,
		nOut:      nOut,
		sublayers: sublayers,
		site:      site,
		id:        uuid.New(),
		weights:   tensor.Empty,
		state:     tensor.Empty,
	}
}

func (b *Base) base() *Base { return b }

// Name returns the layer's type name.
func (b *Base) Name() string { return b.name }

// NIn returns how many stack items the layer consumes.
func (b *Base) NIn() int { return b.nIn }

// NOut returns how many stack items the layer produces.
func (b *Base) NOut() int { return b.nOut }

// Sublayers returns the direct children.
func (b *Base) Sublayers() []Layer { return b.sublayers }

// Site returns where the layer was constructed.
func (b *Base) Site() Site { return b.site }

// ID identifies the instance. A layer appearing at several tree positions
// has the same ID at each of them.
func (b *Base) ID() uuid.UUID { return b.id }

// Weights returns the cached weights; tensor.Empty before initialization.
func (b *Base) Weights() tensor.Value { return b.weights }

// State returns the cached state; tensor.Empty before initialization.
func (b *Base) State() tensor.Value { return b.state }

// InputSignature returns the signature the layer was first initialized with, or nil.
func (b *Base) InputSignature() tensor.Value { return b.inputSignature }

// Initialized reports whether Init has completed once for this instance.
func (b *Base) Initialized() bool { return b.initialized }

// NewRNG returns a fresh single-use key and advances the layer's cursor.
// It panics if the layer has not been seeded by Init.
func (b *Base) NewRNG() random.Key {
	if !b.rng.Valid() {
		panic(fmt.Sprintf("layer %s: randomness requested before Init", b.name))
	}
	keys := random.Split(b.rng, 2)
	b.rng = keys[0]
	return keys[1]
}

// NewRNGs returns n fresh single-use keys. Successive calls yield new values.
func (b *Base) NewRNGs(n int) ([]random.Key, error) {
	if n < 1 {
		return nil, errors.Errorf("n must be > 0; received value: %d", n)
	}
	if !b.rng.Valid() {
		return nil, errors.Errorf("layer %s: randomness requested before Init", b.name)
	}
	keys := random.Split(b.rng, n+1)
	b.rng = keys[0]
	return keys[1:], nil
}

// String renders the layer tree, e.g. Serial{in=1,out=1,sublayers=[Dense{in=1,out=1}]}.
func (b *Base) String() string {
	fields := fmt.Sprintf("in=%d,out=%d", b.nIn, b.nOut)
	if len(b.sublayers) == 0 {
		return fmt.Sprintf("%s{%s}", b.name, fields)
	}
	subs := make([]string, len(b.sublayers))
	for i, s := range b.sublayers {
		subs[i] = s.String()
	}
	return fmt.Sprintf("%s{%s,sublayers=[%s]}", b.name, fields, strings.Join(subs, ", "))
}
