package layer

import (
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// ForwardFunc computes a stateless layer's outputs from its inputs and weights.
type ForwardFunc func(inputs, weights tensor.Value) (tensor.Value, error)

// NewWeightsFunc creates weights for an input signature using rng.
type NewWeightsFunc func(inputSignature tensor.Value, rng random.Key) (tensor.Value, error)

// FnLayer is a layer defined by a plain function.
type FnLayer struct {
	Base
	forward    ForwardFunc
	newWeights NewWeightsFunc
}

// FnOption configures Fn.
type FnOption func(*FnLayer)

// WithNewWeights gives the layer trainable weights created by fn.
func WithNewWeights(fn NewWeightsFunc) FnOption {
	return func(l *FnLayer) { l.newWeights = fn }
}

// AtSite overrides the recorded construction site. Constructors that wrap Fn
// pass their own caller's site.
func AtSite(site Site) FnOption {
	return func(l *FnLayer) { l.Base.site = site }
}

// Fn turns forward into a layer consuming nIn and producing nOut stack items.
//
// Inputs are validated against nIn before forward runs. A nil result is
// reported as an empty tuple.
func Fn(name string, nIn, nOut int, forward ForwardFunc, opts ...FnOption) *FnLayer {
	l := &FnLayer{
		Base:    NewBase(name, nIn, nOut, Caller(1)),
		forward: forward,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Forward implements Forwarder.
func (l *FnLayer) Forward(inputs, weights tensor.Value) (tensor.Value, error) {
	if err := ValidateInputs(inputs, l.NIn()); err != nil {
		return nil, err
	}
	out, err := l.forward(inputs, weights)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return tensor.Tuple{}, nil
	}
	return out, nil
}

// NewWeights implements WeightsInitializer.
func (l *FnLayer) NewWeights(inputSignature tensor.Value) (tensor.Value, error) {
	if l.newWeights == nil {
		return tensor.Empty, nil
	}
	return l.newWeights(inputSignature, l.NewRNG())
}
