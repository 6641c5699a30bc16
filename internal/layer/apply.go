package layer

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// Apply runs l on inputs and returns its outputs and updated state.
//
// tensor.Empty weights or state resolve to the copies cached by Init. Explicit
// values are used for this call only; the cache is never written.
func Apply(l Layer, inputs, weights, state tensor.Value, rng random.Key) (outputs, newState tensor.Value, err error) {
	return apply(l, "Apply", inputs, weights, state, rng)
}

func apply(l Layer, op string, inputs, weights, state tensor.Value, rng random.Key) (outputs, newState tensor.Value, err error) {
	b := l.base()
	if weights == nil || tensor.IsEmpty(weights) {
		weights = b.weights
	}
	if state == nil || tensor.IsEmpty(state) {
		state = b.state
	}
	defer func() {
		if r := recover(); r != nil {
			err = recoverError(r)
		}
		if err != nil {
			outputs, newState, err = nil, nil, wrapError(l, op, inputs, err)
		}
	}()
	if inputs == nil {
		return nil, nil, errors.Wrap(ErrArity, "nil inputs")
	}
	return forwardWithState(l, inputs, weights, state, rng)
}

func forwardWithState(l Layer, inputs, weights, state tensor.Value, rng random.Key) (tensor.Value, tensor.Value, error) {
	switch x := l.(type) {
	case StatefulForwarder:
		return x.ForwardWithState(inputs, weights, state, rng)
	case Forwarder:
		out, err := x.Forward(inputs, weights)
		if err != nil {
			return nil, nil, err
		}
		return out, state, nil
	default:
		return nil, nil, errors.Errorf("layer %s implements neither Forward nor ForwardWithState", l.Name())
	}
}

// ForwardAbstract infers l's output signature for inputs matching sig without
// computing anything. Cached weights and state are replaced by their
// signatures and randomness by random.Abstract.
func ForwardAbstract(l Layer, sig tensor.Value) (outputs, state tensor.Value, err error) {
	b := l.base()
	in := safeSignature(sig)
	w := abstractOf(b.weights)
	s := abstractOf(b.state)
	out, newState, err := apply(l, "ForwardAbstract", in, w, s, random.Abstract())
	if err != nil {
		return nil, nil, err
	}
	return abstractOf(out), abstractOf(newState), nil
}

func abstractOf(v tensor.Value) tensor.Value {
	if v == nil {
		return nil
	}
	return tensor.SignatureOf(v)
}

// CallOption configures Call.
type CallOption func(*callConfig)

type callConfig struct {
	weights tensor.Value
	state   tensor.Value
	rng     random.Key
}

// Weights overrides the cached weights for one Call.
func Weights(w tensor.Value) CallOption {
	return func(c *callConfig) { c.weights = w }
}

// State overrides the cached state for one Call.
func State(s tensor.Value) CallOption {
	return func(c *callConfig) { c.state = s }
}

// RNG supplies the key for one Call.
func RNG(k random.Key) CallOption {
	return func(c *callConfig) { c.rng = k }
}

// Call runs l as a plain function and discards the updated state.
// It is meant for probing and tests; combinators use Apply.
func Call(l Layer, inputs tensor.Value, opts ...CallOption) (tensor.Value, error) {
	cfg := callConfig{weights: tensor.Empty, state: tensor.Empty}
	for _, opt := range opts {
		opt(&cfg)
	}
	out, _, err := Apply(l, inputs, cfg.weights, cfg.state, cfg.rng)
	return out, err
}
