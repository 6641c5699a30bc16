package layer

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

var errBoom = errors.New("boom")

// scale multiplies its input by a weight array of the same shape.
func scale() *FnLayer {
	return Fn("Scale", 1, 1,
		func(inputs, weights tensor.Value) (tensor.Value, error) {
			return tensor.Mul(inputs, weights), nil
		},
		WithNewWeights(func(sig tensor.Value, rng random.Key) (tensor.Value, error) {
			s := sig.(tensor.Signature)
			return random.Uniform(rng, s.Shape(), -1, 1), nil
		}),
		AtSite(Caller(1)),
	)
}

func boom() *FnLayer {
	return Fn("Boom", 1, 1, func(inputs, _ tensor.Value) (tensor.Value, error) {
		if tensor.IsAbstract(inputs) {
			return inputs, nil
		}
		return nil, errBoom
	})
}

// counter passes its input through and counts calls in its state.
type counter struct{ Base }

func newCounter() *counter {
	return &counter{Base: NewBase("Counter", 1, 1, Caller(1))}
}

func (c *counter) NewWeightsAndState(tensor.Value) (tensor.Value, tensor.Value, error) {
	return tensor.Empty, tensor.Scalar(0), nil
}

func (c *counter) ForwardWithState(inputs, _, state tensor.Value, _ random.Key) (tensor.Value, tensor.Value, error) {
	return inputs, tensor.AddScalar(state, 1), nil
}

// chain runs one-in one-out sublayers in order.
type chain struct{ Base }

func newChain(subs ...Layer) *chain {
	return &chain{Base: NewBase("Chain", 1, 1, Caller(1), subs...)}
}

func (c *chain) NewWeightsAndState(sig tensor.Value) (tensor.Value, tensor.Value, error) {
	var weights, states tensor.Tuple
	for _, sub := range c.Sublayers() {
		w, s, err := Init(sub, sig, random.Key{})
		if err != nil {
			return nil, nil, err
		}
		if sig, _, err = ForwardAbstract(sub, sig); err != nil {
			return nil, nil, err
		}
		weights = append(weights, w)
		states = append(states, s)
	}
	return weights, states, nil
}

func (c *chain) ForwardWithState(inputs, weights, state tensor.Value, rng random.Key) (tensor.Value, tensor.Value, error) {
	subs := c.Sublayers()
	ws, err := Slots(weights, len(subs))
	if err != nil {
		return nil, nil, err
	}
	ss, err := Slots(state, len(subs))
	if err != nil {
		return nil, nil, err
	}
	keys := random.Split(rng, len(subs))
	newState := make(tensor.Tuple, len(subs))
	x := inputs
	for i, sub := range subs {
		if x, newState[i], err = Apply(sub, x, ws[i], ss[i], keys[i]); err != nil {
			return nil, nil, err
		}
	}
	return x, newState, nil
}
