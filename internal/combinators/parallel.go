package combinators

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// ParallelLayer applies its sublayers to successive spans of its inputs.
//
// Spans are sized by each sublayer's n_in and the outputs are concatenated in
// sublayer order. For F (1 in, 1 out), G (3 in, 1 out) and H (2 in, 2 out),
// Parallel(F, G, H) maps (a, b, c, d, e, f) to (F(a), G(b, c, d), h1, h2).
type ParallelLayer struct {
	layer.Base
}

// NewParallel combines at least two layers in parallel. A nil or empty-list
// argument is a one-input identity slot; a list argument is wrapped in a Serial.
func NewParallel(layers ...any) (*ParallelLayer, error) {
	return newParallel(layer.Caller(1), layers)
}

// Parallel is like NewParallel but panics on malformed arguments.
func Parallel(layers ...any) *ParallelLayer {
	return must(newParallel(layer.Caller(1), layers))
}

func newParallel(site layer.Site, args []any) (*ParallelLayer, error) {
	if len(args) < 2 {
		return nil, errors.Wrapf(layer.ErrConstruction, "layers (%v) must be a list with at least two elements", args)
	}
	subs := make([]layer.Layer, len(args))
	nIn, nOut := 0, 0
	for i, arg := range args {
		switch x := arg.(type) {
		case layer.Layer:
			subs[i] = x
		case []any, []layer.Layer, nil:
			items := []any{x}
			if isNoOp(x) {
				items = []any{nil}
			}
			s, err := newSerial("Serial", site, items)
			if err != nil {
				return nil, err
			}
			subs[i] = s
		default:
			return nil, errors.Wrapf(layer.ErrConstruction, "found non-layer object (%v) in layers list: %v", arg, args)
		}
		if subs[i].NIn() == 0 {
			return nil, errors.Wrapf(layer.ErrConstruction, "sublayer with n_in = 0 not allowed in Parallel: %s", subs[i])
		}
		nIn += subs[i].NIn()
		nOut += subs[i].NOut()
	}
	return &ParallelLayer{Base: layer.NewBase("Parallel", nIn, nOut, site, subs...)}, nil
}

// allot partitions inputs into one packaged value per sublayer.
func (p *ParallelLayer) allot(inputs tensor.Value) ([]tensor.Value, error) {
	if err := layer.ValidateInputs(inputs, p.NIn()); err != nil {
		return nil, err
	}
	items := layer.Items(inputs)
	out := make([]tensor.Value, len(p.Sublayers()))
	start := 0
	for i, sub := range p.Sublayers() {
		end := start + sub.NIn()
		out[i] = layer.Pack(items[start:end])
		start = end
	}
	return out, nil
}

// ForwardWithState implements layer.StatefulForwarder.
func (p *ParallelLayer) ForwardWithState(inputs, weights, state tensor.Value, rng random.Key) (tensor.Value, tensor.Value, error) {
	subs := p.Sublayers()
	ins, err := p.allot(inputs)
	if err != nil {
		return nil, nil, err
	}
	ws, err := layer.Slots(weights, len(subs))
	if err != nil {
		return nil, nil, errors.WithMessage(err, "weights")
	}
	ss, err := layer.Slots(state, len(subs))
	if err != nil {
		return nil, nil, errors.WithMessage(err, "state")
	}
	rngs := random.Split(rng, len(subs))

	outputs := make([]tensor.Value, 0, p.NOut())
	newState := make(tensor.Tuple, len(subs))
	for i, sub := range subs {
		out, st, err := layer.Apply(sub, ins[i], ws[i], ss[i], rngs[i])
		if err != nil {
			return nil, nil, err
		}
		items, err := outputItems(sub, out)
		if err != nil {
			return nil, nil, err
		}
		outputs = append(outputs, items...)
		newState[i] = st
	}
	return layer.Pack(outputs), newState, nil
}

// NewWeightsAndState implements layer.WeightsAndStateInitializer.
func (p *ParallelLayer) NewWeightsAndState(inputSignature tensor.Value) (tensor.Value, tensor.Value, error) {
	subs := p.Sublayers()
	sigs, err := p.allot(inputSignature)
	if err != nil {
		return nil, nil, err
	}
	weights := make(tensor.Tuple, len(subs))
	states := make(tensor.Tuple, len(subs))
	for i, sub := range subs {
		if weights[i], states[i], err = layer.Init(sub, sigs[i], random.Key{}); err != nil {
			return nil, nil, err
		}
	}
	return weights, states, nil
}
