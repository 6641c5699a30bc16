package combinators

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// SerialLayer applies its sublayers in sequence over a shared data stack.
//
// Each sublayer takes its n_in items off the top of the stack and its n_out
// outputs are put back in their place; items it does not consume stay below.
// A SerialLayer without sublayers is a one-input one-output identity.
type SerialLayer struct {
	layer.Base
}

// NewSerial combines layers serially. Nested slices are flattened; a lone nil
// argument means no sublayers.
func NewSerial(layers ...any) (*SerialLayer, error) {
	return newSerial("Serial", layer.Caller(1), layers)
}

// Serial is like NewSerial but panics on malformed arguments.
func Serial(layers ...any) *SerialLayer {
	return must(newSerial("Serial", layer.Caller(1), layers))
}

func newSerial(name string, site layer.Site, args []any) (*SerialLayer, error) {
	var subs []layer.Layer
	if !(len(args) == 1 && args[0] == nil) {
		var err error
		if subs, err = flatten(args); err != nil {
			return nil, err
		}
	}
	nIn, nOut := 1, 1
	if len(subs) > 0 {
		nIn, nOut = stackArity(subs)
	}
	return &SerialLayer{Base: layer.NewBase(name, nIn, nOut, site, subs...)}, nil
}

// stackArity simulates the stack height across layers. n_in is the deepest
// the sequence ever reaches; n_out is what is left above that depth at the end.
func stackArity(layers []layer.Layer) (nIn, nOut int) {
	runningMax, runningTotal := 0, 0
	for _, l := range layers {
		runningTotal += l.NIn()
		runningMax = max(runningMax, runningTotal)
		runningTotal -= l.NOut()
	}
	return runningMax, runningMax - runningTotal
}

// ForwardWithState implements layer.StatefulForwarder.
func (s *SerialLayer) ForwardWithState(inputs, weights, state tensor.Value, rng random.Key) (tensor.Value, tensor.Value, error) {
	subs := s.Sublayers()
	if len(subs) == 0 {
		return inputs, state, nil
	}
	if n := layer.Count(inputs); n < s.NIn() {
		return nil, nil, errors.Wrapf(layer.ErrArity, "number of inputs (%d) to Serial less than n_in (%d)", n, s.NIn())
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

	stack := inputs
	newState := make(tensor.Tuple, len(subs))
	for i, sub := range subs {
		in, err := inputsFromStack(sub, stack)
		if err != nil {
			return nil, nil, err
		}
		out, st, err := layer.Apply(sub, in, ws[i], ss[i], rngs[i])
		if err != nil {
			return nil, nil, err
		}
		if stack, err = outputsOntoStack(sub, out, stack); err != nil {
			return nil, nil, err
		}
		newState[i] = st
	}
	return stack, newState, nil
}

// NewWeightsAndState implements layer.WeightsAndStateInitializer. Signatures
// are propagated through the sublayers abstractly.
func (s *SerialLayer) NewWeightsAndState(inputSignature tensor.Value) (tensor.Value, tensor.Value, error) {
	subs := s.Sublayers()
	weights := make(tensor.Tuple, len(subs))
	states := make(tensor.Tuple, len(subs))
	stack := inputSignature
	for i, sub := range subs {
		in, err := inputsFromStack(sub, stack)
		if err != nil {
			return nil, nil, err
		}
		if weights[i], states[i], err = layer.Init(sub, in, random.Key{}); err != nil {
			return nil, nil, err
		}
		out, _, err := layer.ForwardAbstract(sub, in)
		if err != nil {
			return nil, nil, err
		}
		if stack, err = outputsOntoStack(sub, out, stack); err != nil {
			return nil, nil, err
		}
	}
	return weights, states, nil
}

// inputsFromStack takes l's inputs off the top of stack.
func inputsFromStack(l layer.Layer, stack tensor.Value) (tensor.Value, error) {
	items := layer.Items(stack)
	if len(items) < l.NIn() {
		return nil, errors.Wrapf(layer.ErrArity, "layer %s needs %d inputs, stack holds %d", l.Name(), l.NIn(), len(items))
	}
	return layer.Pack(items[:l.NIn()]), nil
}

// outputsOntoStack replaces l's inputs at the top of stack with its outputs.
func outputsOntoStack(l layer.Layer, outputs, stack tensor.Value) (tensor.Value, error) {
	outs, err := outputItems(l, outputs)
	if err != nil {
		return nil, err
	}
	rest := layer.Items(stack)[l.NIn():]
	items := make([]tensor.Value, 0, len(outs)+len(rest))
	items = append(items, outs...)
	items = append(items, rest...)
	return layer.Pack(items), nil
}
