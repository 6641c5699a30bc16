package combinators

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// ScanLayer runs its sublayer once per position along an axis of its inputs,
// threading a carry from one position to the next.
//
// The sublayer takes (x1, ..., xN, carry1, ..., carryM) and returns
// (y1, ..., yK, newCarry1, ..., newCarryM). The scan takes the xs with the
// extra axis and returns the ys stacked along it, followed by the final carry.
// Its weights and state are those of the sublayer.
type ScanLayer struct {
	layer.Base
	axis   int
	nCarry int
}

// NewScan scans l over axis, carrying its last nCarry inputs and outputs.
func NewScan(l layer.Layer, axis, nCarry int) (*ScanLayer, error) {
	return newScan(layer.Caller(1), l, axis, nCarry)
}

// Scan is like NewScan but panics on malformed arguments.
func Scan(l layer.Layer, axis, nCarry int) *ScanLayer {
	return must(newScan(layer.Caller(1), l, axis, nCarry))
}

func newScan(site layer.Site, l layer.Layer, axis, nCarry int) (*ScanLayer, error) {
	if l == nil {
		return nil, errors.Wrap(layer.ErrConstruction, "scan needs a layer")
	}
	if nCarry < 0 || nCarry >= l.NIn() || nCarry > l.NOut() {
		return nil, errors.Wrapf(layer.ErrConstruction, "scan carry count %d incompatible with %s", nCarry, l)
	}
	return &ScanLayer{
		Base:   layer.NewBase("Scan", l.NIn(), l.NOut(), site, l),
		axis:   axis,
		nCarry: nCarry,
	}, nil
}

type scanCarry struct {
	carry []tensor.Value
	state tensor.Value
	rng   random.Key
}

// ForwardWithState implements layer.StatefulForwarder. Every step draws a
// fresh key split from rng.
func (s *ScanLayer) ForwardWithState(inputs, weights, state tensor.Value, rng random.Key) (tensor.Value, tensor.Value, error) {
	sub := s.Sublayers()[0]
	if err := layer.ValidateInputs(inputs, s.NIn()); err != nil {
		return nil, nil, err
	}
	items := inputItems(s, inputs)
	n := len(items) - s.nCarry

	step := func(xs []tensor.Value, c scanCarry) ([]tensor.Value, scanCarry, error) {
		keys := random.Split(c.rng, 2)
		in := layer.Pack(append(slices.Clone(xs), c.carry...))
		out, st, err := layer.Apply(sub, in, weights, c.state, keys[1])
		if err != nil {
			return nil, c, err
		}
		res, err := outputItems(sub, out)
		if err != nil {
			return nil, c, err
		}
		k := len(res) - s.nCarry
		return res[:k], scanCarry{carry: res[k:], state: st, rng: keys[0]}, nil
	}

	init := scanCarry{carry: items[n:], state: state, rng: rng}
	ys, last, err := tensor.Scan(step, items[:n], init, s.axis)
	if err != nil {
		return nil, nil, err
	}
	return layer.Pack(append(ys, last.carry...)), last.state, nil
}

// NewWeightsAndState implements layer.WeightsAndStateInitializer. The
// sublayer is initialized for one position: the scanned inputs lose the axis,
// the carry keeps its signature.
func (s *ScanLayer) NewWeightsAndState(inputSignature tensor.Value) (tensor.Value, tensor.Value, error) {
	if err := layer.ValidateInputs(inputSignature, s.NIn()); err != nil {
		return nil, nil, err
	}
	items := inputItems(s, inputSignature)
	n := len(items) - s.nCarry
	sigs := make([]tensor.Value, 0, len(items))
	for _, x := range items[:n] {
		sig, ok := tensor.SignatureOf(x).(tensor.Signature)
		if !ok {
			return nil, nil, errors.Errorf("scanned input must be a single array, got %s", x)
		}
		sigs = append(sigs, tensor.NewSignature(sig.Shape().WithoutAxis(s.axis), sig.DType()))
	}
	sigs = append(sigs, items[n:]...)
	return layer.Init(s.Sublayers()[0], layer.Pack(sigs), random.Key{})
}
