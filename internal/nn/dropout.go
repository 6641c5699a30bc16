package nn

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// DropoutLayer zeroes each element with probability rate during training and
// rescales the survivors by 1/(1-rate). In eval and predict mode it is the identity.
//
// The mask is drawn from the rng passed to Apply, so two calls with the same
// key drop the same elements. Under ForwardAbstract the key is abstract and
// the mask is only a signature.
type DropoutLayer struct {
	layer.Base
	rate float32
	mode Mode
}

// Dropout creates a dropout layer. It panics unless 0 <= rate < 1.
func Dropout(rate float32, mode Mode) *DropoutLayer {
	if rate < 0 || rate >= 1 {
		panic(errors.Wrapf(layer.ErrConstruction, "dropout rate must be in [0, 1), got %g", rate))
	}
	return &DropoutLayer{
		Base: layer.NewBase("Dropout", 1, 1, layer.Caller(1)),
		rate: rate,
		mode: mode,
	}
}

// ForwardWithState applies the mask in train mode.
func (d *DropoutLayer) ForwardWithState(x, _, state tensor.Value, rng random.Key) (tensor.Value, tensor.Value, error) {
	if d.mode != ModeTrain || d.rate == 0 {
		return x, state, nil
	}
	if !rng.Valid() {
		return nil, nil, errors.New("dropout in train mode needs an rng")
	}
	sig, ok := tensor.SignatureOf(x).(tensor.Signature)
	if !ok {
		return nil, nil, errors.Errorf("dropout expects a single array, got %s", tensor.SignatureOf(x))
	}
	keep := 1 - d.rate
	mask := tensor.Cast(random.Bernoulli(rng, keep, sig.Shape()), sig.DType())
	return tensor.MulScalar(tensor.Mul(x, mask), 1/keep), state, nil
}
