package nn

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/tensor"
)

// ShiftRight shifts a [batch, length, ...] input one step to the right along
// the length axis, padding with zeros. In predict mode it is the identity,
// since decoding feeds one token at a time.
func ShiftRight(mode Mode) *layer.FnLayer {
	return layer.Fn("ShiftRight", 1, 1, func(x, _ tensor.Value) (tensor.Value, error) {
		if mode == ModePredict {
			return x, nil
		}
		return tensor.ShiftRight(x, 1), nil
	}, layer.AtSite(layer.Caller(1)))
}

// MakeZeroState turns an input of shape [batch, length, d] into a zero
// recurrent state of shape [batch, multiplier*d], with the input's dtype.
func MakeZeroState(multiplier int) *layer.FnLayer {
	if multiplier < 1 {
		panic(errors.Wrapf(layer.ErrConstruction, "zero state multiplier must be positive, got %d", multiplier))
	}
	return layer.Fn("MakeZeroState", 1, 1, func(x, _ tensor.Value) (tensor.Value, error) {
		sig, ok := tensor.SignatureOf(x).(tensor.Signature)
		if !ok || sig.Rank() < 2 {
			return nil, errors.Errorf("zero state needs an input of rank >= 2, got %s", tensor.SignatureOf(x))
		}
		in := sig.Shape()
		shape := in[:len(in)-2].Clone()
		shape = append(shape, multiplier*in[len(in)-1])
		if tensor.IsAbstract(x) {
			return tensor.NewSignature(shape, sig.DType()), nil
		}
		return tensor.Zeros(shape, sig.DType()), nil
	}, layer.AtSite(layer.Caller(1)))
}
