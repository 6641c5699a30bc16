package layer

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// CheckShapeAgreement initializes l for inputSignature, then runs it both
// abstractly and on random concrete inputs, and reports an error when the
// inferred output shapes differ from the computed ones. It returns the
// inferred output signature.
func CheckShapeAgreement(l Layer, inputSignature tensor.Value) (tensor.Value, error) {
	sig := safeSignature(inputSignature)
	if _, _, err := Init(l, sig, random.Key{}); err != nil {
		return nil, err
	}
	abstract, _, err := ForwardAbstract(l, sig)
	if err != nil {
		return nil, err
	}

	keys, err := l.base().NewRNGs(2)
	if err != nil {
		return nil, err
	}
	out, _, err := Apply(l, RandomValues(sig, keys[0]), tensor.Empty, tensor.Empty, keys[1])
	if err != nil {
		return nil, err
	}

	want, got := tensor.ShapesOf(abstract), tensor.ShapesOf(out)
	if !sameShapes(want, got) {
		return nil, errors.Errorf("layer %s: inferred output shapes %v differ from computed shapes %v", l.Name(), want, got)
	}
	return abstract, nil
}

// RandomValues draws concrete values matching sig: uniform in [-1, 1] for
// floating-point leaves and 0/1 draws for integer and bool leaves.
func RandomValues(sig tensor.Value, key random.Key) tensor.Value {
	leaves := tensor.Leaves(sig)
	keys := random.Split(key, len(leaves))
	values := make([]tensor.Value, len(leaves))
	for i, leaf := range leaves {
		s := tensor.SignatureOf(leaf).(tensor.Signature)
		switch {
		case s.DType().IsFloat():
			values[i] = tensor.Cast(random.Uniform(keys[i], s.Shape(), -1, 1), s.DType())
		default:
			values[i] = tensor.Cast(random.Bernoulli(keys[i], 0.5, s.Shape()), s.DType())
		}
	}
	return tensor.Rebuild(sig, values)
}

func sameShapes(a, b any) bool {
	switch x := a.(type) {
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !sameShapes(x[i], y[i]) {
				return false
			}
		}
		return true
	case tensor.Shape:
		y, ok := b.(tensor.Shape)
		return ok && x.Equal(y)
	default:
		return false
	}
}
