package layer

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/tensor"
)

// Pack packages stack items by count: none gives an empty tuple, one gives the
// bare value, more give a tuple.
func Pack(items []tensor.Value) tensor.Value {
	switch len(items) {
	case 0:
		return tensor.Tuple{}
	case 1:
		return items[0]
	default:
		out := make(tensor.Tuple, len(items))
		copy(out, items)
		return out
	}
}

// Items returns the stack items held by a packaged value: the elements of a
// tuple, or the value itself when bare.
func Items(v tensor.Value) []tensor.Value {
	if t, ok := v.(tensor.Tuple); ok {
		return t
	}
	return []tensor.Value{v}
}

// Count returns the number of stack items held by a packaged value.
func Count(v tensor.Value) int {
	if t, ok := v.(tensor.Tuple); ok {
		return len(t)
	}
	return 1
}

// ValidateInputs checks that inputs are packaged for a layer consuming n items.
func ValidateInputs(inputs tensor.Value, n int) error {
	if n == 1 {
		return nil
	}
	t, ok := inputs.(tensor.Tuple)
	if !ok {
		return errors.Wrapf(ErrArity, "expected input to be a tuple; instead received %T", inputs)
	}
	if len(t) != n {
		return errors.Wrapf(ErrArity, "input tuple length (%d) does not equal required number of inputs (%d)", len(t), n)
	}
	return nil
}

// Slots splits a combinator's weights or state into one slot per sublayer.
//
// Empty yields n Empty slots. A single sublayer accepts either a one-element
// tuple or the unwrapped value. Any other length mismatch is ErrTreeShape.
func Slots(v tensor.Value, n int) ([]tensor.Value, error) {
	if tensor.IsEmpty(v) {
		out := make([]tensor.Value, n)
		for i := range out {
			out[i] = tensor.Empty
		}
		return out, nil
	}
	t, ok := v.(tensor.Tuple)
	if n == 1 {
		if ok && len(t) == 1 {
			return []tensor.Value{t[0]}, nil
		}
		return []tensor.Value{v}, nil
	}
	if !ok {
		return nil, errors.Wrapf(ErrTreeShape, "expected a tuple of %d entries, got %T", n, v)
	}
	if len(t) != n {
		return nil, errors.Wrapf(ErrTreeShape, "number of entries (%d) not equal to number of sublayers (%d)", len(t), n)
	}
	return t, nil
}
