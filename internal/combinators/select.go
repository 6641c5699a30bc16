package combinators

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/tensor"
)

// NewSelect returns a layer that copies and reorders stack items: output i is
// input indices[i]. nIn defaults to max(indices)+1 when negative.
func NewSelect(indices []int, nIn int) (*layer.FnLayer, error) {
	return newSelect("Select", layer.Caller(1), indices, nIn)
}

// Select is like NewSelect with the default n_in, and panics on malformed indices.
//
//	Select(1, 0)       // (a, b) -> (b, a)
//	Select(0, 1, 0, 1) // (a, b) -> (a, b, a, b)
func Select(indices ...int) *layer.FnLayer {
	return must(newSelect("Select", layer.Caller(1), indices, -1))
}

func newSelect(name string, site layer.Site, indices []int, nIn int) (*layer.FnLayer, error) {
	if len(indices) > 0 && slices.Min(indices) < 0 {
		return nil, errors.Wrapf(layer.ErrConstruction, "select indices must be non-negative, got %v", indices)
	}
	if nIn < 0 {
		if len(indices) == 0 {
			return nil, errors.Wrap(layer.ErrConstruction, "select needs n_in when no indices are given")
		}
		nIn = slices.Max(indices) + 1
	} else if len(indices) > 0 && slices.Max(indices) >= nIn {
		return nil, errors.Wrapf(layer.ErrConstruction, "select index %d out of range for n_in=%d", slices.Max(indices), nIn)
	}

	idx := slices.Clone(indices)
	return layer.Fn(name, nIn, len(idx), func(inputs, _ tensor.Value) (tensor.Value, error) {
		items := []tensor.Value{inputs}
		if nIn != 1 {
			items = layer.Items(inputs)
		}
		out := make([]tensor.Value, len(idx))
		for i, j := range idx {
			out[i] = items[j]
		}
		return layer.Pack(out), nil
	}, layer.AtSite(site)), nil
}

// Dup duplicates the top stack item: (a, ...) -> (a, a, ...).
func Dup() *layer.FnLayer {
	return must(newSelect("Dup", layer.Caller(1), []int{0, 0}, -1))
}

// Dup2 copies the top two stack items: (a, b, ...) -> (a, b, a, b, ...).
func Dup2() *layer.FnLayer {
	return must(newSelect("Dup2", layer.Caller(1), []int{0, 1, 0, 1}, -1))
}

// Dup3 copies the top three stack items: (a, b, c, ...) -> (a, b, c, a, b, c, ...).
func Dup3() *layer.FnLayer {
	return must(newSelect("Dup3", layer.Caller(1), []int{0, 1, 2, 0, 1, 2}, -1))
}

// Swap swaps the top two stack items.
func Swap() *layer.FnLayer {
	return must(newSelect("Swap", layer.Caller(1), []int{1, 0}, -1))
}

// Drop discards the top stack item.
func Drop() *layer.FnLayer {
	return must(newSelect("Drop", layer.Caller(1), nil, 1))
}
