package combinators

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/tensor"
)

func addOp(a, b tensor.Value) tensor.Value         { return tensor.Add(a, b) }
func subtractTopOp(a, b tensor.Value) tensor.Value { return tensor.Sub(b, a) }
func multiplyOp(a, b tensor.Value) tensor.Value    { return tensor.Mul(a, b) }

func newBinary(name string, site layer.Site, op func(a, b tensor.Value) tensor.Value) *layer.FnLayer {
	return layer.Fn(name, 2, 1, func(inputs, _ tensor.Value) (tensor.Value, error) {
		xs := inputs.(tensor.Tuple)
		return op(xs[0], xs[1]), nil
	}, layer.AtSite(site))
}

// Add adds the top two stack items.
func Add() *layer.FnLayer {
	return newBinary("Add", layer.Caller(1), addOp)
}

// SubtractTop subtracts the top stack item from the one below it.
func SubtractTop() *layer.FnLayer {
	return newBinary("SubtractTop", layer.Caller(1), subtractTopOp)
}

// Multiply multiplies the top two stack items elementwise.
func Multiply() *layer.FnLayer {
	return newBinary("Multiply", layer.Caller(1), multiplyOp)
}

// Gate mixes (memory, gate, candidate) into gate*memory + (1-gate)*candidate.
func Gate() *layer.FnLayer {
	return layer.Fn("Gate", 3, 1, func(inputs, _ tensor.Value) (tensor.Value, error) {
		xs := inputs.(tensor.Tuple)
		memory, gate, candidate := xs[0], xs[1], xs[2]
		keep := tensor.Mul(gate, memory)
		update := tensor.Mul(tensor.AddScalar(tensor.Neg(gate), 1), candidate)
		return tensor.Add(keep, update), nil
	}, layer.AtSite(layer.Caller(1)))
}

// NewConcatenate joins the top n stack items along axis.
func NewConcatenate(n, axis int) (*layer.FnLayer, error) {
	return newConcatenate(layer.Caller(1), n, axis)
}

// Concatenate is like NewConcatenate but panics when n < 1.
func Concatenate(n, axis int) *layer.FnLayer {
	return must(newConcatenate(layer.Caller(1), n, axis))
}

func newConcatenate(site layer.Site, n, axis int) (*layer.FnLayer, error) {
	if n < 1 {
		return nil, errors.Wrapf(layer.ErrConstruction, "concatenate needs at least one item, got %d", n)
	}
	return layer.Fn("Concatenate", n, 1, func(inputs, _ tensor.Value) (tensor.Value, error) {
		if n == 1 {
			return inputs, nil
		}
		return tensor.Concatenate(layer.Items(inputs), axis), nil
	}, layer.AtSite(site)), nil
}

// NewSplit divides the top stack item into n equal parts along axis.
func NewSplit(n, axis int) (*layer.FnLayer, error) {
	return newSplit(layer.Caller(1), n, axis)
}

// Split is like NewSplit but panics when n < 1.
func Split(n, axis int) *layer.FnLayer {
	return must(newSplit(layer.Caller(1), n, axis))
}

func newSplit(site layer.Site, n, axis int) (*layer.FnLayer, error) {
	if n < 1 {
		return nil, errors.Wrapf(layer.ErrConstruction, "split needs at least one part, got %d", n)
	}
	return layer.Fn("Split", 1, n, func(inputs, _ tensor.Value) (tensor.Value, error) {
		return layer.Pack(tensor.Split(inputs, n, axis)), nil
	}, layer.AtSite(site)), nil
}

// FlattenList replaces a single nested tuple on the top of the stack with its
// n leaves, in depth-first order.
func FlattenList(n int) *layer.FnLayer {
	return layer.Fn("FlattenList", 1, n, func(inputs, _ tensor.Value) (tensor.Value, error) {
		leaves := tensor.Leaves(inputs)
		if len(leaves) != n {
			return nil, errors.Wrapf(layer.ErrArity, "flattened %d items, expected %d", len(leaves), n)
		}
		return layer.Pack(leaves), nil
	}, layer.AtSite(layer.Caller(1)))
}
