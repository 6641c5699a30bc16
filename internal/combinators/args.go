// Package combinators builds layers out of other layers.
//
// Serial and Parallel are the two primitives: Serial threads a data stack
// through its sublayers in order, Parallel partitions its inputs among its
// sublayers. Every other combinator here (Select, Branch, Residual,
// SerialWithSideOutputs, ...) is assembled from those two plus small
// stateless Fn layers.
//
// Constructors come in pairs. NewX reports malformed arguments as an error
// wrapping layer.ErrConstruction; X panics with that error, so models can be
// written as nested calls:
//
//	model := combinators.Serial(
//	    nn.Dense(64),
//	    nn.Relu(),
//	    combinators.Residual(nn.Dense(64), nn.Relu()),
//	)
package combinators

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/tensor"
)

// flatten expands nested slices of layers into one flat list. Sublayer
// arguments may be a layer.Layer, a []layer.Layer or a []any nesting either.
func flatten(args []any) ([]layer.Layer, error) {
	var out []layer.Layer
	for _, arg := range args {
		switch x := arg.(type) {
		case layer.Layer:
			out = append(out, x)
		case []layer.Layer:
			out = append(out, x...)
		case []any:
			sub, err := flatten(x)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		default:
			return nil, errors.Wrapf(layer.ErrConstruction, "found non-layer object (%v) in layers: %v", arg, args)
		}
	}
	return out, nil
}

// isNoOp reports whether arg denotes a one-argument identity slot: nil or an empty list.
func isNoOp(arg any) bool {
	switch x := arg.(type) {
	case nil:
		return true
	case []any:
		return len(x) == 0
	case []layer.Layer:
		return len(x) == 0
	}
	return false
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// inputItems unpacks the n_in stack items of l's inputs.
func inputItems(l layer.Layer, v tensor.Value) []tensor.Value {
	if l.NIn() == 1 {
		return []tensor.Value{v}
	}
	return layer.Items(v)
}

// outputItems unpacks the n_out stack items of l's outputs, checking their count.
func outputItems(l layer.Layer, v tensor.Value) ([]tensor.Value, error) {
	if l.NOut() == 1 {
		return []tensor.Value{v}, nil
	}
	items := layer.Items(v)
	if len(items) != l.NOut() {
		return nil, errors.Wrapf(layer.ErrArity, "layer %s produced %d outputs, declared n_out=%d", l.Name(), len(items), l.NOut())
	}
	return items, nil
}
