package combinators

import (
	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

func vec(xs ...float32) *tensor.Array {
	return tensor.MustFromSlice(xs, len(xs))
}

func data(v tensor.Value) []float32 {
	return tensor.AsArray(v).Data()
}

func scaleBy(k float32) *layer.FnLayer {
	return layer.Fn("ScaleBy", 1, 1, func(inputs, _ tensor.Value) (tensor.Value, error) {
		return tensor.MulScalar(inputs, k), nil
	})
}

// arity is a stand-in with the given arity that returns its first input n_out times.
func arity(nIn, nOut int) *layer.FnLayer {
	return layer.Fn("Arity", nIn, nOut, func(inputs, _ tensor.Value) (tensor.Value, error) {
		first := inputs
		if nIn != 1 {
			first = layer.Items(inputs)[0]
		}
		out := make([]tensor.Value, nOut)
		for i := range out {
			out[i] = first
		}
		return layer.Pack(out), nil
	})
}

// weighted multiplies its input by a learned vector.
func weighted() *layer.FnLayer {
	return layer.Fn("Weighted", 1, 1,
		func(inputs, weights tensor.Value) (tensor.Value, error) {
			return tensor.Mul(inputs, weights), nil
		},
		layer.WithNewWeights(func(sig tensor.Value, rng random.Key) (tensor.Value, error) {
			s := sig.(tensor.Signature)
			return random.Uniform(rng, tensor.Shape{s.Shape()[s.Rank()-1]}, -1, 1), nil
		}),
	)
}

// accumulate is the two-in two-out prefix-sum step: res = x + carry, returned twice.
func accumulate() *layer.FnLayer {
	return layer.Fn("Accumulate", 2, 2, func(inputs, _ tensor.Value) (tensor.Value, error) {
		xs := inputs.(tensor.Tuple)
		res := tensor.Add(xs[0], xs[1])
		return tensor.Tuple{res, res}, nil
	})
}
