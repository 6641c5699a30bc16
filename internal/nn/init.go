// Package nn provides leaf layers (Dense, Embedding, activations, Dropout,
// BatchNorm, ...) and recurrent cells assembled from combinators.
//
// Every layer draws its initial weights from its own random key, which Init
// seeds, so a model initialized twice with the same key gets the same weights.
package nn

import (
	"math"

	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Draws values from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This initialization helps maintain variance of activations across layers.
//
// Parameters:
//   - key: random key the values are drawn from
//   - fanIn: Number of input units
//   - fanOut: Number of output units
//   - shape: Shape of the weight tensor
//
// Returns an array, or a signature when key is abstract.
func Xavier(key random.Key, fanIn, fanOut int, shape tensor.Shape) tensor.Value {
	bound := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))
	return random.Uniform(key, shape, -bound, bound)
}

// Randn draws values from N(0, stddev^2).
func Randn(key random.Key, shape tensor.Shape, stddev float32) tensor.Value {
	return random.Normal(key, shape, stddev)
}

// Zeros creates a float32 array filled with zeros. This is commonly used for bias initialization.
func Zeros(shape tensor.Shape) *tensor.Array {
	return tensor.Zeros(shape, tensor.Float32)
}

// Ones creates a float32 array filled with ones.
func Ones(shape tensor.Shape) *tensor.Array {
	return tensor.Full(shape, tensor.Float32, 1)
}

// lastDim returns the size of the last axis of a single-array signature.
func lastDim(sig tensor.Value) (int, tensor.Signature, bool) {
	s, ok := sig.(tensor.Signature)
	if !ok || s.Rank() == 0 {
		return 0, s, false
	}
	return s.Shape()[s.Rank()-1], s, true
}
