package nn

import (
	"math"

	"github.com/stax-ml/stax/internal/tensor"
)

func f32(shape ...int) tensor.Signature {
	return tensor.NewSignature(shape, tensor.Float32)
}

func data(v tensor.Value) []float32 {
	return tensor.AsArray(v).Data()
}

func shapeOf(v tensor.Value) tensor.Shape {
	return tensor.SignatureOf(v).(tensor.Signature).Shape()
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func tanh(x float64) float64 {
	return math.Tanh(x)
}
