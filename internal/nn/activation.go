package nn

import (
	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/tensor"
)

func activation(name string, site layer.Site, f func(tensor.Value) tensor.Value) *layer.FnLayer {
	return layer.Fn(name, 1, 1, func(x, _ tensor.Value) (tensor.Value, error) {
		return f(x), nil
	}, layer.AtSite(site))
}

// Relu applies the element-wise function: f(x) = max(0, x).
func Relu() *layer.FnLayer {
	return activation("Relu", layer.Caller(1), tensor.Relu)
}

// Sigmoid applies the element-wise function: f(x) = 1 / (1 + exp(-x)).
//
// Output range is (0, 1), which makes it suitable for gates and probabilities.
func Sigmoid() *layer.FnLayer {
	return activation("Sigmoid", layer.Caller(1), tensor.Sigmoid)
}

// Tanh applies the element-wise hyperbolic tangent. Output range is (-1, 1).
func Tanh() *layer.FnLayer {
	return activation("Tanh", layer.Caller(1), tensor.Tanh)
}

// LogSoftmax normalizes the last axis into log-probabilities.
func LogSoftmax() *layer.FnLayer {
	return activation("LogSoftmax", layer.Caller(1), func(x tensor.Value) tensor.Value {
		return tensor.LogSoftmax(x, -1)
	})
}
