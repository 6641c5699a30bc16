package nn

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/tensor"
)

// RMSNormLayer applies Root Mean Square Normalization along the last dimension.
//
// Formula: Y = X / sqrt(mean(X^2) + eps) * gamma
//
// RMSNorm is LayerNorm without the mean subtraction and the shift. Weights
// are gamma [d], initialized to ones.
type RMSNormLayer struct {
	layer.Base
	epsilon float32
}

// RMSNorm creates an RMS normalization with the given epsilon.
func RMSNorm(epsilon float32) *RMSNormLayer {
	return &RMSNormLayer{
		Base:    layer.NewBase("RMSNorm", 1, 1, layer.Caller(1)),
		epsilon: epsilon,
	}
}

// NewWeights creates gamma.
func (l *RMSNormLayer) NewWeights(inputSignature tensor.Value) (tensor.Value, error) {
	d, _, ok := lastDim(inputSignature)
	if !ok {
		return nil, errors.Errorf("rms norm expects a single input with rank >= 1, got %s", inputSignature)
	}
	return Ones(tensor.Shape{d}), nil
}

// Forward normalizes x.
func (l *RMSNormLayer) Forward(x, gamma tensor.Value) (tensor.Value, error) {
	rms := tensor.Sqrt(tensor.AddScalar(tensor.Mean(tensor.Square(x), -1, true), l.epsilon))
	return tensor.Mul(tensor.Div(x, rms), gamma), nil
}
