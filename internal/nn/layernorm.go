package nn

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/tensor"
)

// LayerNormLayer applies Layer Normalization along the last dimension.
//
// Formula: Y = gamma * (X - mean(X)) / sqrt(var(X) + eps) + beta
//
// Where:
//   - gamma is the learnable scale parameter [d], initialized to ones
//   - beta is the learnable shift parameter [d], initialized to zeros
//   - mean and variance are computed along the last dimension
//
// Unlike BatchNorm, statistics are per example, so the layer is stateless and
// behaves the same in every mode. Weights are (gamma, beta).
type LayerNormLayer struct {
	layer.Base
	epsilon float32
}

// LayerNorm creates a layer normalization with the given epsilon (typically 1e-5 or 1e-6).
func LayerNorm(epsilon float32) *LayerNormLayer {
	return &LayerNormLayer{
		Base:    layer.NewBase("LayerNorm", 1, 1, layer.Caller(1)),
		epsilon: epsilon,
	}
}

// NewWeights creates (gamma, beta).
func (l *LayerNormLayer) NewWeights(inputSignature tensor.Value) (tensor.Value, error) {
	d, _, ok := lastDim(inputSignature)
	if !ok {
		return nil, errors.Errorf("layer norm expects a single input with rank >= 1, got %s", inputSignature)
	}
	return tensor.Tuple{Ones(tensor.Shape{d}), Zeros(tensor.Shape{d})}, nil
}

// Forward normalizes x.
//
// Algorithm:
//  1. Compute mean = mean(x) along last dimension (keepdim=true)
//  2. Compute variance along last dimension (keepdim=true)
//  3. Normalize: x_norm = (x - mean) / sqrt(variance + epsilon)
//  4. Scale and shift: output = gamma * x_norm + beta
func (l *LayerNormLayer) Forward(x, weights tensor.Value) (tensor.Value, error) {
	w, ok := weights.(tensor.Tuple)
	if !ok || len(w) != 2 {
		return nil, errors.Wrapf(layer.ErrTreeShape, "layer norm weights must be (gamma, beta), got %s", weights)
	}
	mean := tensor.Mean(x, -1, true)
	variance := tensor.Variance(x, -1, true)
	normalized := tensor.Div(tensor.Sub(x, mean), tensor.Sqrt(tensor.AddScalar(variance, l.epsilon)))
	return tensor.Add(tensor.Mul(normalized, w[0]), w[1]), nil
}
