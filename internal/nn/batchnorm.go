package nn

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// Default BatchNorm hyperparameters.
const (
	BatchNormMomentum = 0.999
	BatchNormEpsilon  = 1e-5
)

// BatchNormLayer normalizes its input over every axis but the last.
//
// Formula: Y = gamma * (X - mean) / sqrt(var + eps) + beta
//
// Where:
//   - gamma is the learnable scale [d], initialized to ones
//   - beta is the learnable shift [d], initialized to zeros
//   - mean and var are the batch statistics in train mode and the running
//     averages otherwise
//
// Weights are (beta, gamma). State is (running_mean, running_var, count);
// each train-mode call folds the batch statistics into the running averages
// with the given momentum and increments count.
type BatchNormLayer struct {
	layer.Base
	mode     Mode
	momentum float32
	epsilon  float32
}

// BatchNorm creates a batch normalization layer with default momentum and epsilon.
func BatchNorm(mode Mode) *BatchNormLayer {
	return &BatchNormLayer{
		Base:     layer.NewBase("BatchNorm", 1, 1, layer.Caller(1)),
		mode:     mode,
		momentum: BatchNormMomentum,
		epsilon:  BatchNormEpsilon,
	}
}

// NewWeightsAndState creates (beta, gamma) and zeroed running statistics.
func (b *BatchNormLayer) NewWeightsAndState(inputSignature tensor.Value) (tensor.Value, tensor.Value, error) {
	d, _, ok := lastDim(inputSignature)
	if !ok {
		return nil, nil, errors.Errorf("batch norm expects a single input with rank >= 1, got %s", inputSignature)
	}
	weights := tensor.Tuple{Zeros(tensor.Shape{d}), Ones(tensor.Shape{d})}
	state := tensor.Tuple{Zeros(tensor.Shape{d}), Ones(tensor.Shape{d}), tensor.Zeros(tensor.Shape{}, tensor.Int32)}
	return weights, state, nil
}

// ForwardWithState normalizes x and, in train mode, updates the running statistics.
func (b *BatchNormLayer) ForwardWithState(x, weights, state tensor.Value, _ random.Key) (tensor.Value, tensor.Value, error) {
	w, ok := weights.(tensor.Tuple)
	if !ok || len(w) != 2 {
		return nil, nil, errors.Wrapf(layer.ErrTreeShape, "batch norm weights must be (beta, gamma), got %s", weights)
	}
	s, ok := state.(tensor.Tuple)
	if !ok || len(s) != 3 {
		return nil, nil, errors.Wrapf(layer.ErrTreeShape, "batch norm state must be (mean, var, count), got %s", state)
	}
	d, sig, ok := lastDim(tensor.SignatureOf(x))
	if !ok {
		return nil, nil, errors.Errorf("batch norm expects a single input with rank >= 1, got %s", tensor.SignatureOf(x))
	}

	mean, variance := s[0], s[1]
	newState := state
	if b.mode == ModeTrain {
		rows := tensor.Reshape(x, tensor.Shape{sig.NumElements() / d, d})
		mean = tensor.Mean(rows, 0, false)
		variance = tensor.Variance(rows, 0, false)
		newState = tensor.Tuple{
			b.average(s[0], mean),
			b.average(s[1], variance),
			tensor.AddScalar(s[2], 1),
		}
	}

	beta, gamma := w[0], w[1]
	normalized := tensor.Div(tensor.Sub(x, mean), tensor.Sqrt(tensor.AddScalar(variance, b.epsilon)))
	return tensor.Add(tensor.Mul(normalized, gamma), beta), newState, nil
}

// average computes momentum*running + (1-momentum)*batch.
func (b *BatchNormLayer) average(running, batch tensor.Value) tensor.Value {
	return tensor.Add(tensor.MulScalar(running, b.momentum), tensor.MulScalar(batch, 1-b.momentum))
}
