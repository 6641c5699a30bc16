package nn

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/tensor"
)

// DenseLayer implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input with shape [..., in_features]
//   - W is the weight matrix with shape [in_features, n_units]
//   - b is the bias vector with shape [n_units]
//   - y is the output with shape [..., n_units]
//
// Weights are the tuple (W, b). W is initialized using Xavier/Glorot
// initialization, b to zeros. in_features is taken from the input signature
// at Init.
//
// Example:
//
//	dense := nn.Dense(128)
//	x := tensor.NewSignature(tensor.Shape{32, 784}, tensor.Float32)
//	_, _, err := layer.Init(dense, x, random.New(0))
//	out, err := layer.Call(dense, input) // shape: [32, 128]
type DenseLayer struct {
	layer.Base
	nUnits int
}

// Dense creates a dense layer with nUnits outputs. It panics if nUnits < 1.
func Dense(nUnits int) *DenseLayer {
	if nUnits < 1 {
		panic(errors.Wrapf(layer.ErrConstruction, "dense needs at least one unit, got %d", nUnits))
	}
	return &DenseLayer{
		Base:   layer.NewBase("Dense", 1, 1, layer.Caller(1)),
		nUnits: nUnits,
	}
}

// Units returns the number of output features.
func (d *DenseLayer) Units() int { return d.nUnits }

// Forward computes x @ W + b.
func (d *DenseLayer) Forward(x, weights tensor.Value) (tensor.Value, error) {
	w, ok := weights.(tensor.Tuple)
	if !ok || len(w) != 2 {
		return nil, errors.Wrapf(layer.ErrTreeShape, "dense weights must be (W, b), got %s", weights)
	}
	return tensor.Add(tensor.MatMul(x, w[0]), w[1]), nil
}

// NewWeights creates (W[in, n_units], b[n_units]).
func (d *DenseLayer) NewWeights(inputSignature tensor.Value) (tensor.Value, error) {
	in, _, ok := lastDim(inputSignature)
	if !ok {
		return nil, errors.Errorf("dense expects a single input with rank >= 1, got %s", inputSignature)
	}
	w := Xavier(d.NewRNG(), in, d.nUnits, tensor.Shape{in, d.nUnits})
	return tensor.Tuple{w, Zeros(tensor.Shape{d.nUnits})}, nil
}
