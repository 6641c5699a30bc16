package nn

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/tensor"
)

// LSTMForgetBias is added to the forget gate pre-activation so that a freshly
// initialized cell keeps its memory.
const LSTMForgetBias = 1.0

// LSTMCellLayer is one step of a long short-term memory.
//
// Inputs are (x, s) where s = [c, h] has shape [batch, 2*nUnits]; outputs
// are (h', s'). The state multiplier of an LSTM is therefore 2.
//
// Weights are (W[d_in+nUnits, 4*nUnits], b[4*nUnits]), a single fused
// projection for the input, candidate, forget and output gates.
type LSTMCellLayer struct {
	layer.Base
	nUnits int
}

// LSTMCell creates an LSTM step with nUnits hidden units. It panics if nUnits < 1.
func LSTMCell(nUnits int) *LSTMCellLayer {
	if nUnits < 1 {
		panic(errors.Wrapf(layer.ErrConstruction, "lstm needs at least one unit, got %d", nUnits))
	}
	return &LSTMCellLayer{
		Base:   layer.NewBase("LSTMCell", 2, 2, layer.Caller(1)),
		nUnits: nUnits,
	}
}

// NewWeights creates the fused gate projection.
func (l *LSTMCellLayer) NewWeights(inputSignature tensor.Value) (tensor.Value, error) {
	sigs, ok := inputSignature.(tensor.Tuple)
	if !ok || len(sigs) != 2 {
		return nil, errors.Wrapf(layer.ErrArity, "lstm expects (x, state), got %s", inputSignature)
	}
	in, _, ok := lastDim(sigs[0])
	if !ok {
		return nil, errors.Errorf("lstm input must have rank >= 1, got %s", sigs[0])
	}
	fanIn, fanOut := in+l.nUnits, 4*l.nUnits
	w := Xavier(l.NewRNG(), fanIn, fanOut, tensor.Shape{fanIn, fanOut})
	return tensor.Tuple{w, Zeros(tensor.Shape{fanOut})}, nil
}

// Forward computes one step.
func (l *LSTMCellLayer) Forward(inputs, weights tensor.Value) (tensor.Value, error) {
	w, ok := weights.(tensor.Tuple)
	if !ok || len(w) != 2 {
		return nil, errors.Wrapf(layer.ErrTreeShape, "lstm weights must be (W, b), got %s", weights)
	}
	xs := inputs.(tensor.Tuple)
	x, s := xs[0], xs[1]

	ch := tensor.Split(s, 2, -1)
	c, h := ch[0], ch[1]
	z := tensor.Add(tensor.MatMul(tensor.Concatenate([]tensor.Value{x, h}, -1), w[0]), w[1])
	gates := tensor.Split(z, 4, -1)
	i, j, f, o := gates[0], gates[1], gates[2], gates[3]

	newC := tensor.Add(
		tensor.Mul(c, tensor.Sigmoid(tensor.AddScalar(f, LSTMForgetBias))),
		tensor.Mul(tensor.Sigmoid(i), tensor.Tanh(j)),
	)
	newH := tensor.Mul(tensor.Tanh(newC), tensor.Sigmoid(o))
	return tensor.Tuple{newH, tensor.Concatenate([]tensor.Value{newC, newH}, -1)}, nil
}
