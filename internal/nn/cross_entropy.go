package nn

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/tensor"
)

// CrossEntropy returns a layer mapping (log_probs, targets) to the mean
// negative log-likelihood of the targets.
//
// Mathematical Formulation:
//
//	Loss = -mean(log_probs[..., target])
//
// Shapes:
//   - log_probs: [..., vocab], typically the output of LogSoftmax
//   - targets: [...] integer class indices in [0, vocab)
//   - output: scalar
func CrossEntropy() *layer.FnLayer {
	return layer.Fn("CrossEntropy", 2, 1, func(inputs, _ tensor.Value) (tensor.Value, error) {
		xs := inputs.(tensor.Tuple)
		logProbs, targets := xs[0], xs[1]
		vocab, sig, ok := lastDim(tensor.SignatureOf(logProbs))
		if !ok {
			return nil, errors.Errorf("cross entropy expects log probabilities of rank >= 1, got %s", tensor.SignatureOf(logProbs))
		}
		picked := tensor.Sum(tensor.Mul(logProbs, oneHot(targets, vocab)), -1, false)
		flat := tensor.Reshape(picked, tensor.Shape{sig.NumElements() / vocab})
		return tensor.Neg(tensor.Mean(flat, 0, false)), nil
	}, layer.AtSite(layer.Caller(1)))
}

// oneHot maps integer ids to float32 rows of an identity matrix.
func oneHot(ids tensor.Value, depth int) tensor.Value {
	eye := tensor.Zeros(tensor.Shape{depth, depth}, tensor.Float32)
	data := eye.Data()
	for i := 0; i < depth; i++ {
		data[i*depth+i] = 1
	}
	return tensor.Gather(eye, ids)
}
