package nn

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/tensor"
)

// EmbeddingLayer is a lookup table that maps discrete indices to dense vectors.
//
// This is a fundamental layer in NLP and sequence models, converting token IDs
// to continuous embeddings. The embedding vectors are learnable parameters.
//
// Architecture:
//   - Weights: [vocab_size, d_feature] table drawn from N(0, 1)
//   - Forward: ids [batch, seq] -> embeddings [batch, seq, d_feature]
//
// Example:
//
//	// Vocabulary of 10000 words, embedding dimension 256
//	embed := nn.Embedding(256, 10000)
//	// ids of shape [2, 5] give embeddings of shape [2, 5, 256]
type EmbeddingLayer struct {
	layer.Base
	dFeature  int
	vocabSize int
}

// Embedding creates an embedding of vocabSize entries, each of size dFeature.
// It panics if either is < 1.
func Embedding(dFeature, vocabSize int) *EmbeddingLayer {
	if dFeature < 1 || vocabSize < 1 {
		panic(errors.Wrapf(layer.ErrConstruction, "embedding needs positive sizes, got d_feature=%d vocab_size=%d", dFeature, vocabSize))
	}
	return &EmbeddingLayer{
		Base:      layer.NewBase("Embedding", 1, 1, layer.Caller(1)),
		dFeature:  dFeature,
		vocabSize: vocabSize,
	}
}

// Forward looks up the rows of the table named by the integer ids x.
func (e *EmbeddingLayer) Forward(x, weights tensor.Value) (tensor.Value, error) {
	ids, ok := tensor.SignatureOf(x).(tensor.Signature)
	if !ok {
		return nil, errors.Errorf("embedding expects a single id array, got %s", tensor.SignatureOf(x))
	}
	if ids.DType().IsFloat() {
		return nil, errors.Errorf("embedding ids must be integers, got %s", ids.DType())
	}
	return tensor.Gather(weights, x), nil
}

// NewWeights draws the [vocab_size, d_feature] table.
func (e *EmbeddingLayer) NewWeights(tensor.Value) (tensor.Value, error) {
	return Randn(e.NewRNG(), tensor.Shape{e.vocabSize, e.dFeature}, 1), nil
}
