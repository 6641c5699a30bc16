package tokenizer

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/tensor"
)

// Tokenizer is the core interface for text tokenization.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int

	// Name returns the encoding name.
	Name() string
}

// New returns the tokenizer registered under name: "bytes" or a tiktoken encoding.
func New(name string) (Tokenizer, error) {
	if name == bytesName {
		return Bytes(), nil
	}
	return NewTikToken(name)
}

// Batch folds ids into [0, vocabSize) and packs them as an int32 array of
// shape [1, len(ids)], ready to feed a model with a smaller vocabulary.
func Batch(ids []int32, vocabSize int) (*tensor.Array, error) {
	if vocabSize < 1 {
		return nil, errors.Errorf("vocab size must be positive, got %d", vocabSize)
	}
	if len(ids) == 0 {
		return nil, errors.New("no tokens to batch")
	}
	folded := make([]int32, len(ids))
	for i, id := range ids {
		if id < 0 {
			return nil, errors.Errorf("token %d at position %d is negative", id, i)
		}
		folded[i] = id % int32(vocabSize) //nolint:gosec // G115: vocab sizes fit in int32.
	}
	return tensor.FromInts(folded, tensor.Shape{1, len(ids)})
}
