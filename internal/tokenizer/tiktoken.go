package tokenizer

import (
	"github.com/pkg/errors"
	"github.com/pkoukk/tiktoken-go"
)

// Vocabulary sizes of the tiktoken encodings; tiktoken-go doesn't expose them.
var tiktokenVocab = map[string]int{
	"cl100k_base": 100256,
	"p50k_base":   50257,
	"r50k_base":   50257,
}

// TikToken wraps the pkoukk/tiktoken-go library for OpenAI tokenizers.
//
// Loading an encoding fetches its BPE ranks on first use, so the CLI
// defaults to the byte tokenizer and offers tiktoken behind a flag.
//
// Supported encodings:
//   - cl100k_base: GPT-4, GPT-3.5-turbo, text-embedding-ada-002
//   - p50k_base: GPT-3, Codex
//   - r50k_base: GPT-3, davinci-002, babbage-002
type TikToken struct {
	encoding  *tiktoken.Tiktoken
	name      string
	vocabSize int
}

var _ Tokenizer = (*TikToken)(nil)

// NewTikToken loads a tiktoken encoding by encoding name ("cl100k_base") or,
// failing that, by model name ("gpt-4").
func NewTikToken(name string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(name)
	if err != nil {
		var modelErr error
		encoding, modelErr = tiktoken.EncodingForModel(name)
		if modelErr != nil {
			return nil, errors.Wrapf(err, "failed to load tiktoken encoding %q", name)
		}
	}
	vocab, ok := tiktokenVocab[name]
	if !ok {
		vocab = 100000
	}
	return &TikToken{encoding: encoding, name: name, vocabSize: vocab}, nil
}

// Encode converts text to token IDs.
func (t *TikToken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.Encode(text, nil, nil)
	result := make([]int32, len(tokens))
	for i, tok := range tokens {
		result[i] = int32(tok) //nolint:gosec // G115: Token ID fits in int32 - vocab size < 2^31.
	}
	return result, nil
}

// Decode converts token IDs back to text.
func (t *TikToken) Decode(tokens []int32) (string, error) {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		ids[i] = int(tok)
	}
	return t.encoding.Decode(ids), nil
}

// VocabSize returns the vocabulary size of the encoding.
func (t *TikToken) VocabSize() int { return t.vocabSize }

// Name returns the encoding or model name the tokenizer was loaded with.
func (t *TikToken) Name() string { return t.name }
