// Copyright 2025 The Stax Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tokenizer turns text into token ids for language models.
//
// Example usage:
//
//	import "github.com/stax-ml/stax/tokenizer"
//
//	tok, err := tokenizer.New("bytes")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ids, err := tok.Encode("Hello, world!")
//	batch, err := tokenizer.Batch(ids, 256) // [1, len(ids)] int32 array
package tokenizer

import (
	"github.com/stax-ml/stax/internal/tokenizer"
	"github.com/stax-ml/stax/tensor"
)

// Tokenizer is the core interface for text tokenization.
type Tokenizer = tokenizer.Tokenizer

// TikToken wraps OpenAI BPE encodings.
type TikToken = tokenizer.TikToken

// New returns the tokenizer registered under name: "bytes" or a tiktoken encoding.
func New(name string) (Tokenizer, error) {
	return tokenizer.New(name)
}

// Bytes returns the offline byte-level tokenizer.
func Bytes() Tokenizer {
	return tokenizer.Bytes()
}

// NewTikToken loads a tiktoken encoding by encoding or model name.
func NewTikToken(name string) (*TikToken, error) {
	return tokenizer.NewTikToken(name)
}

// Batch folds ids into [0, vocabSize) and packs them as a [1, len(ids)] int32 array.
func Batch(ids []int32, vocabSize int) (*tensor.Array, error) {
	return tokenizer.Batch(ids, vocabSize)
}
