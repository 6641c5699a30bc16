// Copyright 2025 The Stax Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package layers

import (
	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/nn"
)

// Mode selects train, eval or predict behavior.
type Mode = nn.Mode

// Modes.
const (
	ModeTrain   = nn.ModeTrain
	ModeEval    = nn.ModeEval
	ModePredict = nn.ModePredict
)

// Leaf layer types.
type (
	DenseLayer     = nn.DenseLayer
	EmbeddingLayer = nn.EmbeddingLayer
	DropoutLayer   = nn.DropoutLayer
	BatchNormLayer = nn.BatchNormLayer
	LayerNormLayer = nn.LayerNormLayer
	RMSNormLayer   = nn.RMSNormLayer
	LSTMCellLayer  = nn.LSTMCellLayer
)

// Dense is a fully connected layer with nUnits outputs and Xavier-initialized weights.
func Dense(nUnits int) *DenseLayer { return layer.Relocate(nn.Dense(nUnits), layer.Caller(1)) }

// Embedding maps integer ids to learned vectors of size dFeature.
func Embedding(dFeature, vocabSize int) *EmbeddingLayer {
	return layer.Relocate(nn.Embedding(dFeature, vocabSize), layer.Caller(1))
}

// Relu applies max(0, x).
func Relu() *FnLayer { return layer.Relocate(nn.Relu(), layer.Caller(1)) }

// Sigmoid applies 1 / (1 + exp(-x)).
func Sigmoid() *FnLayer { return layer.Relocate(nn.Sigmoid(), layer.Caller(1)) }

// Tanh applies the hyperbolic tangent.
func Tanh() *FnLayer { return layer.Relocate(nn.Tanh(), layer.Caller(1)) }

// LogSoftmax normalizes the last axis into log-probabilities.
func LogSoftmax() *FnLayer { return layer.Relocate(nn.LogSoftmax(), layer.Caller(1)) }

// Dropout zeroes elements with probability rate in train mode.
func Dropout(rate float32, mode Mode) *DropoutLayer {
	return layer.Relocate(nn.Dropout(rate, mode), layer.Caller(1))
}

// ShiftRight shifts the length axis right by one, except in predict mode.
func ShiftRight(mode Mode) *FnLayer { return layer.Relocate(nn.ShiftRight(mode), layer.Caller(1)) }

// MakeZeroState creates a zero recurrent state of width multiplier*d.
func MakeZeroState(multiplier int) *FnLayer {
	return layer.Relocate(nn.MakeZeroState(multiplier), layer.Caller(1))
}

// BatchNorm normalizes over every axis but the last, tracking running statistics.
func BatchNorm(mode Mode) *BatchNormLayer {
	return layer.Relocate(nn.BatchNorm(mode), layer.Caller(1))
}

// LayerNorm normalizes the last axis of each example.
func LayerNorm(epsilon float32) *LayerNormLayer {
	return layer.Relocate(nn.LayerNorm(epsilon), layer.Caller(1))
}

// RMSNorm scales the last axis by its root mean square.
func RMSNorm(epsilon float32) *RMSNormLayer {
	return layer.Relocate(nn.RMSNorm(epsilon), layer.Caller(1))
}

// CrossEntropy maps (log_probs, targets) to the mean negative log-likelihood.
func CrossEntropy() *FnLayer { return layer.Relocate(nn.CrossEntropy(), layer.Caller(1)) }

// FeedForward is a residual Dense-Relu-Dense block with layer normalization.
func FeedForward(dModel, dFF int, dropout float32, mode Mode) *SerialLayer {
	return layer.Relocate(nn.FeedForward(dModel, dFF, dropout, mode), layer.Caller(1))
}

// GRUCell is one gated recurrent step: (x, h) -> (h', h').
func GRUCell(nUnits int) *SerialLayer { return layer.Relocate(nn.GRUCell(nUnits), layer.Caller(1)) }

// LSTMCell is one long short-term memory step: (x, [c, h]) -> (h', [c', h']).
func LSTMCell(nUnits int) *LSTMCellLayer {
	return layer.Relocate(nn.LSTMCell(nUnits), layer.Caller(1))
}
