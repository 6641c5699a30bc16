// Package models assembles complete networks from combinators and leaf layers.
package models

import (
	"github.com/pkg/errors"

	cb "github.com/stax-ml/stax/internal/combinators"
	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/nn"
)

// Cell names accepted by RNNLMConfig.Cell.
const (
	CellGRU  = "gru"
	CellLSTM = "lstm"
)

// RNNLMConfig configures an RNN language model.
type RNNLMConfig struct {
	VocabSize   int     // number of token ids
	DModel      int     // embedding depth, also the units of every cell
	NLayers     int     // stacked recurrent cells
	Cell        string  // CellGRU or CellLSTM
	DropoutRate float32 // embedding dropout
	Mode        nn.Mode // train, eval or predict
}

// DefaultConfig returns a small two-layer GRU language model configuration.
func DefaultConfig(vocabSize int) RNNLMConfig {
	return RNNLMConfig{
		VocabSize:   vocabSize,
		DModel:      512,
		NLayers:     2,
		Cell:        CellGRU,
		DropoutRate: 0.1,
		Mode:        nn.ModeTrain,
	}
}

// Validate reports the first invalid field.
func (c RNNLMConfig) Validate() error {
	switch {
	case c.VocabSize < 1:
		return errors.Errorf("vocab size must be positive, got %d", c.VocabSize)
	case c.DModel < 1:
		return errors.Errorf("d_model must be positive, got %d", c.DModel)
	case c.NLayers < 1:
		return errors.Errorf("n_layers must be positive, got %d", c.NLayers)
	case c.DropoutRate < 0 || c.DropoutRate >= 1:
		return errors.Errorf("dropout rate must be in [0, 1), got %g", c.DropoutRate)
	}
	if _, _, err := c.cell(); err != nil {
		return err
	}
	_, err := nn.ParseMode(string(c.Mode))
	return err
}

// cell returns a constructor for one recurrent cell and its state multiplier.
func (c RNNLMConfig) cell() (func(int) layer.Layer, int, error) {
	switch c.Cell {
	case CellGRU, "":
		return func(n int) layer.Layer { return nn.GRUCell(n) }, 1, nil
	case CellLSTM:
		return func(n int) layer.Layer { return nn.LSTMCell(n) }, 2, nil
	}
	return nil, 0, errors.Errorf("unknown cell %q (want %s or %s)", c.Cell, CellGRU, CellLSTM)
}

// NewRNNLM builds an RNN language model mapping int token ids [batch, length]
// to log-probabilities [batch, length, vocab_size].
//
// The input is shifted right so position t only sees tokens before t. All
// cells carry one concatenated state of width n_layers*multiplier*d_model
// across time; it starts at zero and is dropped after the scan.
func NewRNNLM(cfg RNNLMConfig) (*cb.SerialLayer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "rnnlm")
	}
	newCell, multiplier, _ := cfg.cell()

	return cb.NewSerial(
		nn.ShiftRight(cfg.Mode),
		nn.Embedding(cfg.DModel, cfg.VocabSize),
		nn.Dropout(cfg.DropoutRate, cfg.Mode),
		cb.Dup(), // duplicate to create the parallel state
		cb.Parallel(nil, nn.MakeZeroState(cfg.NLayers*multiplier)),
		cb.Scan(multiRNNCell(cfg.NLayers, cfg.DModel, newCell), 1, 1),
		cb.Parallel(nil, cb.Drop()), // drop the final state
		nn.Dense(cfg.VocabSize),
		nn.LogSoftmax(),
	)
}

// RNNLM is like NewRNNLM but panics on an invalid configuration.
func RNNLM(cfg RNNLMConfig) *cb.SerialLayer {
	m, err := NewRNNLM(cfg)
	if err != nil {
		panic(err)
	}
	return m
}

// multiRNNCell stacks n cells over one concatenated state:
// (x, s) -> (y, s') where s splits into one chunk per cell.
func multiRNNCell(n, dModel int, newCell func(int) layer.Layer) layer.Layer {
	cells := make([]layer.Layer, n)
	for i := range cells {
		cells[i] = newCell(dModel)
	}
	return cb.Serial(
		cb.Parallel(nil, cb.Split(n, -1)),
		cb.SerialWithSideOutputs(cells),
		cb.Parallel(nil, cb.Concatenate(n, -1)),
	)
}
