package nn

import (
	cb "github.com/stax-ml/stax/internal/combinators"
	"github.com/stax-ml/stax/internal/layer"
)

// GRUCell builds a gated recurrent unit step from combinators.
//
// Inputs are (x, h) with x of shape [batch, d_in] and h of shape
// [batch, nUnits]; outputs are (h', h'), so the cell can serve both as the
// per-step output and as the carry of a Scan.
//
//	u  = sigmoid(Dense([x, h]))         // update gate
//	r  = sigmoid(Dense([x, h]))         // reset gate
//	c  = tanh(Dense([x, r*h]))          // candidate
//	h' = u*h + (1-u)*c
func GRUCell(nUnits int) *cb.SerialLayer {
	return cb.Serial(
		cb.Branch(
			hidden(),
			gateBlock(nUnits),
			candidateBlock(nUnits),
		), // h, u, c
		cb.Gate(),
		cb.Dup(),
	)
}

// gateBlock maps (x, h) to sigmoid(Dense([x, h])).
func gateBlock(nUnits int) *cb.SerialLayer {
	return cb.Serial(cb.Concatenate(2, -1), Dense(nUnits), Sigmoid())
}

// candidateBlock maps (x, h) to tanh(Dense([x, r*h])).
func candidateBlock(nUnits int) *cb.SerialLayer {
	return cb.Serial(
		cb.Branch(nil, gateBlock(nUnits), hidden()), // x, r, h
		cb.Parallel(nil, cb.Multiply()),             // x, r*h
		cb.Concatenate(2, -1),
		Dense(nUnits),
		Tanh(),
	)
}

// hidden selects h from (x, h).
func hidden() layer.Layer {
	sel, err := cb.NewSelect([]int{1}, 2)
	if err != nil {
		panic(err)
	}
	return sel
}
