package nn

import (
	cb "github.com/stax-ml/stax/internal/combinators"
)

// FeedForward builds a residual feed-forward block from combinators.
//
// Architecture:
//
//	FFN(x) = x + Dropout(Dense2(Dropout(Relu(Dense1(LayerNorm(x))))))
//
// Where:
//   - Dense1: [d_model -> d_ff] (expansion)
//   - Dense2: [d_ff -> d_model] (projection back)
//
// Example:
//
//	ffn := nn.FeedForward(512, 2048, 0.1, nn.ModeTrain)
//	// [batch, seq, 512] -> [batch, seq, 512]
func FeedForward(dModel, dFF int, dropout float32, mode Mode) *cb.SerialLayer {
	return cb.Residual(
		LayerNorm(1e-6),
		Dense(dFF),
		Relu(),
		Dropout(dropout, mode),
		Dense(dModel),
		Dropout(dropout, mode),
	)
}
