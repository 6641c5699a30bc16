package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/tensor"
)

func TestActivations(t *testing.T) {
	x := tensor.MustFromSlice([]float32{-2, 0, 2}, 3)

	tests := []struct {
		name string
		l    layer.Layer
		want func(float64) float64
	}{
		{"Relu", Relu(), func(v float64) float64 { return math.Max(0, v) }},
		{"Sigmoid", Sigmoid(), func(v float64) float64 { return 1 / (1 + math.Exp(-v)) }},
		{"Tanh", Tanh(), math.Tanh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.l.Name())
			out, err := layer.Call(tt.l, x)
			require.NoError(t, err)
			for i, v := range data(out) {
				assert.InDelta(t, tt.want(float64(data(x)[i])), float64(v), 1e-6)
			}
		})
	}
}

func TestLogSoftmaxNormalizesLastAxis(t *testing.T) {
	x := tensor.MustFromSlice([]float32{1, 2, 3, 0, 0, 0}, 2, 3)
	out, err := layer.Call(LogSoftmax(), x)
	require.NoError(t, err)

	got := data(out)
	for row := 0; row < 2; row++ {
		var sum float64
		for _, v := range got[row*3 : row*3+3] {
			sum += math.Exp(float64(v))
		}
		assert.InDelta(t, 1, sum, 1e-5)
	}
	assert.InDelta(t, -math.Log(3), float64(got[3]), 1e-5)
}
