package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

func TestBatchNormTrainNormalizesAndUpdatesState(t *testing.T) {
	bn := BatchNorm(ModeTrain)
	x := tensor.MustFromSlice([]float32{
		1, 10,
		3, 30,
	}, 2, 2)
	weights, state, err := layer.Init(bn, x, random.New(0))
	require.NoError(t, err)
	require.Len(t, weights.(tensor.Tuple), 2)

	out, newState, err := layer.Apply(bn, x, tensor.Empty, tensor.Empty, random.Key{})
	require.NoError(t, err)
	got := data(out)
	assert.InDelta(t, -1, got[0], 1e-3)
	assert.InDelta(t, -1, got[1], 1e-3)
	assert.InDelta(t, 1, got[2], 1e-3)
	assert.InDelta(t, 1, got[3], 1e-3)

	s := newState.(tensor.Tuple)
	mean := data(s[0])
	assert.InDelta(t, 0.001*2, mean[0], 1e-6)
	assert.InDelta(t, 0.001*20, mean[1], 1e-5)
	assert.Equal(t, float32(1), tensor.AsArray(s[2]).Item())

	// The cached state is untouched by Apply.
	assert.Equal(t, state, bn.State())
}

func TestBatchNormEvalUsesRunningStatistics(t *testing.T) {
	bn := BatchNorm(ModeEval)
	x := tensor.MustFromSlice([]float32{1, 2, 3, 4}, 2, 2)
	_, state, err := layer.Init(bn, x, random.New(0))
	require.NoError(t, err)

	out, newState, err := layer.Apply(bn, x, tensor.Empty, tensor.Empty, random.Key{})
	require.NoError(t, err)
	assert.Equal(t, state, newState)
	for i, v := range data(out) {
		assert.InDelta(t, data(x)[i], v, 1e-4, "zero mean and unit variance leave x unchanged")
	}
}

func TestBatchNormShapeAgreement(t *testing.T) {
	out, err := layer.CheckShapeAgreement(BatchNorm(ModeTrain), f32(3, 4, 5))
	require.NoError(t, err)
	assert.Equal(t, f32(3, 4, 5), out)
}
