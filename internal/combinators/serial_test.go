package combinators

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

func TestSerialArity(t *testing.T) {
	tests := []struct {
		name      string
		layers    []any
		nIn, nOut int
	}{
		{"empty", nil, 1, 1},
		{"lone nil", []any{nil}, 1, 1},
		{"one", []any{arity(1, 1)}, 1, 1},
		{"dup then add", []any{Dup(), Add()}, 1, 1},
		{"deep access", []any{arity(1, 1), arity(3, 1)}, 3, 1},
		{"growth", []any{arity(1, 2), arity(1, 2)}, 1, 3},
		{"sink", []any{Drop(), Drop()}, 2, 0},
		{"nested lists", []any{[]any{Dup(), []layer.Layer{Add()}}, arity(1, 2)}, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSerial(tt.layers...)
			require.NoError(t, err)
			assert.Equal(t, tt.nIn, s.NIn())
			assert.Equal(t, tt.nOut, s.NOut())
		})
	}
}

func TestSerialFlattensNestedLists(t *testing.T) {
	s := Serial([]any{Dup(), []any{Add(), []layer.Layer{scaleBy(2)}}})
	assert.Len(t, s.Sublayers(), 3)
}

func TestSerialRejectsNonLayers(t *testing.T) {
	_, err := NewSerial(Dup(), 3)
	assert.ErrorIs(t, err, layer.ErrConstruction)

	_, err = NewSerial(Dup(), nil)
	assert.ErrorIs(t, err, layer.ErrConstruction)

	assert.Panics(t, func() { Serial("dense") })
}

func TestSerialIdentity(t *testing.T) {
	x := vec(1, 2, 3)
	for _, s := range []*SerialLayer{Serial(), Serial(nil)} {
		assert.Empty(t, s.Sublayers())

		out, err := layer.Call(s, x)
		require.NoError(t, err)
		assert.Same(t, x, out)

		pair := tensor.Tuple{x, x}
		out, err = layer.Call(s, pair)
		require.NoError(t, err)
		assert.Equal(t, pair, out)
	}
}

func TestSerialComposes(t *testing.T) {
	s := Serial(scaleBy(2), scaleBy(3))

	out, err := layer.Call(s, vec(1, 2))
	require.NoError(t, err)
	assert.Equal(t, []float32{6, 12}, data(out))
}

func TestSerialLeavesUnconsumedItems(t *testing.T) {
	s := Serial(Add())
	a, b, c := vec(1), vec(2), vec(10)

	out, err := layer.Call(s, tensor.Tuple{a, b, c})
	require.NoError(t, err)

	items := out.(tensor.Tuple)
	require.Len(t, items, 2)
	assert.Equal(t, []float32{3}, data(items[0]))
	assert.Same(t, c, items[1])
}

func TestSerialUnwrapsSingleResult(t *testing.T) {
	s := Serial(Dup(), Add())

	out, err := layer.Call(s, vec(4))
	require.NoError(t, err)
	assert.Equal(t, []float32{8}, data(out))
}

func TestSerialRejectsShortInput(t *testing.T) {
	s := Serial(Add())

	_, err := layer.Call(s, vec(1))
	assert.ErrorIs(t, err, layer.ErrArity)
}

func TestSerialWeights(t *testing.T) {
	a, b := weighted(), weighted()
	s := Serial(a, scaleBy(2), b)
	sig := tensor.NewSignature(tensor.Shape{2, 3}, tensor.Float32)

	w, st, err := layer.Init(s, sig, random.Key{})
	require.NoError(t, err)

	ws := w.(tensor.Tuple)
	require.Len(t, ws, 3)
	assert.Same(t, a.Weights(), ws[0])
	assert.True(t, tensor.IsEmpty(ws[1]))
	assert.Same(t, b.Weights(), ws[2])
	assert.Len(t, st.(tensor.Tuple), 3)
	assert.NotEqual(t, data(ws[0]), data(ws[2]))

	x := tensor.Full(tensor.Shape{2, 3}, tensor.Float32, 1)
	out, err := layer.Call(s, x)
	require.NoError(t, err)
	wa, wb := data(ws[0]), data(ws[2])
	for j := 0; j < 3; j++ {
		assert.InDelta(t, 2*wa[j]*wb[j], tensor.AsArray(out).At(1, j), 1e-6)
	}
}

func TestSerialRejectsMismatchedWeights(t *testing.T) {
	s := Serial(weighted(), weighted())
	sig := tensor.NewSignature(tensor.Shape{3}, tensor.Float32)
	_, _, err := layer.Init(s, sig, random.Key{})
	require.NoError(t, err)

	_, _, err = layer.Apply(s, vec(1, 2, 3), tensor.Tuple{vec(1, 1, 1)}, tensor.Empty, random.Key{})
	assert.ErrorIs(t, err, layer.ErrTreeShape)
}

func TestSerialSingletonWeightsMayBeUnwrapped(t *testing.T) {
	s := Serial(weighted())
	w := vec(2, 3)

	out, _, err := layer.Apply(s, vec(1, 1), w, tensor.Tuple{tensor.Empty}, random.Key{})
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 3}, data(out))

	out, _, err = layer.Apply(s, vec(1, 1), tensor.Tuple{w}, tensor.Empty, random.Key{})
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 3}, data(out))
}

func TestSerialSharedLayer(t *testing.T) {
	shared := weighted()
	s := Serial(shared, shared)
	sig := tensor.NewSignature(tensor.Shape{4}, tensor.Float32)

	w, _, err := layer.Init(s, sig, random.Key{})
	require.NoError(t, err)
	ws := w.(tensor.Tuple)
	assert.False(t, tensor.IsEmpty(ws[0]))
	assert.True(t, tensor.IsEmpty(ws[1]))

	out, err := layer.Call(s, tensor.Full(tensor.Shape{4}, tensor.Float32, 1))
	require.NoError(t, err)
	for i, v := range data(shared.Weights()) {
		assert.InDelta(t, v*v, data(out)[i], 1e-6)
	}
}

func TestSerialErrorPath(t *testing.T) {
	boom := layer.Fn("Boom", 1, 1, func(tensor.Value, tensor.Value) (tensor.Value, error) {
		return nil, errors.New("boom")
	})
	s := Serial(scaleBy(1), Parallel(nil, boom))

	_, err := layer.Call(s, tensor.Tuple{vec(1), vec(2)})
	require.Error(t, err)

	var le *layer.LayerError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "Boom", le.Layer)
	assert.Equal(t, []string{"Serial", "Parallel"}, le.Path)
}

func TestSerialForwardAbstract(t *testing.T) {
	s := Serial(Dup(), Concatenate(2, -1), weighted())
	sig := tensor.NewSignature(tensor.Shape{5, 3}, tensor.Float32)

	out, err := layer.CheckShapeAgreement(s, sig)
	require.NoError(t, err)
	assert.Equal(t, tensor.NewSignature(tensor.Shape{5, 6}, tensor.Float32), out)
}
