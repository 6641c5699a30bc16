package layer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

var sig23 = tensor.NewSignature(tensor.Shape{2, 3}, tensor.Float32)

func TestNewBaseRejectsNegativeArity(t *testing.T) {
	assert.Panics(t, func() { NewBase("Bad", -1, 1, Site{}) })
	assert.Panics(t, func() { NewBase("Bad", 1, -2, Site{}) })
}

func TestString(t *testing.T) {
	c := newChain(scale(), newCounter())
	assert.Equal(t, "Chain{in=1,out=1,sublayers=[Scale{in=1,out=1}, Counter{in=1,out=1}]}", c.String())
}

func TestSiteRecordsConstructor(t *testing.T) {
	l := scale()
	assert.True(t, strings.HasSuffix(l.Site().File, "layer_test.go"), l.Site().File)
	assert.Positive(t, l.Site().Line)
	assert.True(t, strings.HasPrefix(l.Site().ShortFile(), "[...]/"))
}

func TestInitReturnsWeightsOnce(t *testing.T) {
	l := scale()

	w1, s1, err := Init(l, sig23, random.Key{})
	require.NoError(t, err)
	assert.False(t, tensor.IsEmpty(w1))
	assert.True(t, tensor.IsEmpty(s1))
	assert.True(t, l.Initialized())
	assert.Equal(t, sig23, l.InputSignature())

	w2, _, err := Init(l, sig23, random.Key{})
	require.NoError(t, err)
	assert.True(t, tensor.IsEmpty(w2))
	assert.Same(t, w1.(*tensor.Array), l.Weights().(*tensor.Array))
}

func TestReinitStillReturnsState(t *testing.T) {
	c := newCounter()

	_, s1, err := Init(c, sig23, random.Key{})
	require.NoError(t, err)
	w2, s2, err := Init(c, sig23, random.Key{})
	require.NoError(t, err)

	assert.True(t, tensor.IsEmpty(w2))
	assert.Equal(t, float32(0), tensor.AsArray(s1).Item())
	assert.Equal(t, float32(0), tensor.AsArray(s2).Item())
}

func TestInitAcceptsConcreteInputs(t *testing.T) {
	l := scale()
	x := tensor.Zeros(tensor.Shape{2, 3}, tensor.Float32)

	w, _, err := Init(l, x, random.Key{})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, tensor.AsArray(w).Shape())
	assert.Equal(t, sig23, l.InputSignature())
}

func TestInitIsDeterministic(t *testing.T) {
	a, b := newChain(scale(), scale()), newChain(scale(), scale())

	wa, _, err := Init(a, sig23, random.Key{})
	require.NoError(t, err)
	wb, _, err := Init(b, sig23, random.Key{})
	require.NoError(t, err)

	assert.Equal(t, wa, wb)
}

func TestInitSeedsEveryLevel(t *testing.T) {
	leaf1, leaf2, leaf3 := scale(), scale(), scale()
	root := newChain(leaf1, newChain(leaf2, newChain(leaf3)))

	_, _, err := Init(root, sig23, random.New(9))
	require.NoError(t, err)

	w1 := tensor.AsArray(leaf1.Weights())
	w2 := tensor.AsArray(leaf2.Weights())
	w3 := tensor.AsArray(leaf3.Weights())
	assert.NotEqual(t, w1.Data(), w2.Data())
	assert.NotEqual(t, w2.Data(), w3.Data())
}

func TestInitKeyChangesWeights(t *testing.T) {
	a, b := scale(), scale()

	wa, _, err := Init(a, sig23, random.New(1))
	require.NoError(t, err)
	wb, _, err := Init(b, sig23, random.New(2))
	require.NoError(t, err)

	assert.NotEqual(t, tensor.AsArray(wa).Data(), tensor.AsArray(wb).Data())
}

func TestSharedInstanceContributesWeightsOnce(t *testing.T) {
	shared := scale()
	c := newChain(shared, shared)

	w, _, err := Init(c, sig23, random.Key{})
	require.NoError(t, err)

	ws := w.(tensor.Tuple)
	require.Len(t, ws, 2)
	assert.False(t, tensor.IsEmpty(ws[0]))
	assert.True(t, tensor.IsEmpty(ws[1]))

	x := tensor.Full(tensor.Shape{2, 3}, tensor.Float32, 1)
	out, err := Call(c, x)
	require.NoError(t, err)

	wd := tensor.AsArray(shared.Weights()).Data()
	for i, v := range tensor.AsArray(out).Data() {
		assert.InDelta(t, wd[i]*wd[i], v, 1e-6)
	}
}

func TestNewRNGs(t *testing.T) {
	l := scale()
	_, err := l.NewRNGs(2)
	require.Error(t, err, "unseeded layer")

	_, _, err = Init(l, sig23, random.Key{})
	require.NoError(t, err)

	_, err = l.NewRNGs(0)
	require.Error(t, err)

	a, err := l.NewRNGs(2)
	require.NoError(t, err)
	b, err := l.NewRNGs(2)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, l.NewRNG(), l.NewRNG())
}

func TestApplyExplicitWeightsAreNotCached(t *testing.T) {
	l := scale()
	_, _, err := Init(l, sig23, random.Key{})
	require.NoError(t, err)
	cached := l.Weights()

	x := tensor.Full(tensor.Shape{2, 3}, tensor.Float32, 3)
	w := tensor.Full(tensor.Shape{2, 3}, tensor.Float32, 2)
	out, _, err := Apply(l, x, w, tensor.Empty, random.Key{})
	require.NoError(t, err)

	assert.True(t, tensor.AllClose(tensor.Full(tensor.Shape{2, 3}, tensor.Float32, 6), tensor.AsArray(out), 1e-6))
	assert.Same(t, cached.(*tensor.Array), l.Weights().(*tensor.Array))
}

func TestApplyReturnsNewState(t *testing.T) {
	c := newCounter()
	_, _, err := Init(c, sig23, random.Key{})
	require.NoError(t, err)

	x := tensor.Zeros(tensor.Shape{2, 3}, tensor.Float32)
	_, s, err := Apply(c, x, tensor.Empty, tensor.Empty, random.Key{})
	require.NoError(t, err)
	_, s, err = Apply(c, x, tensor.Empty, s, random.Key{})
	require.NoError(t, err)

	assert.Equal(t, float32(2), tensor.AsArray(s).Item())
	assert.Equal(t, float32(0), tensor.AsArray(c.State()).Item())
}

func TestCallOptions(t *testing.T) {
	l := scale()
	_, _, err := Init(l, sig23, random.Key{})
	require.NoError(t, err)

	x := tensor.Full(tensor.Shape{2, 3}, tensor.Float32, 1)
	out, err := Call(l, x, Weights(tensor.Full(tensor.Shape{2, 3}, tensor.Float32, 5)), RNG(random.New(1)))
	require.NoError(t, err)
	assert.Equal(t, float32(5), tensor.AsArray(out).At(1, 2))
}

func TestForwardAbstract(t *testing.T) {
	c := newChain(scale(), newCounter())
	_, _, err := Init(c, sig23, random.Key{})
	require.NoError(t, err)

	out, state, err := ForwardAbstract(c, sig23)
	require.NoError(t, err)
	assert.Equal(t, sig23, out)
	assert.Equal(t, tensor.NewSignature(tensor.Shape{}, tensor.Float32), state.(tensor.Tuple)[1])
}

func TestFn(t *testing.T) {
	add := Fn("Add", 2, 1, func(inputs, _ tensor.Value) (tensor.Value, error) {
		xs := inputs.(tensor.Tuple)
		return tensor.Add(xs[0], xs[1]), nil
	})
	x := tensor.MustFromSlice([]float32{1, 2}, 2)

	out, err := Call(add, tensor.Tuple{x, x})
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 4}, tensor.AsArray(out).Data())

	_, err = Call(add, x)
	assert.ErrorIs(t, err, ErrArity)

	_, err = Call(add, tensor.Tuple{x, x, x})
	assert.ErrorIs(t, err, ErrArity)
}

func TestFnNilOutputIsEmptyTuple(t *testing.T) {
	sink := Fn("Sink", 1, 0, func(tensor.Value, tensor.Value) (tensor.Value, error) {
		return nil, nil
	})

	out, err := Call(sink, tensor.Scalar(1))
	require.NoError(t, err)
	assert.Equal(t, tensor.Tuple{}, out)
}

func TestRelocate(t *testing.T) {
	inner := newCounter()
	c := newChain(inner, newCounter())
	to := Site{File: "/src/app/model/model.go", Line: 7}

	assert.Same(t, c, Relocate(c, to))
	assert.Equal(t, to, c.Site())
	assert.Equal(t, to, c.Sublayers()[1].(*counter).Site())
	assert.NotEqual(t, to, inner.Site(), "a sublayer built elsewhere keeps its site")
}
