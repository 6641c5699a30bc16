package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stax-ml/stax/internal/tensor"
)

func TestSplitIsDeterministic(t *testing.T) {
	a := Split(New(0), 3)
	b := Split(New(0), 3)

	assert.Equal(t, a, b)
}

func TestSplitProducesDistinctKeys(t *testing.T) {
	root := New(42)
	keys := Split(root, 8)

	seen := map[Key]bool{root: true}
	for _, k := range keys {
		assert.True(t, k.Valid())
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := tensor.AsArray(Uniform(New(1), tensor.Shape{16}, 0, 1))
	b := tensor.AsArray(Uniform(New(2), tensor.Shape{16}, 0, 1))

	assert.NotEqual(t, a.Data(), b.Data())
}

func TestUniformRange(t *testing.T) {
	out := tensor.AsArray(Uniform(New(7), tensor.Shape{1000}, -1, 1))

	for _, v := range out.Data() {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.Less(t, v, float32(1))
	}
}

func TestBernoulli(t *testing.T) {
	out := tensor.AsArray(Bernoulli(New(3), 0.25, tensor.Shape{4000}))
	assert.Equal(t, tensor.Bool, out.DType())

	var ones float32
	for _, v := range out.Data() {
		require.True(t, v == 0 || v == 1)
		ones += v
	}
	assert.InDelta(t, 0.25, ones/4000, 0.03)
}

func TestIntegers(t *testing.T) {
	out := tensor.AsArray(Integers(New(5), tensor.Shape{200}, 0, 10))
	for _, v := range out.Ints() {
		assert.True(t, v >= 0 && v < 10)
	}
	assert.Panics(t, func() { Integers(New(5), tensor.Shape{1}, 3, 3) })
}

func TestAbstractKeyNeverMaterializes(t *testing.T) {
	k := Abstract()
	assert.True(t, k.IsAbstract())
	for _, sub := range Split(k, 2) {
		assert.True(t, sub.IsAbstract())
	}

	mask := Bernoulli(k, 0.5, tensor.Shape{1 << 20, 1 << 10})
	assert.Equal(t, tensor.NewSignature(tensor.Shape{1 << 20, 1 << 10}, tensor.Bool), mask)
}

func TestZeroKey(t *testing.T) {
	var k Key
	assert.False(t, k.Valid())
	assert.Equal(t, []Key{{}, {}}, Split(k, 2))
	assert.Panics(t, func() { Uniform(k, tensor.Shape{1}, 0, 1) })
	assert.Equal(t, tensor.NewSignature(tensor.Shape{2}, tensor.Uint32), k.Signature())
}
