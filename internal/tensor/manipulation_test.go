package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatenate(t *testing.T) {
	a := MustFromSlice([]float32{1, 2, 3, 4}, 2, 2)
	b := MustFromSlice([]float32{5, 6}, 2, 1)

	out := AsArray(Concatenate([]Value{a, b}, -1))
	assert.Equal(t, Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{1, 2, 5, 3, 4, 6}, out.Data())

	rows := AsArray(Concatenate([]Value{a, a}, 0))
	assert.Equal(t, Shape{4, 2}, rows.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 1, 2, 3, 4}, rows.Data())

	assert.Panics(t, func() { Concatenate([]Value{a, b}, 0) })
	assert.Panics(t, func() { Concatenate(nil, 0) })
}

func TestConcatenateAbstract(t *testing.T) {
	a := NewSignature(Shape{2, 2}, Float32)
	b := MustFromSlice([]float32{5, 6}, 2, 1)

	assert.Equal(t, NewSignature(Shape{2, 3}, Float32), Concatenate([]Value{a, b}, 1))
}

func TestSplitInvertsConcatenate(t *testing.T) {
	x := MustFromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8}, 2, 4)

	parts := Split(x, 2, -1)
	require.Len(t, parts, 2)
	assert.Equal(t, []float32{1, 2, 5, 6}, AsArray(parts[0]).Data())
	assert.Equal(t, []float32{3, 4, 7, 8}, AsArray(parts[1]).Data())

	joined := AsArray(Concatenate(parts, -1))
	assert.True(t, AllClose(x, joined, 0))

	assert.Panics(t, func() { Split(x, 3, -1) })
}

func TestTakeAndStack(t *testing.T) {
	x := MustFromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)

	col := AsArray(Take(x, 1, 2))
	assert.Equal(t, Shape{2}, col.Shape())
	assert.Equal(t, []float32{3, 6}, col.Data())

	cols := []Value{Take(x, 1, 0), Take(x, 1, 1), Take(x, 1, 2)}
	restacked := AsArray(Stack(cols, 1))
	assert.True(t, AllClose(x, restacked, 0))

	assert.Panics(t, func() { Take(x, 1, 3) })
}

func TestShiftRight(t *testing.T) {
	x := MustFromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)

	out := AsArray(ShiftRight(x, 1))

	assert.Equal(t, []float32{0, 1, 2, 0, 4, 5}, out.Data())
}

func TestGather(t *testing.T) {
	table := MustFromSlice([]float32{0, 0, 1, 1, 2, 2}, 3, 2)
	ids, err := FromInts([]int32{2, 0, 1, 2}, Shape{2, 2})
	require.NoError(t, err)

	out := AsArray(Gather(table, ids))

	assert.Equal(t, Shape{2, 2, 2}, out.Shape())
	assert.Equal(t, []float32{2, 2, 0, 0, 1, 1, 2, 2}, out.Data())

	bad, _ := FromInts([]int32{3}, Shape{1})
	assert.Panics(t, func() { Gather(table, bad) })
}

func TestReshape(t *testing.T) {
	x := MustFromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)

	out := AsArray(Reshape(x, Shape{3, 2}))

	assert.Equal(t, Shape{3, 2}, out.Shape())
	assert.Equal(t, x.Data(), out.Data())
	assert.Panics(t, func() { Reshape(x, Shape{4}) })
}
