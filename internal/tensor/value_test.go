package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureIsComparable(t *testing.T) {
	a := NewSignature(Shape{2, 3}, Float32)
	b := NewSignature(Shape{2, 3}, Float32)
	c := NewSignature(Shape{3, 2}, Float32)
	d := NewSignature(Shape{2, 3}, Int32)

	assert.True(t, a == b)
	assert.False(t, a == c)
	assert.False(t, a == d)

	seen := map[Signature]int{a: 1}
	assert.Equal(t, 1, seen[b])
	assert.Equal(t, "ShapeDtype{shape:(2, 3), dtype:float32}", a.String())
}

func TestSignatureShapeIsCopy(t *testing.T) {
	s := NewSignature(Shape{4, 5}, Float32)
	shape := s.Shape()
	shape[0] = 99
	assert.Equal(t, Shape{4, 5}, s.Shape())
}

func TestSignatureRejectsInvalidShape(t *testing.T) {
	assert.Panics(t, func() { NewSignature(Shape{-1}, Float32) })
	assert.Panics(t, func() { NewSignature(make(Shape, MaxRank+1), Float32) })
}

func TestEmptyIsDistinctFromEmptyTuple(t *testing.T) {
	assert.True(t, IsEmpty(Empty))
	assert.False(t, IsEmpty(Tuple{}))
	assert.False(t, IsEmpty(Scalar(0)))
	assert.NotEqual(t, Empty, Value(Tuple{}))
}

func TestSignatureOfNested(t *testing.T) {
	x := MustFromSlice([]float32{1, 2, 3}, 3)
	v := Tuple{x, Tuple{Empty, Zeros(Shape{2, 2}, Int32)}}

	got := SignatureOf(v)

	want := Tuple{
		NewSignature(Shape{3}, Float32),
		Tuple{Empty, NewSignature(Shape{2, 2}, Int32)},
	}
	assert.Equal(t, want, got)
	assert.True(t, IsAbstract(got))
	assert.False(t, IsAbstract(v))
}

func TestLeavesAndRebuild(t *testing.T) {
	a := Scalar(1)
	b := Scalar(2)
	c := Scalar(3)
	v := Tuple{a, Tuple{b, Empty}, c}

	leaves := Leaves(v)
	require.Len(t, leaves, 3)
	assert.Same(t, b, leaves[1])

	rebuilt := Rebuild(v, []Value{c, a, b})
	assert.Equal(t, Tuple{c, Tuple{a, Empty}, b}, rebuilt)

	assert.Panics(t, func() { Rebuild(v, []Value{a}) })
}

func TestShapesOf(t *testing.T) {
	v := Tuple{Zeros(Shape{2}, Float32), NewSignature(Shape{1, 4}, Float32)}
	assert.Equal(t, []any{Shape{2}, Shape{1, 4}}, ShapesOf(v))
	assert.Equal(t, Shape{2}, ShapesOf(Zeros(Shape{2}, Float32)))
}
