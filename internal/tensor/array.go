package tensor

import (
	"fmt"
	"math"
	"strings"
)

// Array is a dense, row-major, CPU-resident tensor.
//
// Elements are held as float32 for every dtype; integer and bool arrays carry
// integral values (exact up to 2^24), which is sufficient for token ids and masks.
//
// Example:
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	y := tensor.Add(x, x) // Value holding an *Array of shape (2, 3)
type Array struct {
	shape Shape
	dtype DataType
	data  []float32
}

func (*Array) isValue() {}

// NewArray allocates a zero-filled array. It panics if the shape is invalid.
func NewArray(shape Shape, dtype DataType) *Array {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor: invalid shape: %v", err))
	}
	return &Array{
		shape: shape.Clone(),
		dtype: dtype,
		data:  make([]float32, shape.NumElements()),
	}
}

// FromSlice creates a float32 array from a Go slice.
// The slice is copied into the array's memory.
func FromSlice(data []float32, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	a := NewArray(shape, Float32)
	copy(a.data, data)
	return a, nil
}

// FromInts creates an int32 array from a Go slice.
func FromInts(data []int32, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	a := NewArray(shape, Int32)
	for i, v := range data {
		a.data[i] = float32(v)
	}
	return a, nil
}

// MustFromSlice is like FromSlice but panics on error. Intended for tests and literals.
func MustFromSlice(data []float32, shape ...int) *Array {
	a, err := FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return a
}

// Scalar creates a rank-0 float32 array.
func Scalar(v float32) *Array {
	a := NewArray(Shape{}, Float32)
	a.data[0] = v
	return a
}

// Zeros creates an array filled with zeros.
func Zeros(shape Shape, dtype DataType) *Array {
	return NewArray(shape, dtype)
}

// Full creates an array filled with v.
func Full(shape Shape, dtype DataType, v float32) *Array {
	a := NewArray(shape, dtype)
	for i := range a.data {
		a.data[i] = v
	}
	return a
}

// ZerosLike returns zeros matching v: an *Array for concrete input and a
// Signature for abstract input.
func ZerosLike(v Value) Value {
	sig := signatureOf(v)
	if _, ok := v.(Signature); ok {
		return sig
	}
	return Zeros(sig.Shape(), sig.DType())
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// DType returns the array's data type.
func (a *Array) DType() DataType {
	return a.dtype
}

// Signature returns the abstract description of the array.
func (a *Array) Signature() Signature {
	return NewSignature(a.shape, a.dtype)
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return len(a.data)
}

// Data returns the underlying elements (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the array.
func (a *Array) Data() []float32 {
	return a.data
}

// Ints returns the elements converted to int32.
func (a *Array) Ints() []int32 {
	out := make([]int32, len(a.data))
	for i, v := range a.data {
		out[i] = int32(math.Round(float64(v)))
	}
	return out
}

// Item returns the scalar value of a single-element array.
// Panics if the array holds more than one element.
func (a *Array) Item() float32 {
	if len(a.data) != 1 {
		panic(fmt.Sprintf("Item() only works for single-element arrays, got shape %v", a.shape))
	}
	return a.data[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (a *Array) At(indices ...int) float32 {
	if len(indices) != len(a.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(a.shape), len(indices)))
	}

	offset := 0
	strides := a.shape.ComputeStrides()
	for i, idx := range indices {
		if idx < 0 || idx >= a.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, a.shape[i]))
		}
		offset += idx * strides[i]
	}
	return a.data[offset]
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	out := NewArray(a.shape, a.dtype)
	copy(out.data, a.data)
	return out
}

// String renders the array with at most 8 leading elements.
func (a *Array) String() string {
	const limit = 8
	n := min(len(a.data), limit)
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprint(a.data[i])
	}
	suffix := ""
	if len(a.data) > limit {
		suffix = " ..."
	}
	return fmt.Sprintf("Array{shape:%s, dtype:%s, data:[%s%s]}", a.shape, a.dtype, strings.Join(parts, " "), suffix)
}

// AsArray asserts that v is concrete data.
// Panics with a descriptive message otherwise.
func AsArray(v Value) *Array {
	a, ok := v.(*Array)
	if !ok {
		panic(fmt.Sprintf("tensor: expected an array, got %s", describe(v)))
	}
	return a
}

func describe(v Value) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T %s", v, v)
}
