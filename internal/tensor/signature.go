package tensor

import "fmt"

// MaxRank is the largest rank a Signature can describe.
const MaxRank = 8

// Signature describes a tensor by shape and element type, without data.
//
// Signatures are plain comparable values: == compares shape and dtype, and a
// Signature can be used as a map key.
type Signature struct {
	dims  [MaxRank]int
	rank  int
	dtype DataType
}

// NewSignature creates a signature. It panics if the shape is invalid.
func NewSignature(shape Shape, dtype DataType) Signature {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor: invalid signature shape %v: %v", []int(shape), err))
	}
	s := Signature{rank: len(shape), dtype: dtype}
	copy(s.dims[:], shape)
	return s
}

func (Signature) isValue() {}

// Shape returns a fresh copy of the signature's shape.
func (s Signature) Shape() Shape {
	out := make(Shape, s.rank)
	copy(out, s.dims[:s.rank])
	return out
}

// DType returns the element type.
func (s Signature) DType() DataType {
	return s.dtype
}

// Rank returns the number of dimensions.
func (s Signature) Rank() int {
	return s.rank
}

// NumElements returns the number of elements a tensor of this signature holds.
func (s Signature) NumElements() int {
	return s.Shape().NumElements()
}

// String renders the signature, e.g. ShapeDtype{shape:(2, 3), dtype:float32}.
func (s Signature) String() string {
	return fmt.Sprintf("ShapeDtype{shape:%s, dtype:%s}", s.Shape(), s.dtype)
}
