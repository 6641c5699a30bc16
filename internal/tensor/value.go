package tensor

import (
	"fmt"
	"strings"
)

// Value is anything that can sit in a layer stack slot or in a weight/state tree.
//
// The set of implementations is closed:
//   - *Array: concrete data
//   - Signature: abstract stand-in used for shape inference
//   - Tuple: ordered container of values, possibly nested
//   - Empty: the "no value" sentinel
type Value interface {
	fmt.Stringer
	isValue()
}

// Tuple is an ordered, possibly nested, sequence of values.
//
// An empty Tuple is a real (zero-length) container and is never confused with Empty.
type Tuple []Value

func (Tuple) isValue() {}

// String renders the tuple with its elements.
func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

type emptyValue struct{}

func (emptyValue) isValue()       {}
func (emptyValue) String() string { return "<empty>" }

// Empty marks the absence of weights or state. Compare with IsEmpty.
var Empty Value = emptyValue{}

// IsEmpty reports whether v is the Empty sentinel.
func IsEmpty(v Value) bool {
	_, ok := v.(emptyValue)
	return ok
}

// IsAbstract reports whether v contains at least one Signature.
func IsAbstract(v Value) bool {
	switch x := v.(type) {
	case Signature:
		return true
	case Tuple:
		for _, item := range x {
			if IsAbstract(item) {
				return true
			}
		}
	}
	return false
}

// Map applies fn to every array or signature leaf of v, preserving the tuple structure.
// Empty is passed through untouched.
func Map(v Value, fn func(Value) Value) Value {
	switch x := v.(type) {
	case Tuple:
		out := make(Tuple, len(x))
		for i, item := range x {
			out[i] = Map(item, fn)
		}
		return out
	case emptyValue:
		return x
	case nil:
		panic("tensor: nil value")
	default:
		return fn(x)
	}
}

// SignatureOf returns v with every array replaced by its signature.
func SignatureOf(v Value) Value {
	return Map(v, func(leaf Value) Value {
		return signatureOf(leaf)
	})
}

// Leaves returns the array and signature leaves of v in depth-first order.
func Leaves(v Value) []Value {
	var out []Value
	var walk func(Value)
	walk = func(x Value) {
		switch y := x.(type) {
		case Tuple:
			for _, item := range y {
				walk(item)
			}
		case emptyValue:
		default:
			out = append(out, y)
		}
	}
	walk(v)
	return out
}

// Rebuild returns a copy of template whose leaves are taken from leaves in order.
// It is the inverse of Leaves.
func Rebuild(template Value, leaves []Value) Value {
	i := 0
	out := Map(template, func(Value) Value {
		leaf := leaves[i]
		i++
		return leaf
	})
	if i != len(leaves) {
		panic(fmt.Sprintf("tensor: rebuild used %d of %d leaves", i, len(leaves)))
	}
	return out
}

// ShapesOf returns the shape of each leaf of v; tuples produce nested slices.
// A single leaf yields its Shape directly.
func ShapesOf(v Value) any {
	switch x := v.(type) {
	case Tuple:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = ShapesOf(item)
		}
		return out
	case emptyValue:
		return Shape{}
	default:
		return signatureOf(x).Shape()
	}
}

func signatureOf(v Value) Signature {
	switch x := v.(type) {
	case Signature:
		return x
	case *Array:
		return x.Signature()
	default:
		panic(fmt.Sprintf("tensor: %T has no signature", v))
	}
}
