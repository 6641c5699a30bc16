package tensor

import (
	"fmt"
	"math"

	"github.com/stax-ml/stax/internal/parallel"
)

// Parallel configures data parallelism of elementwise operations.
var Parallel = parallel.DefaultConfig()

// Add returns a + b with broadcasting.
func Add(a, b Value) Value {
	return binary("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub returns a - b with broadcasting.
func Sub(a, b Value) Value {
	return binary("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul returns a * b with broadcasting.
func Mul(a, b Value) Value {
	return binary("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div returns a / b with broadcasting.
func Div(a, b Value) Value {
	return binary("div", a, b, func(x, y float32) float32 { return x / y })
}

// AddScalar adds s to every element.
func AddScalar(a Value, s float32) Value {
	return unary(a, false, func(x float32) float32 { return x + s })
}

// MulScalar multiplies every element by s.
func MulScalar(a Value, s float32) Value {
	return unary(a, false, func(x float32) float32 { return x * s })
}

// Neg negates every element.
func Neg(a Value) Value {
	return MulScalar(a, -1)
}

// Exp computes e^x elementwise.
func Exp(a Value) Value {
	return unary(a, true, func(x float32) float32 { return float32(math.Exp(float64(x))) })
}

// Log computes the natural logarithm elementwise.
func Log(a Value) Value {
	return unary(a, true, func(x float32) float32 { return float32(math.Log(float64(x))) })
}

// Sqrt computes the square root elementwise.
func Sqrt(a Value) Value {
	return unary(a, true, func(x float32) float32 { return float32(math.Sqrt(float64(x))) })
}

// Square computes x*x elementwise.
func Square(a Value) Value {
	return unary(a, false, func(x float32) float32 { return x * x })
}

// Relu computes max(0, x) elementwise.
func Relu(a Value) Value {
	return unary(a, false, func(x float32) float32 { return max(x, 0) })
}

// Sigmoid computes 1 / (1 + e^-x) elementwise.
func Sigmoid(a Value) Value {
	return unary(a, true, func(x float32) float32 { return float32(1 / (1 + math.Exp(-float64(x)))) })
}

// Tanh computes the hyperbolic tangent elementwise.
func Tanh(a Value) Value {
	return unary(a, true, func(x float32) float32 { return float32(math.Tanh(float64(x))) })
}

// Cast converts a value to another dtype. Float to integer conversion truncates toward zero.
func Cast(a Value, dtype DataType) Value {
	sig := signatureOf(a)
	if _, ok := a.(Signature); ok {
		return NewSignature(sig.Shape(), dtype)
	}
	src := AsArray(a)
	out := NewArray(src.shape, dtype)
	for i, v := range src.data {
		switch {
		case dtype == Bool:
			if v != 0 {
				out.data[i] = 1
			}
		case dtype.IsInteger():
			out.data[i] = float32(math.Trunc(float64(v)))
		default:
			out.data[i] = v
		}
	}
	return out
}

// AllClose reports whether two arrays have the same shape and elements within tol.
func AllClose(a, b *Array, tol float32) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i := range a.data {
		d := a.data[i] - b.data[i]
		if d < -tol || d > tol {
			return false
		}
	}
	return true
}

func binary(name string, a, b Value, f func(x, y float32) float32) Value {
	sa, sb := signatureOf(a), signatureOf(b)
	outShape, err := BroadcastShapes(sa.Shape(), sb.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	dtype := promote(sa.DType(), sb.DType())
	if isSignature(a) || isSignature(b) {
		return NewSignature(outShape, dtype)
	}

	x, y := AsArray(a), AsArray(b)
	out := NewArray(outShape, dtype)

	if x.shape.Equal(y.shape) {
		parallel.Range(len(out.data), func(start, end int) {
			for i := start; i < end; i++ {
				out.data[i] = f(x.data[i], y.data[i])
			}
		}, Parallel)
		return out
	}

	outStrides := outShape.ComputeStrides()
	xStrides := broadcastStrides(x.shape, outShape)
	yStrides := broadcastStrides(y.shape, outShape)
	parallel.Range(len(out.data), func(start, end int) {
		for i := start; i < end; i++ {
			out.data[i] = f(x.data[flatIndex(i, outStrides, xStrides)], y.data[flatIndex(i, outStrides, yStrides)])
		}
	}, Parallel)
	return out
}

// unary maps f over every element; toFloat promotes integer inputs to float32.
func unary(a Value, toFloat bool, f func(float32) float32) Value {
	sig := signatureOf(a)
	dtype := sig.DType()
	if toFloat && !dtype.IsFloat() {
		dtype = Float32
	}
	if isSignature(a) {
		return NewSignature(sig.Shape(), dtype)
	}
	x := AsArray(a)
	out := NewArray(x.shape, dtype)
	parallel.Range(len(out.data), func(start, end int) {
		for i := start; i < end; i++ {
			out.data[i] = f(x.data[i])
		}
	}, Parallel)
	return out
}

func isSignature(v Value) bool {
	_, ok := v.(Signature)
	return ok
}

// broadcastStrides computes strides for reading inShape as if it had outShape.
// Dimensions of size 1 and padded leading dimensions get stride 0.
func broadcastStrides(inShape, outShape Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)
	offset := outDim - len(inShape)
	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}
	return strides
}

// flatIndex maps a flat output index to a flat input index.
func flatIndex(outIdx int, outStrides, inStrides []int) int {
	flatIdx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flatIdx += coord * inStrides[i]
	}
	return flatIdx
}
