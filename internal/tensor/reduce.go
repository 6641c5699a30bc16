package tensor

import (
	"fmt"
	"math"
)

// axisLayout splits a shape around axis into outer * size * inner blocks.
func axisLayout(shape Shape, axis int) (outer, size, inner int) {
	outer, inner = 1, 1
	for i := 0; i < axis; i++ {
		outer *= shape[i]
	}
	for i := axis + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, shape[axis], inner
}

// Sum reduces along axis.
func Sum(a Value, axis int, keepDims bool) Value {
	return reduce(a, axis, keepDims, func(xs []float32) float32 {
		var s float32
		for _, x := range xs {
			s += x
		}
		return s
	})
}

// Mean averages along axis.
func Mean(a Value, axis int, keepDims bool) Value {
	return reduce(a, axis, keepDims, func(xs []float32) float32 {
		var s float64
		for _, x := range xs {
			s += float64(x)
		}
		return float32(s / float64(len(xs)))
	})
}

// Variance computes the population variance along axis.
func Variance(a Value, axis int, keepDims bool) Value {
	return reduce(a, axis, keepDims, func(xs []float32) float32 {
		var mean float64
		for _, x := range xs {
			mean += float64(x)
		}
		mean /= float64(len(xs))
		var v float64
		for _, x := range xs {
			d := float64(x) - mean
			v += d * d
		}
		return float32(v / float64(len(xs)))
	})
}

// Argmax returns the index of the largest element along axis as an int32 value.
func Argmax(a Value, axis int) Value {
	out := reduce(a, axis, false, func(xs []float32) float32 {
		best := 0
		for i, x := range xs {
			if x > xs[best] {
				best = i
			}
		}
		return float32(best)
	})
	return Cast(out, Int32)
}

// LogSoftmax computes x - logsumexp(x) along axis (numerically stable).
func LogSoftmax(a Value, axis int) Value {
	sig := signatureOf(a)
	axis = normalizeAxis(axis, sig.Rank())
	dtype := sig.DType()
	if !dtype.IsFloat() {
		dtype = Float32
	}
	if isSignature(a) {
		return NewSignature(sig.Shape(), dtype)
	}

	x := AsArray(a)
	out := NewArray(x.shape, dtype)
	outer, size, inner := axisLayout(x.shape, axis)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			base := o*size*inner + i
			maxVal := float32(math.Inf(-1))
			for k := 0; k < size; k++ {
				maxVal = max(maxVal, x.data[base+k*inner])
			}
			var sum float64
			for k := 0; k < size; k++ {
				sum += math.Exp(float64(x.data[base+k*inner] - maxVal))
			}
			logSum := float32(math.Log(sum))
			for k := 0; k < size; k++ {
				out.data[base+k*inner] = (x.data[base+k*inner] - maxVal) - logSum
			}
		}
	}
	return out
}

func reduce(a Value, axis int, keepDims bool, f func([]float32) float32) Value {
	sig := signatureOf(a)
	if sig.Rank() == 0 {
		panic("reduce: cannot reduce a scalar")
	}
	axis = normalizeAxis(axis, sig.Rank())
	outShape := sig.Shape().WithoutAxis(axis)
	if keepDims {
		outShape = outShape.WithAxis(axis, 1)
	}
	dtype := sig.DType()
	if isSignature(a) {
		return NewSignature(outShape, dtype)
	}

	x := AsArray(a)
	outer, size, inner := axisLayout(x.shape, axis)
	if size == 0 {
		panic(fmt.Sprintf("reduce: axis %d has size 0", axis))
	}
	out := NewArray(outShape, dtype)
	buf := make([]float32, size)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			for k := 0; k < size; k++ {
				buf[k] = x.data[o*size*inner+k*inner+i]
			}
			out.data[o*inner+i] = f(buf)
		}
	}
	return out
}
