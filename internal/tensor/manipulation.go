package tensor

import "fmt"

// Concatenate joins values along axis. Supports negative axes (-1 = last).
//
// All inputs must share rank, dtype and every dimension except axis.
func Concatenate(vs []Value, axis int) Value {
	if len(vs) == 0 {
		panic("concatenate: at least one value required")
	}

	first := signatureOf(vs[0])
	rank := first.Rank()
	axis = normalizeAxis(axis, rank)
	shape := first.Shape()
	abstract := false

	total := 0
	for i, v := range vs {
		s := signatureOf(v)
		if isSignature(v) {
			abstract = true
		}
		if s.Rank() != rank {
			panic(fmt.Sprintf("concatenate: value %d has rank %d, expected %d", i, s.Rank(), rank))
		}
		if s.DType() != first.DType() {
			panic(fmt.Sprintf("concatenate: value %d has dtype %s, expected %s", i, s.DType(), first.DType()))
		}
		vShape := s.Shape()
		for d := 0; d < rank; d++ {
			if d == axis {
				total += vShape[d]
			} else if vShape[d] != shape[d] {
				panic(fmt.Sprintf("concatenate: value %d dimension %d is %d, expected %d", i, d, vShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[axis] = total
	if abstract {
		return NewSignature(outShape, first.DType())
	}

	out := NewArray(outShape, first.DType())
	outer, _, inner := axisLayout(outShape, axis)
	offset := 0
	for _, v := range vs {
		a := AsArray(v)
		size := a.shape[axis]
		block := size * inner
		for o := 0; o < outer; o++ {
			copy(out.data[o*total*inner+offset*inner:], a.data[o*block:(o+1)*block])
		}
		offset += size
	}
	return out
}

// Split divides v into n equal parts along axis.
// The dimension size must be divisible by n.
func Split(v Value, n, axis int) []Value {
	if n <= 0 {
		panic(fmt.Sprintf("split: n must be positive, got %d", n))
	}
	sig := signatureOf(v)
	axis = normalizeAxis(axis, sig.Rank())
	shape := sig.Shape()
	if shape[axis]%n != 0 {
		panic(fmt.Sprintf("split: dimension %d size %d not divisible by %d", axis, shape[axis], n))
	}
	part := shape[axis] / n
	partShape := shape.Clone()
	partShape[axis] = part

	out := make([]Value, n)
	if isSignature(v) {
		for i := range out {
			out[i] = NewSignature(partShape, sig.DType())
		}
		return out
	}

	a := AsArray(v)
	outer, size, inner := axisLayout(shape, axis)
	for i := range out {
		p := NewArray(partShape, a.dtype)
		for o := 0; o < outer; o++ {
			src := a.data[o*size*inner+i*part*inner:]
			copy(p.data[o*part*inner:(o+1)*part*inner], src[:part*inner])
		}
		out[i] = p
	}
	return out
}

// Take returns the slice at index i along axis, with that axis removed.
func Take(v Value, axis, i int) Value {
	sig := signatureOf(v)
	axis = normalizeAxis(axis, sig.Rank())
	shape := sig.Shape()
	if i < 0 || i >= shape[axis] {
		panic(fmt.Sprintf("take: index %d out of range for axis %d of size %d", i, axis, shape[axis]))
	}
	outShape := shape.WithoutAxis(axis)
	if isSignature(v) {
		return NewSignature(outShape, sig.DType())
	}

	a := AsArray(v)
	out := NewArray(outShape, a.dtype)
	outer, size, inner := axisLayout(shape, axis)
	for o := 0; o < outer; o++ {
		copy(out.data[o*inner:(o+1)*inner], a.data[o*size*inner+i*inner:])
	}
	return out
}

// Stack joins values of identical signature along a new axis.
func Stack(vs []Value, axis int) Value {
	if len(vs) == 0 {
		panic("stack: at least one value required")
	}
	first := signatureOf(vs[0])
	abstract := false
	for i, v := range vs {
		if signatureOf(v) != first {
			panic(fmt.Sprintf("stack: value %d is %s, expected %s", i, signatureOf(v), first))
		}
		if isSignature(v) {
			abstract = true
		}
	}
	outShape := first.Shape().WithAxis(axis, len(vs))
	axis = normalizeAxis(axis, len(outShape))
	if abstract {
		return NewSignature(outShape, first.DType())
	}

	out := NewArray(outShape, first.DType())
	outer, size, inner := axisLayout(outShape, axis)
	for k, v := range vs {
		a := AsArray(v)
		for o := 0; o < outer; o++ {
			copy(out.data[o*size*inner+k*inner:], a.data[o*inner:(o+1)*inner])
		}
	}
	return out
}

// ShiftRight shifts elements one position to the right along axis, filling
// the first position with zeros and dropping the last.
func ShiftRight(v Value, axis int) Value {
	sig := signatureOf(v)
	axis = normalizeAxis(axis, sig.Rank())
	if isSignature(v) {
		return sig
	}

	a := AsArray(v)
	out := NewArray(a.shape, a.dtype)
	outer, size, inner := axisLayout(a.shape, axis)
	if size == 0 {
		return out
	}
	for o := 0; o < outer; o++ {
		base := o * size * inner
		copy(out.data[base+inner:base+size*inner], a.data[base:base+(size-1)*inner])
	}
	return out
}

// Gather looks up rows of table[vocab, d] by integer ids, producing ids.shape + (d,).
func Gather(table, ids Value) Value {
	st, si := signatureOf(table), signatureOf(ids)
	if st.Rank() != 2 {
		panic(fmt.Sprintf("gather: table must be rank 2, got %s", st.Shape()))
	}
	tShape := st.Shape()
	d := tShape[1]
	outShape := append(si.Shape(), d)
	if isSignature(table) || isSignature(ids) {
		return NewSignature(outShape, st.DType())
	}

	t, idx := AsArray(table), AsArray(ids)
	out := NewArray(outShape, t.dtype)
	for i, id := range idx.Ints() {
		if id < 0 || int(id) >= tShape[0] {
			panic(fmt.Sprintf("gather: id %d out of range [0, %d)", id, tShape[0]))
		}
		copy(out.data[i*d:(i+1)*d], t.data[int(id)*d:(int(id)+1)*d])
	}
	return out
}

// Reshape returns v with a new shape of equal element count.
func Reshape(v Value, shape Shape) Value {
	sig := signatureOf(v)
	if shape.NumElements() != sig.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %s into %s", sig.Shape(), shape))
	}
	if isSignature(v) {
		return NewSignature(shape, sig.DType())
	}
	a := AsArray(v)
	out := a.Clone()
	out.shape = shape.Clone()
	return out
}
