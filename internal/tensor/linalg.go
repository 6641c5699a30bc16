package tensor

import "fmt"

// MatMul multiplies x[..., k] by w[k, n], producing [..., n].
//
// Leading dimensions of x are treated as a batch.
func MatMul(x, w Value) Value {
	sx, sw := signatureOf(x), signatureOf(w)
	if sx.Rank() < 1 || sw.Rank() != 2 {
		panic(fmt.Sprintf("matmul: expected x[..., k] and w[k, n], got %s and %s", sx.Shape(), sw.Shape()))
	}
	xShape, wShape := sx.Shape(), sw.Shape()
	k := xShape[len(xShape)-1]
	if k != wShape[0] {
		panic(fmt.Sprintf("matmul: inner dimensions differ: %s @ %s", xShape, wShape))
	}
	n := wShape[1]
	outShape := append(xShape[:len(xShape)-1].Clone(), n)
	dtype := promote(sx.DType(), sw.DType())
	if !dtype.IsFloat() {
		dtype = Float32
	}
	if isSignature(x) || isSignature(w) {
		return NewSignature(outShape, dtype)
	}

	a, b := AsArray(x), AsArray(w)
	out := NewArray(outShape, dtype)
	rows := a.NumElements() / max(k, 1)
	if k == 0 {
		return out
	}
	for r := 0; r < rows; r++ {
		row := a.data[r*k : (r+1)*k]
		dst := out.data[r*n : (r+1)*n]
		for p, av := range row {
			if av == 0 {
				continue
			}
			wRow := b.data[p*n : (p+1)*n]
			for j := range dst {
				dst[j] += av * wRow[j]
			}
		}
	}
	return out
}
