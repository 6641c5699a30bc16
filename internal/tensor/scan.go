package tensor

import "fmt"

// ScanFunc computes one step of a scan: per-step inputs and the incoming carry
// produce per-step outputs and the next carry.
type ScanFunc[C any] func(xs []Value, carry C) ([]Value, C, error)

// Scan applies fn to successive slices of xs along axis, threading carry from
// one step to the next. Per-step outputs are stacked along axis.
//
// When any input is a Signature, fn runs exactly once on axis-stripped
// signatures and the outputs are reported as signatures with the axis restored.
func Scan[C any](fn ScanFunc[C], xs []Value, init C, axis int) ([]Value, C, error) {
	if len(xs) == 0 {
		return nil, init, fmt.Errorf("scan: at least one scanned input required")
	}

	first := signatureOf(xs[0])
	axis = normalizeAxis(axis, first.Rank())
	steps := first.Shape()[axis]
	abstract := false
	for i, x := range xs {
		s := signatureOf(x)
		if s.Rank() <= axis || s.Shape()[axis] != steps {
			return nil, init, fmt.Errorf("scan: input %d has shape %s, expected %d steps on axis %d", i, s.Shape(), steps, axis)
		}
		if isSignature(x) {
			abstract = true
		}
	}

	if abstract {
		slices := make([]Value, len(xs))
		for i, x := range xs {
			s := signatureOf(x)
			slices[i] = NewSignature(s.Shape().WithoutAxis(axis), s.DType())
		}
		ys, carry, err := fn(slices, init)
		if err != nil {
			return nil, init, err
		}
		out := make([]Value, len(ys))
		for i, y := range ys {
			s := signatureOf(y)
			out[i] = NewSignature(s.Shape().WithAxis(axis, steps), s.DType())
		}
		return out, carry, nil
	}

	if steps == 0 {
		return nil, init, fmt.Errorf("scan: axis %d has no steps", axis)
	}

	carry := init
	var perStep [][]Value
	for t := 0; t < steps; t++ {
		slices := make([]Value, len(xs))
		for i, x := range xs {
			slices[i] = Take(x, axis, t)
		}
		ys, next, err := fn(slices, carry)
		if err != nil {
			return nil, init, fmt.Errorf("scan step %d: %w", t, err)
		}
		if perStep != nil && len(ys) != len(perStep[0]) {
			return nil, init, fmt.Errorf("scan step %d: produced %d outputs, previous steps produced %d", t, len(ys), len(perStep[0]))
		}
		perStep = append(perStep, ys)
		carry = next
	}

	out := make([]Value, len(perStep[0]))
	for i := range out {
		column := make([]Value, steps)
		for t := range perStep {
			column[t] = perStep[t][i]
		}
		out[i] = Stack(column, axis)
	}
	return out, carry, nil
}
