package layer

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// FiniteDifferenceEpsilon is the step used when a layer has no custom gradient.
const FiniteDifferenceEpsilon = 1e-3

// VJP returns the gradients of <outputs, grad> with respect to inputs and
// weights, where outputs is l applied to inputs. grad mirrors the outputs.
//
// A layer implementing Backwarder with HasBackward true supplies its own rule.
// Otherwise the gradient is estimated with central finite differences, holding
// state and rng fixed. Integer and bool leaves receive zero gradients.
func VJP(l Layer, inputs, weights, state tensor.Value, rng random.Key, grad tensor.Value) (gradInputs, gradWeights tensor.Value, err error) {
	b := l.base()
	if weights == nil || tensor.IsEmpty(weights) {
		weights = b.weights
	}
	if state == nil || tensor.IsEmpty(state) {
		state = b.state
	}
	defer func() {
		if r := recover(); r != nil {
			err = recoverError(r)
		}
		if err != nil {
			gradInputs, gradWeights, err = nil, nil, wrapError(l, "VJP", inputs, err)
		}
	}()

	if tensor.IsAbstract(inputs) || tensor.IsAbstract(weights) || tensor.IsAbstract(grad) {
		return nil, nil, errors.New("gradients require concrete values")
	}

	if bw, ok := l.(Backwarder); ok && bw.HasBackward() {
		out, newState, err := forwardWithState(l, inputs, weights, state, rng)
		if err != nil {
			return nil, nil, err
		}
		return bw.Backward(inputs, out, grad, weights, state, newState, rng)
	}
	return finiteDifferences(l, inputs, weights, state, rng, grad)
}

func finiteDifferences(l Layer, inputs, weights, state tensor.Value, rng random.Key, grad tensor.Value) (tensor.Value, tensor.Value, error) {
	params := tensor.Tuple{inputs, weights}
	leaves := tensor.Leaves(params)
	gradLeaves := tensor.Leaves(grad)

	objective := func(ls []tensor.Value) (float64, error) {
		p := tensor.Rebuild(params, ls).(tensor.Tuple)
		out, _, err := forwardWithState(l, p[0], p[1], state, rng)
		if err != nil {
			return 0, err
		}
		outLeaves := tensor.Leaves(out)
		if len(outLeaves) != len(gradLeaves) {
			return 0, errors.Wrapf(ErrTreeShape, "gradient has %d leaves, outputs have %d", len(gradLeaves), len(outLeaves))
		}
		var total float64
		for i, o := range outLeaves {
			oa, ga := tensor.AsArray(o), tensor.AsArray(gradLeaves[i])
			if !oa.Shape().Equal(ga.Shape()) {
				return 0, errors.Errorf("gradient %d has shape %s, output has shape %s", i, ga.Shape(), oa.Shape())
			}
			for j, v := range oa.Data() {
				total += float64(v) * float64(ga.Data()[j])
			}
		}
		return total, nil
	}

	if _, err := objective(leaves); err != nil {
		return nil, nil, err
	}

	grads := make([]tensor.Value, len(leaves))
	probe := make([]tensor.Value, len(leaves))
	copy(probe, leaves)
	for i, leaf := range leaves {
		a := tensor.AsArray(leaf)
		g := tensor.Zeros(a.Shape(), tensor.Float32)
		grads[i] = g
		if !a.DType().IsFloat() {
			continue
		}
		shifted := a.Clone()
		probe[i] = shifted
		data := shifted.Data()
		for j := range data {
			orig := data[j]
			data[j] = orig + FiniteDifferenceEpsilon
			plus, err := objective(probe)
			if err != nil {
				return nil, nil, err
			}
			data[j] = orig - FiniteDifferenceEpsilon
			minus, err := objective(probe)
			if err != nil {
				return nil, nil, err
			}
			data[j] = orig
			g.Data()[j] = float32((plus - minus) / (2 * FiniteDifferenceEpsilon))
		}
		probe[i] = leaf
	}

	out := tensor.Rebuild(params, grads).(tensor.Tuple)
	return out[0], out[1], nil
}
