package combinators

import (
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/layer"
)

// NewSerialWithSideOutputs runs layers serially, moving the last
// nSideOutputs[i] outputs of layer i to the bottom of the stack so they are
// returned after everything else.
//
// With layers of 1 input and 2 outputs and one side output each, it computes
//
//	side := nil
//	for _, l := range layers {
//	    x, s = l(x)
//	    side = append(side, s)
//	}
//	return x, side...
//
// nSideOutputs holds either one count per layer or a single count shared by
// all layers; it defaults to 1.
func NewSerialWithSideOutputs(layers []layer.Layer, nSideOutputs ...int) (*SerialLayer, error) {
	return newSerialWithSideOutputs(layer.Caller(1), layers, nSideOutputs)
}

// SerialWithSideOutputs is like NewSerialWithSideOutputs but panics on malformed arguments.
func SerialWithSideOutputs(layers []layer.Layer, nSideOutputs ...int) *SerialLayer {
	return must(newSerialWithSideOutputs(layer.Caller(1), layers, nSideOutputs))
}

func newSerialWithSideOutputs(site layer.Site, layers []layer.Layer, nSide []int) (*SerialLayer, error) {
	switch len(nSide) {
	case 0:
		nSide = []int{1}
		fallthrough
	case 1:
		n := nSide[0]
		nSide = make([]int, len(layers))
		for i := range nSide {
			nSide[i] = n
		}
	case len(layers):
	default:
		return nil, errors.Wrapf(layer.ErrConstruction, "got %d side output counts for %d layers", len(nSide), len(layers))
	}

	runningMax, runningTotal := 0, 0
	for i, l := range layers {
		if l == nil {
			return nil, errors.Wrapf(layer.ErrConstruction, "layer %d is nil", i)
		}
		if nSide[i] < 0 || nSide[i] > l.NOut() {
			return nil, errors.Wrapf(layer.ErrConstruction, "layer %s has %d outputs, cannot set aside %d", l.Name(), l.NOut(), nSide[i])
		}
		runningTotal += l.NIn()
		runningMax = max(runningMax, runningTotal)
		runningTotal -= l.NOut() - nSide[i]
	}

	stackSize := runningMax
	seq := make([]any, 0, 2*len(layers))
	for i, l := range layers {
		seq = append(seq, l)
		stackSize += l.NOut() - l.NIn()
		// Keep the first n_out - side outputs, then the untouched stack, then the side outputs.
		keep := l.NOut() - nSide[i]
		indices := make([]int, 0, stackSize)
		for j := 0; j < keep; j++ {
			indices = append(indices, j)
		}
		for j := 0; j < stackSize-l.NOut(); j++ {
			indices = append(indices, j+l.NOut())
		}
		for j := 0; j < nSide[i]; j++ {
			indices = append(indices, j+keep)
		}
		sel, err := newSelect("Select", site, indices, stackSize)
		if err != nil {
			return nil, err
		}
		seq = append(seq, sel)
	}
	return newSerial("SerialWithSideOutputs", site, seq)
}
