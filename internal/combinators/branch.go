package combinators

import (
	"github.com/stax-ml/stax/internal/layer"
)

// NewBranch applies layers to copies of the top of the stack. Each layer reads
// as many items as it needs, starting from the top, and the outputs are
// concatenated. For F (1 in), G (3 in) and H (2 in, 2 out), Branch(F, G, H)
// maps (a, b, c) to (F(a), G(a, b, c), h1, h2). A nil argument passes the top
// item through unchanged.
func NewBranch(layers ...any) (*SerialLayer, error) {
	return newBranch(layer.Caller(1), layers)
}

// Branch is like NewBranch but panics on malformed arguments.
func Branch(layers ...any) *SerialLayer {
	return must(newBranch(layer.Caller(1), layers))
}

func newBranch(site layer.Site, args []any) (*SerialLayer, error) {
	p, err := newParallel(site, args)
	if err != nil {
		return nil, err
	}
	var indices []int
	for _, sub := range p.Sublayers() {
		for i := 0; i < sub.NIn(); i++ {
			indices = append(indices, i)
		}
	}
	sel, err := newSelect("Select", site, indices, -1)
	if err != nil {
		return nil, err
	}
	return newSerial("Branch", site, []any{sel, p})
}

// NewResidual adds a shortcut around the serial composition of layers:
// (x, ...) -> (layers(x) + shortcut(x), ...). A nil shortcut is the identity.
func NewResidual(shortcut any, layers ...any) (*SerialLayer, error) {
	return newResidual(layer.Caller(1), shortcut, layers)
}

// Residual is NewResidual with an identity shortcut, panicking on malformed arguments.
func Residual(layers ...any) *SerialLayer {
	return must(newResidual(layer.Caller(1), nil, layers))
}

func newResidual(site layer.Site, shortcut any, layers []any) (*SerialLayer, error) {
	body, err := newSerial("Serial", site, layers)
	if err != nil {
		return nil, err
	}
	b, err := newBranch(site, []any{shortcut, body})
	if err != nil {
		return nil, err
	}
	return newSerial("Residual", site, []any{b, newBinary("Add", site, addOp)})
}
