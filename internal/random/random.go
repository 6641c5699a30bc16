// Package random provides splittable pseudo-random keys.
//
// A Key is an immutable value. Randomness is never drawn from shared global
// state: callers split a key into fresh keys and sample from those, so the
// same key always yields the same numbers.
package random

import (
	"fmt"
	"math/rand/v2"

	"github.com/stax-ml/stax/internal/tensor"
)

type kind uint8

const (
	none kind = iota
	concrete
	abstract
)

// Key is an opaque, single-use random generator seed.
//
// The zero Key means "no randomness supplied"; splitting it yields zero keys
// and sampling from it panics.
type Key struct {
	hi, lo uint64
	kind   kind
}

// New derives a key from an integer seed.
func New(seed uint64) Key {
	return Key{hi: splitmix(seed), lo: splitmix(seed ^ 0x9e3779b97f4a7c15), kind: concrete}
}

// Abstract returns the stand-in key used during shape inference.
// Sampling with it yields signatures instead of data.
func Abstract() Key {
	return Key{kind: abstract}
}

// Valid reports whether k carries randomness (concrete or abstract).
func (k Key) Valid() bool {
	return k.kind != none
}

// IsAbstract reports whether k is the shape-inference stand-in.
func (k Key) IsAbstract() bool {
	return k.kind == abstract
}

// Signature describes the key as a tensor: two uint32 words.
func (k Key) Signature() tensor.Signature {
	return tensor.NewSignature(tensor.Shape{2}, tensor.Uint32)
}

// String renders the key for debugging.
func (k Key) String() string {
	switch k.kind {
	case concrete:
		return fmt.Sprintf("Key(%016x%016x)", k.hi, k.lo)
	case abstract:
		return "Key(abstract)"
	default:
		return "Key(none)"
	}
}

// Split derives n new keys from k. The results differ from k and from each other.
func Split(k Key, n int) []Key {
	if n < 0 {
		panic(fmt.Sprintf("random: cannot split into %d keys", n))
	}
	out := make([]Key, n)
	switch k.kind {
	case none:
		return out
	case abstract:
		for i := range out {
			out[i] = Abstract()
		}
		return out
	}

	src := rand.NewPCG(k.hi, k.lo)
	for i := range out {
		out[i] = Key{hi: src.Uint64(), lo: src.Uint64(), kind: concrete}
	}
	return out
}

// Uniform samples float32 values in [lo, hi).
func Uniform(k Key, shape tensor.Shape, lo, hi float32) tensor.Value {
	return sample(k, shape, tensor.Float32, func(r *rand.Rand) float32 {
		return lo + (hi-lo)*r.Float32()
	})
}

// Normal samples float32 values from N(0, stddev²).
func Normal(k Key, shape tensor.Shape, stddev float32) tensor.Value {
	return sample(k, shape, tensor.Float32, func(r *rand.Rand) float32 {
		return float32(r.NormFloat64()) * stddev
	})
}

// Bernoulli samples a bool mask that is true with probability p.
func Bernoulli(k Key, p float32, shape tensor.Shape) tensor.Value {
	return sample(k, shape, tensor.Bool, func(r *rand.Rand) float32 {
		if r.Float32() < p {
			return 1
		}
		return 0
	})
}

// Integers samples int32 values in [lo, hi).
func Integers(k Key, shape tensor.Shape, lo, hi int32) tensor.Value {
	if hi <= lo {
		panic(fmt.Sprintf("random: empty integer range [%d, %d)", lo, hi))
	}
	return sample(k, shape, tensor.Int32, func(r *rand.Rand) float32 {
		return float32(lo + r.Int32N(hi-lo))
	})
}

func sample(k Key, shape tensor.Shape, dtype tensor.DataType, draw func(*rand.Rand) float32) tensor.Value {
	switch k.kind {
	case none:
		panic("random: sampling requires a key")
	case abstract:
		return tensor.NewSignature(shape, dtype)
	}

	out := tensor.NewArray(shape, dtype)
	r := rand.New(rand.NewPCG(k.hi, k.lo)) //nolint:gosec // G404: reproducible ML randomness
	data := out.Data()
	for i := range data {
		data[i] = draw(r)
	}
	return out
}

func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
