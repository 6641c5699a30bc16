package layer

import (
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// DefaultSeed seeds a tree whose root is initialized without a key.
const DefaultSeed = 0

// Init initializes l and its sublayers for inputs matching inputSignature,
// which may hold signatures or concrete arrays.
//
// An unseeded l is seeded from key, or from DefaultSeed when key is the zero
// Key, and every unseeded sublayer receives a split of its parent's key.
// Weights and state are recomputed on every call. The first successful call
// caches and returns them; later calls return tensor.Empty weights with the
// freshly computed state, so an instance shared across tree positions only
// contributes its weights once.
func Init(l Layer, inputSignature tensor.Value, key random.Key) (weights, state tensor.Value, err error) {
	b := l.base()
	sig := safeSignature(inputSignature)
	defer func() {
		if r := recover(); r != nil {
			err = recoverError(r)
		}
		if err != nil {
			weights, state, err = nil, nil, wrapError(l, "Init", sig, err)
		}
	}()

	if !b.rng.Valid() {
		if !key.Valid() {
			key = random.New(DefaultSeed)
		}
		seedRecursive(l, key)
	}
	if b.inputSignature == nil {
		b.inputSignature = sig
	}

	weights, state, err = newWeightsAndState(l, sig)
	if err != nil {
		return nil, nil, err
	}
	if !b.initialized {
		b.initialized = true
		b.weights = weights
		b.state = state
		return weights, state, nil
	}
	return tensor.Empty, state, nil
}

// seedRecursive gives l the key and each direct child one of len(sublayers)
// splits of it. Children that already hold a key keep it.
func seedRecursive(l Layer, key random.Key) {
	l.base().rng = key
	subs := l.Sublayers()
	if len(subs) == 0 {
		return
	}
	keys := random.Split(key, len(subs))
	for i, sub := range subs {
		if sub == nil || sub.base().rng.Valid() {
			continue
		}
		seedRecursive(sub, keys[i])
	}
}

func newWeightsAndState(l Layer, sig tensor.Value) (tensor.Value, tensor.Value, error) {
	switch x := l.(type) {
	case WeightsAndStateInitializer:
		return x.NewWeightsAndState(sig)
	case WeightsInitializer:
		w, err := x.NewWeights(sig)
		if err != nil {
			return nil, nil, err
		}
		return w, tensor.Empty, nil
	default:
		return tensor.Empty, tensor.Empty, nil
	}
}
