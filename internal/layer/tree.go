package layer

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/tensor"
)

// WithWeights returns a copy of the tree rooted at l whose cached weights are
// taken from w. w mirrors the sublayer nesting; a tensor.Empty entry keeps the
// existing cached weights of that node. An instance appearing at several
// positions in l appears as one shared instance in the copy. l is not modified.
//
// Combinators must reach their children only through Sublayers, which is what
// the copy rewires.
func WithWeights(l Layer, w tensor.Value) (Layer, error) {
	r := rebuilder{memo: map[uuid.UUID]Layer{}, weights: true}
	return r.rebuild(l, w)
}

// WithState is WithWeights for state.
func WithState(l Layer, s tensor.Value) (Layer, error) {
	r := rebuilder{memo: map[uuid.UUID]Layer{}}
	return r.rebuild(l, s)
}

type rebuilder struct {
	memo    map[uuid.UUID]Layer
	weights bool
}

func (r *rebuilder) rebuild(l Layer, v tensor.Value) (Layer, error) {
	if v == nil {
		v = tensor.Empty
	}
	if c, ok := r.memo[l.base().id]; ok {
		if !tensor.IsEmpty(v) && tensor.IsEmpty(r.slot(c.base())) {
			r.set(c.base(), v)
		}
		return c, nil
	}

	c := shallowCopy(l)
	cb := c.base()
	cb.id = uuid.New()
	r.memo[l.base().id] = c

	if subs := l.Sublayers(); len(subs) > 0 {
		slots, err := Slots(v, len(subs))
		if err != nil {
			return nil, errors.Wrapf(err, "layer %s", l.Name())
		}
		cb.sublayers = make([]Layer, len(subs))
		for i, sub := range subs {
			if cb.sublayers[i], err = r.rebuild(sub, slots[i]); err != nil {
				return nil, err
			}
		}
	}
	if !tensor.IsEmpty(v) {
		r.set(cb, v)
	}
	return c, nil
}

func (r *rebuilder) slot(b *Base) tensor.Value {
	if r.weights {
		return b.weights
	}
	return b.state
}

func (r *rebuilder) set(b *Base, v tensor.Value) {
	if r.weights {
		b.weights = v
	} else {
		b.state = v
	}
}

// shallowCopy copies the struct behind l. Layers are always pointers to
// structs embedding Base.
func shallowCopy(l Layer) Layer {
	v := reflect.ValueOf(l)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		panic(errors.Errorf("layer %s: %T is not a pointer to a struct", l.Name(), l))
	}
	c := reflect.New(v.Elem().Type())
	c.Elem().Set(v.Elem())
	return c.Interface().(Layer)
}
