package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stax-ml/stax/internal/tensor"
)

func TestPack(t *testing.T) {
	a, b := tensor.Scalar(1), tensor.Scalar(2)

	assert.Equal(t, tensor.Tuple{}, Pack(nil))
	assert.Same(t, a, Pack([]tensor.Value{a}))
	assert.Equal(t, tensor.Tuple{a, b}, Pack([]tensor.Value{a, b}))
}

func TestItemsAndCount(t *testing.T) {
	a, b := tensor.Scalar(1), tensor.Scalar(2)

	assert.Equal(t, []tensor.Value{a}, Items(a))
	assert.Equal(t, []tensor.Value{a, b}, Items(tensor.Tuple{a, b}))
	assert.Equal(t, 1, Count(a))
	assert.Equal(t, 0, Count(tensor.Tuple{}))
	assert.Equal(t, 2, Count(tensor.Tuple{a, b}))
}

func TestValidateInputs(t *testing.T) {
	a := tensor.Scalar(1)

	tests := []struct {
		name   string
		inputs tensor.Value
		n      int
		ok     bool
	}{
		{"single bare", a, 1, true},
		{"single tuple", tensor.Tuple{a, a}, 1, true},
		{"none", tensor.Tuple{}, 0, true},
		{"pair", tensor.Tuple{a, a}, 2, true},
		{"bare for pair", a, 2, false},
		{"short tuple", tensor.Tuple{a}, 2, false},
		{"long tuple", tensor.Tuple{a, a, a}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputs(tt.inputs, tt.n)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrArity)
			}
		})
	}
}

func TestSlots(t *testing.T) {
	a, b := tensor.Scalar(1), tensor.Scalar(2)

	got, err := Slots(tensor.Empty, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, v := range got {
		assert.True(t, tensor.IsEmpty(v))
	}

	got, err = Slots(tensor.Tuple{a}, 1)
	require.NoError(t, err)
	assert.Equal(t, []tensor.Value{a}, got)

	got, err = Slots(a, 1)
	require.NoError(t, err)
	assert.Equal(t, []tensor.Value{a}, got)

	got, err = Slots(tensor.Tuple{a, b}, 2)
	require.NoError(t, err)
	assert.Equal(t, []tensor.Value{a, b}, got)

	_, err = Slots(tensor.Tuple{a, b}, 3)
	assert.ErrorIs(t, err, ErrTreeShape)

	_, err = Slots(a, 2)
	assert.ErrorIs(t, err, ErrTreeShape)
}
