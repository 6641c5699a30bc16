package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

func TestCheckShapeAgreement(t *testing.T) {
	out, err := CheckShapeAgreement(newChain(scale(), newCounter()), sig23)
	require.NoError(t, err)
	assert.Equal(t, sig23, out)
}

func TestCheckShapeAgreementDetectsDisagreement(t *testing.T) {
	// Abstract evaluation sees a signature; concrete evaluation sees an array.
	liar := Fn("Liar", 1, 1, func(inputs, _ tensor.Value) (tensor.Value, error) {
		if tensor.IsAbstract(inputs) {
			return inputs, nil
		}
		return tensor.Sum(inputs, 0, false), nil
	})

	_, err := CheckShapeAgreement(liar, sig23)
	assert.Error(t, err)
}

func TestRandomValues(t *testing.T) {
	ids := tensor.NewSignature(tensor.Shape{4, 5}, tensor.Int32)
	sig := tensor.Tuple{sig23, ids}

	v := RandomValues(sig, random.New(3)).(tensor.Tuple)
	floats, ints := tensor.AsArray(v[0]), tensor.AsArray(v[1])

	assert.Equal(t, sig23, floats.Signature())
	for _, x := range floats.Data() {
		assert.GreaterOrEqual(t, x, float32(-1))
		assert.LessOrEqual(t, x, float32(1))
	}
	assert.Equal(t, ids, ints.Signature())
	for _, x := range ints.Ints() {
		assert.Contains(t, []int32{0, 1}, x)
	}
}
