package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stax-ml/stax/internal/tensor"
)

func TestBytesRoundtrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"ascii", "Hello, world!"},
		{"empty", ""},
		{"multibyte", "héllo ✓"},
	}
	tok := Bytes()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := tok.Encode(tt.text)
			require.NoError(t, err)
			assert.Len(t, ids, len(tt.text))

			text, err := tok.Decode(ids)
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)
		})
	}
}

func TestBytesRejectsNonByteTokens(t *testing.T) {
	_, err := Bytes().Decode([]int32{65, 300})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 1")
}

func TestNew(t *testing.T) {
	tok, err := New("bytes")
	require.NoError(t, err)
	assert.Equal(t, 256, tok.VocabSize())
	assert.Equal(t, "bytes", tok.Name())

	_, err = New("invalid_encoding_xyz")
	assert.Error(t, err)
}

func TestBatchFoldsIntoVocab(t *testing.T) {
	batch, err := Batch([]int32{1, 10, 25}, 10)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 3}, batch.Shape())
	assert.Equal(t, tensor.Int32, batch.DType())
	assert.Equal(t, []int32{1, 0, 5}, batch.Ints())
}

func TestBatchRejects(t *testing.T) {
	_, err := Batch(nil, 10)
	assert.Error(t, err)
	_, err = Batch([]int32{1}, 0)
	assert.Error(t, err)
	_, err = Batch([]int32{-1}, 10)
	assert.Error(t, err)
}
