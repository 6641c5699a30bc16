package tokenizer

import "github.com/pkg/errors"

const bytesName = "bytes"

// ByteTokenizer maps every UTF-8 byte to its own token.
type ByteTokenizer struct{}

// Bytes returns the byte-level tokenizer.
func Bytes() ByteTokenizer { return ByteTokenizer{} }

// Encode converts text to one token per byte.
func (ByteTokenizer) Encode(text string) ([]int32, error) {
	out := make([]int32, len(text))
	for i := 0; i < len(text); i++ {
		out[i] = int32(text[i])
	}
	return out, nil
}

// Decode converts byte tokens back to text.
func (ByteTokenizer) Decode(tokens []int32) (string, error) {
	buf := make([]byte, len(tokens))
	for i, tok := range tokens {
		if tok < 0 || tok > 255 {
			return "", errors.Errorf("token %d at position %d is not a byte", tok, i)
		}
		buf[i] = byte(tok)
	}
	return string(buf), nil
}

// VocabSize returns 256.
func (ByteTokenizer) VocabSize() int { return 256 }

// Name returns "bytes".
func (ByteTokenizer) Name() string { return bytesName }
