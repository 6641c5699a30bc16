package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"version"}, &out))
	assert.Equal(t, "stax "+version+"\n", out.String())
}

func TestUsage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(nil, &out))
	assert.Contains(t, out.String(), "Commands:")

	err := run([]string{"train"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "train"`)
}

func TestSummary(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"summary", "-vocab", "10", "-d", "4", "-layers", "1", "-len", "3", "-batch", "2"}, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Serial")
	assert.Contains(t, s, "Scan")
	assert.Contains(t, s, "Total params:")
	assert.Contains(t, s, "Output: ShapeDtype{shape:(2, 3, 10), dtype:float32}")
}

func TestLM(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"lm", "-text", "hello", "-d", "8", "-cell", "lstm"}, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Tokens: 5 (bytes)")
	assert.Contains(t, s, "Output: ShapeDtype{shape:(1, 5, 256), dtype:float32}")
	assert.Contains(t, s, "Next-token ids: [")
	assert.Contains(t, s, "Decoded: ")
}

func TestLMRequiresText(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"lm"}, &out))
}

func TestInvalidModelFlags(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"summary", "-cell", "rnn"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cell")
}

func TestLMGenerate(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"lm", "-text", "ab", "-d", "4", "-layers", "1", "-generate", "3", "-temperature", "0"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Generated ids: [")
	assert.Contains(t, out.String(), "Generated: ")
}
