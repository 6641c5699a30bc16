package generate

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
	"github.com/stax-ml/stax/internal/tokenizer"
)

// GenerateConfig configures text generation.
//
//nolint:revive // GenerateConfig is clearer than Config
type GenerateConfig struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// StopStrings are strings that trigger stopping.
	StopStrings []string

	// StopTokens are token IDs that trigger stopping.
	StopTokens []int32

	// Sampling is the sampling configuration.
	Sampling SamplingConfig
}

// DefaultGenerateConfig returns sensible defaults for generation.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		MaxTokens: 32,
		Sampling:  DefaultSamplingConfig(),
	}
}

// TextGenerator generates text with a causal language model layer.
type TextGenerator struct {
	model     layer.Layer
	tokenizer tokenizer.Tokenizer
	vocabSize int
	maxSeqLen int
}

// GeneratorOption configures a TextGenerator.
type GeneratorOption func(*TextGenerator)

// WithMaxSeqLen bounds the context fed to the model; older tokens are dropped.
func WithMaxSeqLen(n int) GeneratorOption {
	return func(g *TextGenerator) {
		g.maxSeqLen = n
	}
}

// NewTextGenerator creates a text generator for a model over vocabSize token ids.
// Token ids from tok are folded into the model's vocabulary.
func NewTextGenerator(model layer.Layer, tok tokenizer.Tokenizer, vocabSize int, opts ...GeneratorOption) *TextGenerator {
	g := &TextGenerator{
		model:     model,
		tokenizer: tok,
		vocabSize: vocabSize,
		maxSeqLen: 512,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate continues prompt and returns the generated text, without the prompt.
// The model is initialized from key if it has not been initialized yet.
func (g *TextGenerator) Generate(prompt string, config GenerateConfig, key random.Key) (string, error) {
	ids, err := g.tokenizer.Encode(prompt)
	if err != nil {
		return "", errors.WithMessage(err, "encode prompt")
	}
	out, err := g.GenerateTokens(ids, config, key)
	if err != nil {
		return "", err
	}
	return g.tokenizer.Decode(out)
}

// GenerateTokens continues the token sequence ids and returns the new tokens.
func (g *TextGenerator) GenerateTokens(ids []int32, config GenerateConfig, key random.Key) ([]int32, error) {
	if len(ids) == 0 {
		return nil, errors.New("generate: empty prompt")
	}
	if !key.Valid() {
		key = random.New(layer.DefaultSeed)
	}
	keys := random.Split(key, config.MaxTokens+1)
	if err := g.ensureInit(keys[0]); err != nil {
		return nil, err
	}

	sampler := NewSampler(config.Sampling)
	seq := append([]int32{}, ids...)
	var generated []int32
	var text strings.Builder
	for step := 0; step < config.MaxTokens; step++ {
		logits, err := g.nextLogits(seq)
		if err != nil {
			return generated, err
		}
		tok := sampler.Sample(logits, seq, keys[step+1])
		generated = append(generated, tok)
		seq = append(seq, tok)

		if slices.Contains(config.StopTokens, tok) {
			break
		}
		if len(config.StopStrings) > 0 {
			piece, err := g.tokenizer.Decode([]int32{tok})
			if err == nil {
				text.WriteString(piece)
			}
			if containsAny(text.String(), config.StopStrings) {
				break
			}
		}
	}
	return generated, nil
}

// nextLogits runs the model on seq plus a placeholder position and returns
// the log-probabilities at the placeholder, which only sees seq.
func (g *TextGenerator) nextLogits(seq []int32) ([]float32, error) {
	if len(seq)+1 > g.maxSeqLen {
		seq = seq[len(seq)+1-g.maxSeqLen:]
	}
	batch, err := tokenizer.Batch(append(append([]int32{}, seq...), 0), g.vocabSize)
	if err != nil {
		return nil, err
	}
	out, err := layer.Call(g.model, batch)
	if err != nil {
		return nil, err
	}
	logProbs, ok := out.(*tensor.Array)
	if !ok {
		return nil, errors.Errorf("generate: model returned %s, want a single array", tensor.SignatureOf(out))
	}
	data := logProbs.Data()
	return data[len(data)-g.vocabSize:], nil
}

func (g *TextGenerator) ensureInit(key random.Key) error {
	if m, ok := g.model.(interface{ Initialized() bool }); ok && m.Initialized() {
		return nil
	}
	sig := tensor.NewSignature(tensor.Shape{1, 1}, tensor.Int32)
	_, _, err := layer.Init(g.model, sig, key)
	return err
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
