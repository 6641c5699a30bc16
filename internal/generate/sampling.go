// Package generate decodes text autoregressively from a language model.
//
// A model maps token ids [batch, length] to log-probabilities
// [batch, length, vocab]. Generation reruns the model on the growing
// sequence and samples the next token from the last position.
package generate

import (
	"math"

	"golang.org/x/exp/slices"

	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
)

// SamplingConfig configures the sampling strategy.
type SamplingConfig struct {
	// Temperature controls randomness. 0 = greedy, 1 = normal, >1 = more random.
	Temperature float32

	// TopK limits sampling to top K tokens. 0 = disabled.
	TopK int

	// TopP (nucleus sampling) limits to tokens with cumulative prob < P. 1.0 = disabled.
	TopP float32

	// RepeatPenalty divides the logits of recently seen tokens. 1.0 = no penalty.
	RepeatPenalty float32

	// RepeatWindow is the number of recent tokens penalized. 0 = all.
	RepeatWindow int
}

// DefaultSamplingConfig returns sensible defaults for text generation.
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Temperature:   1.0,
		TopP:          1.0,
		RepeatPenalty: 1.0,
		RepeatWindow:  64,
	}
}

// Sampler picks the next token from a row of logits.
//
// Randomness comes from the key passed to Sample, so the same key always
// picks the same token.
type Sampler struct {
	config SamplingConfig
}

// NewSampler creates a new sampler with the given configuration.
func NewSampler(config SamplingConfig) *Sampler {
	return &Sampler{config: config}
}

// Sample returns the next token ID from logits (or log-probabilities).
//
// The sampling process:
//  1. Apply repetition penalty
//  2. Apply temperature scaling (argmax if temperature=0)
//  3. Apply Top-K filtering
//  4. Apply Top-P (nucleus) filtering
//  5. Draw from the distribution with key
func (s *Sampler) Sample(logits []float32, previousTokens []int32, key random.Key) int32 {
	logits = slices.Clone(logits)

	if s.config.RepeatPenalty != 1.0 && len(previousTokens) > 0 {
		s.penalize(logits, previousTokens)
	}
	if s.config.Temperature == 0 {
		return argmax(logits)
	}
	if s.config.Temperature != 1.0 {
		for i := range logits {
			logits[i] /= s.config.Temperature
		}
	}
	if s.config.TopK > 0 && s.config.TopK < len(logits) {
		topK(logits, s.config.TopK)
	}
	if s.config.TopP > 0 && s.config.TopP < 1.0 {
		topP(logits, s.config.TopP)
	}

	u := tensor.AsArray(random.Uniform(key, tensor.Shape{}, 0, 1)).Item()
	return multinomial(softmax(logits), u)
}

// penalize makes recently seen tokens less likely.
func (s *Sampler) penalize(logits []float32, prev []int32) {
	if w := s.config.RepeatWindow; w > 0 && len(prev) > w {
		prev = prev[len(prev)-w:]
	}
	seen := make(map[int32]bool, len(prev))
	for _, tok := range prev {
		if seen[tok] || tok < 0 || int(tok) >= len(logits) {
			continue
		}
		seen[tok] = true
		if logits[tok] > 0 {
			logits[tok] /= s.config.RepeatPenalty
		} else {
			logits[tok] *= s.config.RepeatPenalty
		}
	}
}

// argmax returns the index of the maximum value.
func argmax(logits []float32) int32 {
	best := 0
	for i, v := range logits {
		if v > logits[best] {
			best = i
		}
	}
	return int32(best) //nolint:gosec // vocab size is bounded by model architecture
}

// topK keeps only the k largest logits, setting the rest to -inf.
func topK(logits []float32, k int) {
	sorted := slices.Clone(logits)
	slices.SortFunc(sorted, func(a, b float32) int { return cmpDesc(a, b) })
	threshold := sorted[k-1]
	for i := range logits {
		if logits[i] < threshold {
			logits[i] = float32(math.Inf(-1))
		}
	}
}

// topP keeps the smallest set of most likely tokens whose mass exceeds p.
func topP(logits []float32, p float32) {
	probs := softmax(logits)
	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmpDesc(probs[a], probs[b]) })

	var mass float32
	cut := len(order)
	for i, idx := range order {
		mass += probs[idx]
		if mass > p {
			cut = i + 1
			break
		}
	}
	for _, idx := range order[cut:] {
		logits[idx] = float32(math.Inf(-1))
	}
}

func cmpDesc(a, b float32) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// multinomial picks index i with probability probs[i], given u in [0, 1).
func multinomial(probs []float32, u float32) int32 {
	var cum float32
	for i, p := range probs {
		cum += p
		if u < cum {
			return int32(i) //nolint:gosec // vocab size is bounded by model architecture
		}
	}
	// Rounding left u above the total mass: take the last token still in play.
	for i := len(probs) - 1; i > 0; i-- {
		if probs[i] > 0 {
			return int32(i) //nolint:gosec // vocab size is bounded by model architecture
		}
	}
	return 0
}

// softmax converts logits to probabilities; -inf logits get zero.
func softmax(logits []float32) []float32 {
	maxVal := float32(math.Inf(-1))
	for _, v := range logits {
		maxVal = max(maxVal, v)
	}
	probs := make([]float32, len(logits))
	var sum float32
	for i, v := range logits {
		if math.IsInf(float64(v), -1) {
			continue
		}
		probs[i] = float32(math.Exp(float64(v - maxVal)))
		sum += probs[i]
	}
	if sum > 0 {
		for i := range probs {
			probs[i] /= sum
		}
	}
	return probs
}
