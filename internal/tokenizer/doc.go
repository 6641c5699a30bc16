// Package tokenizer turns text into the integer token ids consumed by
// language models such as models.RNNLM.
//
// Two encodings are available:
//   - Bytes: one token per UTF-8 byte, vocabulary of 256, works offline
//   - TikToken: BPE tokenizers used by GPT-3/GPT-4 (cl100k_base, p50k_base)
//
// Example usage:
//
//	tok := tokenizer.Bytes()
//	ids, err := tok.Encode("Hello, world!")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	batch, err := tokenizer.Batch(ids, 256) // int32 array of shape [1, len(ids)]
package tokenizer
