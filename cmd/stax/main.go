// Package main provides the stax CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/generate"
	"github.com/stax-ml/stax/internal/layer"
	"github.com/stax-ml/stax/internal/models"
	"github.com/stax-ml/stax/internal/nn"
	"github.com/stax-ml/stax/internal/random"
	"github.com/stax-ml/stax/internal/tensor"
	"github.com/stax-ml/stax/internal/tokenizer"
)

const version = "v0.1.0-dev"

// Config holds the model and input settings shared by the subcommands.
type Config struct {
	VocabSize   int
	DModel      int
	NLayers     int
	Cell        string
	Batch       int
	Length      int
	Seed        uint64
	Tokenizer   string
	Text        string
	Generate    int
	Temperature float64
}

// DefaultConfig returns a model small enough to run instantly on a CPU.
func DefaultConfig() Config {
	return Config{
		VocabSize:   256,
		DModel:      32,
		NLayers:     2,
		Cell:        models.CellGRU,
		Batch:       1,
		Length:      16,
		Tokenizer:   "bytes",
		Temperature: 1,
	}
}

func (c *Config) bind(fs *flag.FlagSet) {
	fs.IntVar(&c.VocabSize, "vocab", c.VocabSize, "Vocabulary size")
	fs.IntVar(&c.DModel, "d", c.DModel, "Embedding depth and recurrent units")
	fs.IntVar(&c.NLayers, "layers", c.NLayers, "Number of stacked recurrent cells")
	fs.StringVar(&c.Cell, "cell", c.Cell, "Recurrent cell: gru or lstm")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "Initialization seed")
}

func (c Config) model() (layer.Layer, error) {
	cfg := models.DefaultConfig(c.VocabSize)
	cfg.DModel = c.DModel
	cfg.NLayers = c.NLayers
	cfg.Cell = c.Cell
	cfg.Mode = nn.ModeEval
	return models.NewRNNLM(cfg)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("stax: ")
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return nil
	}
	cfg := DefaultConfig()
	switch args[0] {
	case "version":
		fmt.Fprintf(out, "stax %s\n", version)
		return nil
	case "summary":
		fs := flag.NewFlagSet("summary", flag.ContinueOnError)
		fs.SetOutput(out)
		cfg.bind(fs)
		fs.IntVar(&cfg.Batch, "batch", cfg.Batch, "Batch size of the traced input")
		fs.IntVar(&cfg.Length, "len", cfg.Length, "Sequence length of the traced input")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return summary(cfg, out)
	case "lm":
		fs := flag.NewFlagSet("lm", flag.ContinueOnError)
		fs.SetOutput(out)
		cfg.bind(fs)
		fs.StringVar(&cfg.Text, "text", "", "Text to run through the model")
		fs.StringVar(&cfg.Tokenizer, "tokenizer", cfg.Tokenizer, "Tokenizer: bytes or a tiktoken encoding such as cl100k_base")
		fs.IntVar(&cfg.Generate, "generate", 0, "Number of tokens to sample after the text (0 = none)")
		fs.Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "Sampling temperature (0 = greedy)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return lm(cfg, out)
	default:
		usage(out)
		return errors.Errorf("unknown command %q", args[0])
	}
}

func usage(out io.Writer) {
	fmt.Fprintf(out, "stax %s - layer combinators for sequence models\n\n", version)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  version    Show version")
	fmt.Fprintln(out, "  summary    Build an RNN language model and print its layer tree")
	fmt.Fprintln(out, "  lm         Run text through an untrained RNN language model")
}

func summary(cfg Config, out io.Writer) error {
	m, err := cfg.model()
	if err != nil {
		return err
	}
	sig := tensor.NewSignature(tensor.Shape{cfg.Batch, cfg.Length}, tensor.Int32)
	if _, _, err := layer.Init(m, sig, random.New(cfg.Seed)); err != nil {
		return err
	}
	outSig, _, err := layer.ForwardAbstract(m, sig)
	if err != nil {
		return err
	}
	fmt.Fprint(out, layer.Summary(m))
	fmt.Fprintf(out, "Input: %s\nOutput: %s\n", sig, outSig)
	return nil
}

func lm(cfg Config, out io.Writer) error {
	if cfg.Text == "" {
		return errors.New("lm: -text is required")
	}
	tok, err := tokenizer.New(cfg.Tokenizer)
	if err != nil {
		return err
	}
	ids, err := tok.Encode(cfg.Text)
	if err != nil {
		return err
	}
	batch, err := tokenizer.Batch(ids, cfg.VocabSize)
	if err != nil {
		return err
	}

	m, err := cfg.model()
	if err != nil {
		return err
	}
	if _, _, err := layer.Init(m, batch.Signature(), random.New(cfg.Seed)); err != nil {
		return err
	}
	logProbs, err := layer.Call(m, batch)
	if err != nil {
		return err
	}

	next := tensor.AsArray(tensor.Argmax(logProbs, -1)).Ints()
	fmt.Fprintf(out, "Tokens: %d (%s)\n", len(ids), tok.Name())
	fmt.Fprintf(out, "Output: %s\n", tensor.SignatureOf(logProbs))
	fmt.Fprintf(out, "Next-token ids: %v\n", next)
	if cfg.VocabSize <= tok.VocabSize() {
		if text, err := tok.Decode(next); err == nil {
			fmt.Fprintf(out, "Decoded: %q\n", text)
		}
	}
	if cfg.Generate <= 0 {
		return nil
	}

	gen := generate.NewTextGenerator(m, tok, cfg.VocabSize)
	gcfg := generate.DefaultGenerateConfig()
	gcfg.MaxTokens = cfg.Generate
	gcfg.Sampling.Temperature = float32(cfg.Temperature)
	tokens, err := gen.GenerateTokens(ids, gcfg, random.New(cfg.Seed+1))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Generated ids: %v\n", tokens)
	if cfg.VocabSize <= tok.VocabSize() {
		if text, err := tok.Decode(tokens); err == nil {
			fmt.Fprintf(out, "Generated: %q\n", text)
		}
	}
	return nil
}
