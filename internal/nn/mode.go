package nn

import "github.com/pkg/errors"

// Mode selects train, eval or predict behavior for mode-dependent layers.
type Mode string

// Supported modes.
const (
	ModeTrain   Mode = "train"
	ModeEval    Mode = "eval"
	ModePredict Mode = "predict"
)

// ParseMode converts a flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeTrain, ModeEval, ModePredict:
		return m, nil
	}
	return "", errors.Errorf("unknown mode %q (want train, eval or predict)", s)
}
