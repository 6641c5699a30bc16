package layer

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/stax-ml/stax/internal/tensor"
)

// Sentinel errors, matched with errors.Is.
var (
	// ErrConstruction reports malformed combinator arguments.
	ErrConstruction = errors.New("invalid layer construction")

	// ErrArity reports inputs that do not match a layer's declared n_in.
	ErrArity = errors.New("input arity mismatch")

	// ErrTreeShape reports a weight or state tree that does not mirror the sublayer tree.
	ErrTreeShape = errors.New("weight/state tree does not match sublayers")
)

const modulePrefix = "github.com/stax-ml/stax/internal/layer."

// LayerError reports a failure inside a layer graph.
//
// It is created once, at the innermost failing layer, and re-propagates through
// enclosing layers by extending Path, so a deeply nested failure reads as a
// single report. Format with %+v to include the cleaned stack trace.
type LayerError struct {
	// Layer is the name of the failing layer.
	Layer string
	// Op is the operation that failed: Init, Apply, ForwardAbstract or VJP.
	Op string
	// Site is where the failing layer was constructed.
	Site Site
	// InputSignature is the signature of the failing layer's inputs.
	InputSignature tensor.Value
	// Path lists the enclosing layers, outermost first.
	Path []string
	// Err is the underlying cause.
	Err error
}

func (e *LayerError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Exception passing through layer %s (in %s):\n", e.Layer, e.Op)
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, "  layer path: %s > %s\n", strings.Join(e.Path, " > "), e.Layer)
	}
	fmt.Fprintf(&b, "  layer created in file %s, line %d\n", e.Site.ShortFile(), e.Site.Line)
	fmt.Fprintf(&b, "  layer input shapes: %v\n", e.InputSignature)
	fmt.Fprintf(&b, "  cause: %v", e.Err)
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *LayerError) Unwrap() error { return e.Err }

// Cause returns the underlying cause, for github.com/pkg/errors.Cause.
func (e *LayerError) Cause() error { return e.Err }

// Format implements fmt.Formatter. %+v appends the cleaned trace.
func (e *LayerError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = io.WriteString(s, e.Error())
		if s.Flag('+') {
			_, _ = io.WriteString(s, "\n\n")
			_, _ = io.WriteString(s, e.Trace())
		}
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// Trace returns the stack recorded where the failure was first observed, with
// shortened paths and layer plumbing frames collapsed.
func (e *LayerError) Trace() string {
	var st interface{ StackTrace() errors.StackTrace }
	if !errors.As(e.Err, &st) {
		return ""
	}
	return cleanTrace(st.StackTrace())
}

// wrapError attaches layer context to err. An error that already carries a
// LayerError gains l as an enclosing path entry instead of a second wrapper.
func wrapError(l Layer, op string, inputs tensor.Value, err error) error {
	var le *LayerError
	if errors.As(err, &le) {
		le.Path = append([]string{l.Name()}, le.Path...)
		return err
	}

	// Sentinels built with errors.New carry the stack of package init, so the
	// failure site is always recorded here.
	err = errors.WithStack(err)
	return &LayerError{
		Layer:          l.Name(),
		Op:             op,
		Site:           l.base().site,
		InputSignature: safeSignature(inputs),
		Err:            err,
	}
}

// recoverError converts a recovered panic into an error carrying the panicking stack.
func recoverError(r any) error {
	if err, ok := r.(error); ok {
		return errors.WithStack(err)
	}
	return errors.Errorf("panic: %v", r)
}

func safeSignature(v tensor.Value) (sig tensor.Value) {
	if v == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			sig = v
		}
	}()
	return tensor.SignatureOf(v)
}

func cleanTrace(st errors.StackTrace) string {
	var lines []string
	collapsed := 0
	flush := func() {
		if collapsed > 0 {
			lines = append(lines, fmt.Sprintf("  ... %d layer plumbing frame(s)", collapsed))
			collapsed = 0
		}
	}

	for _, f := range st {
		pc := uintptr(f) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		name := fn.Name()
		if strings.HasPrefix(name, "runtime.") || strings.HasPrefix(name, "testing.") {
			continue
		}
		if isPlumbing(name) {
			collapsed++
			continue
		}
		flush()
		file, line := fn.FileLine(pc)
		lines = append(lines, fmt.Sprintf("  %s\n    %s:%d", name, shortenPath(file), line))
	}
	flush()
	return strings.Join(lines, "\n")
}

func isPlumbing(fn string) bool {
	if !strings.HasPrefix(fn, modulePrefix) {
		return false
	}
	rest := strings.TrimPrefix(fn, modulePrefix)
	for _, p := range []string{"Apply", "apply", "Init", "ForwardAbstract", "Call", "VJP", "forwardWithState", "newWeightsAndState", "wrapError", "recoverError", "guard"} {
		if strings.HasPrefix(rest, p) {
			return true
		}
	}
	return false
}
