package arena

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// FatalError is the panic value raised by Die. Misuse such as an index out
// of range, an invalid CLI descriptor table, or a failed chunk allocation is
// not recoverable by the caller in the ordinary sense: the program reports
// it and exits.
type FatalError struct {
	Msg string
	// Frames holds the trace scopes the panic unwound through, innermost
	// first.
	Frames []Scope
}

func (e *FatalError) Error() string {
	if len(e.Frames) == 0 {
		return e.Msg
	}
	var sb strings.Builder
	sb.WriteString(e.Msg)
	sb.WriteByte('\n')
	renderTraceback(e.Frames, func(format string, args ...any) {
		fmt.Fprintf(&sb, format, args...)
	})
	return strings.TrimSuffix(sb.String(), "\n")
}

// Die raises a *FatalError with a formatted message.
func Die(format string, args ...any) {
	panic(&FatalError{Msg: fmt.Sprintf(format, args...)})
}

// Exit terminates the process with status 1 after reporting a *FatalError
// to stderr. It must be deferred directly at the top of main:
//
//	defer arena.Exit()
//
// Panics with any other value keep propagating.
func Exit() {
	r := recover()
	if r == nil {
		return
	}
	fe, ok := r.(*FatalError)
	if !ok {
		panic(r)
	}
	Report(os.Stderr, fe)
	os.Exit(1)
}

// Report writes "Fatal Error: <msg>" followed by the traceback to w. The
// prefix is colored when w is a terminal.
func Report(w io.Writer, e *FatalError) {
	prefix := color.New(color.FgRed, color.Bold)
	if color.NoColor || !isTerminal(w) {
		prefix.DisableColor()
	} else {
		prefix.EnableColor()
	}
	prefix.Fprint(w, "Fatal Error: ")
	fmt.Fprintln(w, e.Msg)
	if len(e.Frames) > 0 {
		renderTraceback(e.Frames, func(format string, args ...any) {
			fmt.Fprintf(w, format, args...)
		})
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
