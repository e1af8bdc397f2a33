package arena

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Scope is one labeled frame of a Trace.
type Scope struct {
	Loc  string // file:line of the call to Frame
	Func string
	Msg  string
}

// Trace is a stack of labeled scopes used to annotate fatal errors with
// context. The zero value is ready to use; a nil *Trace ignores frames.
type Trace struct {
	scopes []Scope
}

// Frame pushes a scope labeled with the formatted message and returns the
// function that pops it:
//
//	defer t.Frame("load %s", path)()
//
// A *FatalError unwinding through the scope gets the scope appended to its
// Frames before the panic continues.
func (t *Trace) Frame(format string, args ...any) func() {
	if t == nil {
		return func() {}
	}
	s := Scope{Loc: "?", Func: "?"}
	if pc, file, line, ok := runtime.Caller(1); ok {
		s.Loc = filepath.Base(file) + ":" + strconv.Itoa(line)
		if fn := runtime.FuncForPC(pc); fn != nil {
			s.Func = shortFuncName(fn.Name())
		}
	}
	if format != "" {
		s.Msg = fmt.Sprintf(format, args...)
	}
	t.scopes = append(t.scopes, s)
	depth := len(t.scopes)
	return func() {
		t.scopes = t.scopes[:depth-1]
		if r := recover(); r != nil {
			if fe, ok := r.(*FatalError); ok {
				fe.Frames = append(fe.Frames, s)
			}
			panic(r)
		}
	}
}

// Depth returns the number of active scopes.
func (t *Trace) Depth() int {
	if t == nil {
		return 0
	}
	return len(t.scopes)
}

// Traceback renders the active scopes, most recent on top, into a Str
// allocated in a. It returns the empty Str when no scope is active.
func (t *Trace) Traceback(a *Arena) Str {
	var out Str
	if t.Depth() == 0 {
		return out
	}
	frames := make([]Scope, len(t.scopes))
	for i, s := range t.scopes {
		frames[len(frames)-1-i] = s
	}
	renderTraceback(frames, func(format string, args ...any) {
		out.AppendF(a, format, args...)
	})
	return out
}

// renderTraceback emits frames (innermost first) through printf.
func renderTraceback(frames []Scope, printf func(format string, args ...any)) {
	width := 0
	for _, s := range frames {
		width = max(width, len(s.Loc))
	}
	printf("Traceback (most recent on top):\n")
	for _, s := range frames {
		printf("  %-*s in '%s()'", width, s.Loc, s.Func)
		if s.Msg != "" {
			printf(" => %s", s.Msg)
		}
		printf("\n")
	}
}

// shortFuncName trims the import path from a runtime function name.
func shortFuncName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
