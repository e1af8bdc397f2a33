// Package cli parses command-line arguments against a declarative table of
// descriptors. Values are stored through typed destinations, and every piece
// of text the parser produces is allocated in the caller's arena.
//
//	var (
//		dir    arena.Str
//		files  arena.Vec[arena.Str]
//		force  bool
//	)
//	st := cli.Parse(a, []cli.Arg{
//		{Name: "dir", Dest: &dir, Required: true, Help: "working directory"},
//		{Name: "-f,--file", Dest: &files, Many: true, Help: "input files"},
//		{Name: "--force", Dest: &force, Flag: true},
//	}, os.Args)
//	if !st.Proceed() {
//		os.Exit(st.ExitCode())
//	}
//
// Mistakes in the descriptor table are programmer errors and are fatal
// (arena.Die). Mistakes in the arguments are reported through Result and
// Status.
package cli

import (
	"errors"
	"fmt"

	"github.com/pavanmanishd/arena/v2"
)

// Arg describes one accepted argument.
//
// Name is a comma-separated alias list. Aliases starting with "-" or "--"
// are named; an alias without dashes makes the argument positional.
// Dest must point to storage matching the kind of argument:
//
//	Flag            *bool
//	Int64           *int64
//	Int64 and Many  *arena.Vec[int64]
//	otherwise       *arena.Str
//	Many            *arena.Vec[arena.Str]
//
// An Arg with Program set carries the program name (Name) and description
// (Help) used by usage and help output, and has no Dest.
type Arg struct {
	Name     string
	Dest     any
	Help     string
	Metavar  string
	Flag     bool
	Int64    bool
	Required bool
	Many     bool
	Program  bool
}

var (
	// ErrInvalidArgs is wrapped by Result.Err when parsing failed.
	ErrInvalidArgs = errors.New("cli: invalid arguments")
	// ErrHelp is returned by Result.Err when help was requested.
	ErrHelp = errors.New("cli: help requested")
)

// Result is the outcome of ParseVars.
type Result struct {
	OK       bool
	NeedHelp bool
	Message  arena.Str // set when !OK
}

// Err converts the result into an error value, nil on plain success.
func (r Result) Err() error {
	switch {
	case !r.OK:
		return fmt.Errorf("%w: %s", ErrInvalidArgs, r.Message)
	case r.NeedHelp:
		return ErrHelp
	}
	return nil
}

// Status is the outcome of Parse after output has been written.
type Status int

const (
	StatusOK Status = iota
	StatusFailed
	StatusHelp
)

// ExitCode is 0 for StatusOK and 1 otherwise, including after help.
func (s Status) ExitCode() int {
	if s == StatusOK {
		return 0
	}
	return 1
}

// Proceed reports whether the program should continue running.
func (s Status) Proceed() bool {
	return s == StatusOK
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusHelp:
		return "help"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}
