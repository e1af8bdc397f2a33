package main

import (
	"io"

	"github.com/pavanmanishd/arena/v2"
	"github.com/pavanmanishd/arena/v2/cli"
	"github.com/pavanmanishd/arena/v2/internal/logger"
	"github.com/spf13/cobra"
)

func newAmalgamateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "amalgamate <dir> [options]",
		Short: "Join a C header and its implementation into a single-header library",
		// Arguments go through the arena-backed parser instead of cobra's.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			argv := append([]string{cmd.CommandPath()}, args...)
			return runAmalgamate(cmd.ErrOrStderr(), argv)
		},
	}
}

type amalgamateOptions struct {
	dir    arena.Str
	header arena.Str
	source arena.Str
	output arena.Str
	guard  arena.Str
}

func runAmalgamate(stderr io.Writer, argv []string) error {
	a := newArena()
	defer a.Destroy()
	defer a.Trace().Frame("amalgamate")()

	var opts amalgamateOptions
	p := cli.Parser{
		Args: []cli.Arg{
			{Name: "arenakit amalgamate", Program: true, Help: "Builds a single-header library: the header, then the implementation behind an include guard."},
			{Name: "dir", Dest: &opts.dir, Required: true, Help: "project root containing the sources"},
			{Name: "--header", Dest: &opts.header, Metavar: "FILE", Help: "header path relative to dir (default: src/lib.h)"},
			{Name: "--source", Dest: &opts.source, Metavar: "FILE", Help: "implementation path relative to dir (default: src/lib.c)"},
			{Name: "-o,--output", Dest: &opts.output, Metavar: "FILE", Help: "output path relative to dir (default: lib.h)"},
			{Name: "--guard", Dest: &opts.guard, Metavar: "NAME", Help: "include guard protecting the implementation (default: LIB_IMPLEMENTATION)"},
		},
		Output: stderr,
		Width:  helpWidth,
	}
	if st := p.Parse(a, argv); !st.Proceed() {
		return exitCode(st.ExitCode())
	}
	defaultStr(a, &opts.header, "src/lib.h")
	defaultStr(a, &opts.source, "src/lib.c")
	defaultStr(a, &opts.output, "lib.h")
	defaultStr(a, &opts.guard, "LIB_IMPLEMENTATION")

	dir := opts.dir.String()
	header := arena.ReadFile(a, arena.PathJoin(a, dir, opts.header.String()).String())
	source := arena.ReadFile(a, arena.PathJoin(a, dir, opts.source.String()).String())
	out := amalgamate(a, header, source, opts.guard.String())

	path := arena.PathJoin(a, dir, opts.output.String()).String()
	arena.WriteFile(path, out.Bytes())
	logger.Info("amalgamated", "output", path, "bytes", out.Len())
	return nil
}

// amalgamate places header first, then source under guard. The first line
// of source, conventionally the include of header, is dropped but its line
// break is kept.
func amalgamate(a *arena.Arena, header, source arena.Str, guard string) arena.Str {
	body := source.Bytes()
	if i := source.Find("\n", 0); i != arena.NPos {
		body = body[i:]
	}
	return arena.F(a, "%s\n\n#ifdef %s\n%s#endif //%s\n", header, guard, body, guard)
}

func defaultStr(a *arena.Arena, s *arena.Str, def string) {
	if s.Len() == 0 {
		*s = arena.S(a, def)
	}
}
