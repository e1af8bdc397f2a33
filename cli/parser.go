package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pavanmanishd/arena/v2"
)

// Parser binds command-line tokens to the destinations of its Args.
// The zero Output writes to os.Stderr; a nil Width detects the terminal.
type Parser struct {
	Args   []Arg
	Output io.Writer
	// Width returns the terminal width used to wrap help text; 0 disables
	// wrapping.
	Width func() int
}

// Parse parses argv (program name first) with a default Parser.
func Parse(a *arena.Arena, args []Arg, argv []string) Status {
	p := Parser{Args: args}
	return p.Parse(a, argv)
}

// record is the per-descriptor state derived on every parse.
type record struct {
	arg         *Arg
	metavar     string
	firstAlias  string
	firstDashes int
	hits        int
}

// spec is what an alias resolves to. It lives in arena memory, so it holds
// an index into the records instead of a pointer.
type spec struct {
	rec   int
	alias arena.Str
	long  bool
}

type context struct {
	records        []record
	named          arena.Map[arena.Str, spec, arena.StrOrder]
	order          arena.Vec[arena.Str] // named aliases in registration order
	pos            arena.Vec[spec]
	prog           *Arg
	help           Arg
	wantHelp       bool
	sawOptionalPos bool
}

// init validates the descriptor table and builds the alias tables in a.
// Invalid tables are fatal.
func (p *Parser) init(a *arena.Arena) *context {
	ctx := &context{}
	ctx.help = Arg{
		Name: "-h,--help",
		Dest: &ctx.wantHelp,
		Flag: true,
		Help: "show this help message and exit",
	}
	ctx.records = make([]record, 0, len(p.Args)+1)
	for i := range p.Args {
		ctx.records = append(ctx.records, record{arg: &p.Args[i], metavar: p.Args[i].Metavar})
	}
	ctx.records = append(ctx.records, record{arg: &ctx.help})
	for i := range ctx.records {
		ctx.register(a, i)
	}
	return ctx
}

func (ctx *context) register(a *arena.Arena, i int) {
	rec := &ctx.records[i]
	arg := rec.arg
	defer a.Trace().Frame("Parse CLI argument spec (#%d): %s", i, arg.Name)()

	if arg.Flag && arg.Metavar != "" {
		arena.Die("'flag' options cannot have a 'metavar' name")
	}
	if arg.Program {
		if ctx.prog != nil {
			arena.Die("program description already specified: %s", ctx.prog.Name)
		}
		if arg.Dest != nil {
			arena.Die("program description cannot have a destination")
		}
		ctx.prog = arg
		return
	}
	checkDest(arg)
	for j := i + 1; j < len(ctx.records); j++ {
		if other := ctx.records[j].arg; other.Dest == arg.Dest {
			arena.Die("conflict: destination already used in argument: %s", other.Name)
		}
	}

	var named, positional bool
	for _, alias := range strings.Split(arg.Name, ",") {
		if alias == "" {
			continue
		}
		name, dashes := stripDashes(alias)
		if rec.firstAlias == "" {
			rec.firstAlias = name
		}
		switch {
		case dashes > 2:
			arena.Die("unexpected '-' count: %d", dashes)
		case dashes > 0:
			if arg.Flag && arg.Required {
				arena.Die("'flag' arguments cannot also be 'required'")
			}
			named = true
			if rec.firstDashes == 0 {
				rec.firstDashes = dashes
			}
			key := arena.S(a, name)
			s := spec{rec: i, alias: key, long: dashes == 2}
			if v := ctx.named.Find(key); v != nil {
				*v = s
			} else {
				*ctx.named.At(a, key) = s
				ctx.order.Push(a, key)
			}
		default:
			if positional {
				arena.Die("positional arguments cannot have aliases (e.g. 'name1,name2')")
			}
			positional = true
			if arg.Flag {
				arena.Die("positional arguments cannot be flags")
			}
			if n := ctx.pos.Len(); n > 0 && ctx.records[ctx.pos.At(n-1).rec].arg.Many {
				arena.Die("positional argument cannot follow one with 'many': it would never receive a value")
			}
			if arg.Required && ctx.sawOptionalPos {
				arena.Die("'required' positional argument cannot follow a non-required one")
			}
			if !arg.Required {
				ctx.sawOptionalPos = true
			}
			ctx.pos.Push(a, spec{rec: i, alias: arena.S(a, name)})
		}
	}
	if named && positional {
		arena.Die("argument mixes named and positional aliases")
	}
	if rec.firstAlias == "" {
		arena.Die("argument has no name")
	}
	if !arg.Flag && rec.metavar == "" {
		rec.metavar = "<" + rec.firstAlias + ">"
	}
}

// checkDest verifies that the destination type matches the argument kind.
func checkDest(arg *Arg) {
	var ok, isNil bool
	switch d := arg.Dest.(type) {
	case nil:
		isNil = true
	case *bool:
		ok, isNil = arg.Flag, d == nil
	case *int64:
		ok, isNil = arg.Int64 && !arg.Many && !arg.Flag, d == nil
	case *arena.Vec[int64]:
		ok, isNil = arg.Int64 && arg.Many && !arg.Flag, d == nil
	case *arena.Str:
		ok, isNil = !arg.Int64 && !arg.Many && !arg.Flag, d == nil
	case *arena.Vec[arena.Str]:
		ok, isNil = !arg.Int64 && arg.Many && !arg.Flag, d == nil
	}
	if isNil {
		arena.Die("destination pointer missing")
	}
	if !ok {
		arena.Die("destination of type %T does not match the argument kind", arg.Dest)
	}
}

// stripDashes returns s without its leading run of '-' and the run length.
func stripDashes(s string) (string, int) {
	trimmed := strings.TrimLeft(s, "-")
	return trimmed, len(s) - len(trimmed)
}

func dashPrefix(long bool) string {
	if long {
		return "--"
	}
	return "-"
}

// ParseVars binds argv to the destinations without writing any output.
// Descriptor table mistakes are fatal.
func (p *Parser) ParseVars(a *arena.Arena, argv []string) Result {
	return p.init(a).parse(a, argv)
}

// Parse binds argv to the destinations. On failure it writes the usage line
// and an error line to Output; when help is requested it writes the usage
// line and the help text.
func (p *Parser) Parse(a *arena.Arena, argv []string) Status {
	ctx := p.init(a)
	res := ctx.parse(a, argv)
	out := p.output()
	switch {
	case !res.OK:
		fmt.Fprintf(out, "usage: %s\n", ctx.usage(a, argv))
		fmt.Fprintf(out, "%s: error: %s\n", argv0(argv), res.Message)
		return StatusFailed
	case res.NeedHelp:
		fmt.Fprintf(out, "usage: %s\n\n", ctx.usage(a, argv))
		fmt.Fprintf(out, "%s\n", ctx.helpText(a, p.width()))
		return StatusHelp
	}
	return StatusOK
}

// Usage renders the one-line usage summary.
func (p *Parser) Usage(a *arena.Arena, argv []string) arena.Str {
	return p.init(a).usage(a, argv)
}

// Help renders the help text wrapped to the parser's width.
func (p *Parser) Help(a *arena.Arena) arena.Str {
	return p.init(a).helpText(a, p.width())
}

func (p *Parser) output() io.Writer {
	if p.Output != nil {
		return p.Output
	}
	return os.Stderr
}

func (p *Parser) width() int {
	if p.Width != nil {
		return p.Width()
	}
	return TerminalWidth()
}

func argv0(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	return argv[0]
}

func (ctx *context) parse(a *arena.Arena, argv []string) Result {
	var res Result
	fail := func(format string, args ...any) Result {
		res.Message = arena.F(a, format, args...)
		return res
	}

	var pending spec
	hasPending := false
	forced := false
	next := 0 // next positional slot
	for i := 1; i < len(argv); i++ {
		tok := argv[i]
		if hasPending {
			hasPending = false
			if msg, ok := ctx.bind(a, pending, i, tok); !ok {
				res.Message = msg
				return res
			}
			continue
		}
		if !forced && tok == "--" {
			forced = true
			continue
		}

		name, dashes := stripDashes(tok)
		if forced {
			dashes = 0
		}
		switch {
		case dashes == 0:
			if next >= ctx.pos.Len() {
				return fail("unexpected positional argument (#%d): %s", i, name)
			}
			s := *ctx.pos.At(next)
			if !ctx.records[s.rec].arg.Many {
				next++
			}
			if msg, ok := ctx.bind(a, s, i, tok); !ok {
				res.Message = msg
				return res
			}
		case dashes <= 2:
			key, value, hasValue := strings.Cut(name, "=")
			s := arena.FindString(&ctx.named, key)
			if s == nil {
				return fail("unknown argument (#%d): %s", i, tok)
			}
			if s.long != (dashes == 2) {
				return fail("unknown argument (#%d): %s. Expected prefix: %s", i, tok, dashPrefix(s.long))
			}
			rec := &ctx.records[s.rec]
			if rec.hits > 0 && !rec.arg.Many {
				return fail("argument (#%d): %s: more than one value provided", i, tok)
			}
			if rec.arg.Flag {
				*rec.arg.Dest.(*bool) = true
				if hasValue {
					return fail("argument (#%d): %s: cannot assign with '=' to 'flag' named argument", i, tok)
				}
				continue
			}
			if hasValue {
				if msg, ok := ctx.bind(a, *s, i, value); !ok {
					res.Message = msg
					return res
				}
				continue
			}
			pending, hasPending = *s, true
		default:
			return fail("unexpected amount of '-' in argument (#%d): %s", i, tok)
		}
	}
	if hasPending {
		return fail("expected value for: %s", ctx.records[pending.rec].arg.Name)
	}
	for _, rec := range ctx.records {
		if rec.arg.Required && rec.hits == 0 {
			return fail("missing argument: %s", rec.arg.Name)
		}
	}
	res.OK = true
	res.NeedHelp = ctx.wantHelp
	return res
}

// bind stores tok into the destination of s.
func (ctx *context) bind(a *arena.Arena, s spec, i int, tok string) (arena.Str, bool) {
	rec := &ctx.records[s.rec]
	rec.hits++
	arg := rec.arg
	if arg.Int64 {
		v, err := parseInt64(tok)
		if err != nil {
			return arena.F(a, "argument (#%d): %s: could not fully convert to int64: %s", i, arg.Name, tok), false
		}
		switch d := arg.Dest.(type) {
		case *int64:
			*d = v
		case *arena.Vec[int64]:
			d.Push(a, v)
		}
		return arena.Str{}, true
	}
	switch d := arg.Dest.(type) {
	case *arena.Str:
		*d = arena.S(a, tok)
	case *arena.Vec[arena.Str]:
		d.Push(a, arena.S(a, tok))
	}
	return arena.Str{}, true
}

// parseInt64 accepts what strtoll consumes in full: leading white space, an
// optional sign and decimal digits. An empty value is zero and out of range
// values saturate.
func parseInt64(tok string) (int64, error) {
	if tok == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(strings.TrimLeft(tok, " \t\n\v\f\r"), 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return v, nil
	}
	return v, err
}
