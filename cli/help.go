package cli

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/pavanmanishd/arena/v2"
)

// usage renders "prog [-a <a>] [--many <many>]... <pos>".
func (ctx *context) usage(a *arena.Arena, argv []string) arena.Str {
	var out arena.Str
	if ctx.prog != nil && ctx.prog.Name != "" {
		out.AppendString(a, ctx.prog.Name)
	} else {
		prog := argv0(argv)
		if i := strings.LastIndexByte(prog, os.PathSeparator); i >= 0 {
			prog = prog[i+1:]
		}
		out.AppendString(a, prog)
	}

	rendered := make([]bool, len(ctx.records))
	for _, key := range ctx.order.All() {
		s := ctx.named.Find(*key)
		if rendered[s.rec] {
			continue
		}
		rendered[s.rec] = true
		rec := &ctx.records[s.rec]
		open, closing := brackets(rec.arg)
		out.AppendString(a, " ", open, dashPrefix(rec.firstDashes == 2), rec.firstAlias)
		if rec.metavar != "" {
			out.AppendString(a, " ", rec.metavar)
		}
		out.AppendString(a, closing, ellipsis(rec.arg))
	}
	for _, s := range ctx.pos.All() {
		rec := &ctx.records[s.rec]
		open, closing := brackets(rec.arg)
		name := rec.metavar
		if name == "" {
			name = s.alias.String()
		}
		out.AppendString(a, " ", open, name, closing, ellipsis(rec.arg))
	}
	return out
}

func brackets(arg *Arg) (string, string) {
	if arg.Required {
		return "", ""
	}
	return "[", "]"
}

func ellipsis(arg *Arg) string {
	if arg.Many {
		return "..."
	}
	return ""
}

// row is one line of the help table before wrapping.
type row struct {
	names arena.Str
	rec   int
}

// helpText renders the positional and option tables. termw <= 0 disables
// wrapping.
func (ctx *context) helpText(a *arena.Arena, termw int) arena.Str {
	tmp := arena.NewArena(2048)
	defer tmp.Destroy()

	var positional, options arena.Vec[row]
	for _, s := range ctx.pos.All() {
		positional.Push(tmp, row{names: arena.Copy(tmp, s.alias.Bytes()), rec: s.rec})
	}
	for _, key := range ctx.order.All() {
		s := ctx.named.Find(*key)
		var r *row
		if n := options.Len(); n > 0 && options.At(n-1).rec == s.rec {
			r = options.At(n - 1)
			r.names.AppendString(tmp, ", ")
		} else {
			r = options.Push(tmp, row{rec: s.rec})
		}
		r.names.AppendString(tmp, dashPrefix(s.long), s.alias.String())
		if m := ctx.records[s.rec].metavar; m != "" {
			r.names.AppendString(tmp, " ", m)
		}
	}

	pad := 0
	for _, r := range positional.All() {
		pad = max(pad, runewidth.StringWidth(r.names.String()))
	}
	for _, r := range options.All() {
		pad = max(pad, runewidth.StringWidth(r.names.String()))
	}
	pad += 2

	var out arena.Str
	if ctx.prog != nil && ctx.prog.Help != "" {
		out.AppendString(tmp, ctx.prog.Help, "\n\n")
	}
	out.AppendString(tmp, "positional arguments:\n")
	for _, r := range positional.All() {
		ctx.appendRow(tmp, &out, r, pad, termw)
	}
	out.AppendString(tmp, "\noptions:\n")
	for _, r := range options.All() {
		ctx.appendRow(tmp, &out, r, pad, termw)
	}
	return arena.Copy(a, out.Bytes())
}

// appendRow writes one table row, wrapping its help text so the line fits
// in termw columns. Continuation lines are indented under the help column.
func (ctx *context) appendRow(a *arena.Arena, out *arena.Str, r *row, pad, termw int) {
	names := r.names.String()
	help := ctx.records[r.rec].arg.Help
	if help == "" {
		out.AppendString(a, "  ", names, "\n")
		return
	}
	avail := 0
	if termw > 0 && runewidth.StringWidth(help)+pad+4 > termw {
		avail = max(termw-(pad+4), 10)
	}
	for first := true; first || help != ""; first = false {
		line := help
		help = ""
		if avail > 0 {
			line, help = cutLine(line, avail)
		}
		out.AppendString(a, "  ", names, strings.Repeat(" ", pad-runewidth.StringWidth(names)), "  ", line, "\n")
		names = ""
	}
}

// cutLine splits s after at most width display columns, preferring the last
// space. The remainder has its leading spaces removed.
func cutLine(s string, width int) (string, string) {
	if runewidth.StringWidth(s) <= width {
		return s, ""
	}
	head := runewidth.Truncate(s, width, "")
	if head == "" {
		_, size := utf8.DecodeRuneInString(s)
		head = s[:size]
	}
	if i := strings.LastIndexByte(head, ' '); i > 0 {
		return strings.TrimRight(head[:i], " "), strings.TrimLeft(s[i+1:], " ")
	}
	return head, strings.TrimLeft(s[len(head):], " ")
}
