//go:build !clinotty

package cli

import (
	"os"

	"golang.org/x/term"
)

// TerminalWidth returns the column count of the terminal attached to
// stderr, or 0 when stderr is not a terminal.
func TerminalWidth() int {
	fd := int(os.Stderr.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
