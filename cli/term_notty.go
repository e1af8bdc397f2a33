//go:build clinotty

package cli

// TerminalWidth always returns 0: help text is never wrapped.
func TerminalWidth() int {
	return 0
}
