package tui

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether f is attached to a terminal.
// Playback animation and markdown styling are only enabled for terminals.
func IsInteractive(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
