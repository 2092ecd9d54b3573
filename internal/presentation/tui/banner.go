package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Green to cyan, the colours of an accepting run
	lines := []struct {
		text  string
		color string
	}{
		{"  ___                    ___", "#4ade80"},
		{" | _ \\___ __ _ _____ __ | _ \\_  _ _ _  _ _  ___ _ _", "#34d399"},
		{" |   / -_) _` / -_) \\ / |   / || | ' \\| ' \\/ -_) '_|", "#2dd4bf"},
		{" |_|_\\___\\__, \\___/_\\_\\ |_|_\\\\_,_|_||_|_||_\\___|_|", "#22d3ee"},
		{"         |___/", "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, out.String("  DFA simulator "+version).Faint())
	}
	fmt.Fprintln(w)
}
