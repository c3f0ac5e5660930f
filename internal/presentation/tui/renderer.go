// Package tui renders markdown reports for the terminal.
package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Render renders markdown with glamour when stdout is an interactive
// terminal and color is not disabled; otherwise the raw markdown is
// returned unchanged so output stays pipeable.
func Render(markdown string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) || termenv.EnvNoColor() {
		return markdown
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
