package render

import (
	"os"

	"golang.org/x/term"
)

// Fallback size when stdout is not a terminal
const (
	DefaultTerminalWidth  = 80
	DefaultTerminalHeight = 24
)

// TerminalSize returns the size of the terminal attached to stdout
func TerminalSize() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return DefaultTerminalWidth, DefaultTerminalHeight
	}
	return w, h
}
