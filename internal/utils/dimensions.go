package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// Dimensions returns the visual width and height of text as a terminal displays it.
// Escape sequences are stripped first; width is the longest line in code points and height
// counts every newline-separated line, including a trailing empty one.
func Dimensions(text string) (width, height int) {
	for _, line := range strings.Split(ansi.Strip(text), "\n") {
		if n := utf8.RuneCountInString(line); n > width {
			width = n
		}
		height++
	}
	return width, height
}

// VisualWidth returns the width of a single line after stripping escape sequences.
func VisualWidth(line string) int {
	return utf8.RuneCountInString(ansi.Strip(line))
}
