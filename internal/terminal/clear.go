// Package terminal holds small helpers for interactive prompts.
package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the width of the terminal behind f, or 80 when unknown.
func Width(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// LinesFor returns how many terminal rows n characters occupy at the given width.
func LinesFor(n, width int) int {
	if width <= 0 {
		width = 80
	}
	lines := (n + width - 1) / width
	if lines < 1 {
		lines = 1
	}
	return lines
}

// ClearPreviousLines erases a prompt of textLength characters that the user
// answered with Enter. The cursor is expected on the line below the answer.
func ClearPreviousLines(w io.Writer, textLength, width int) {
	n := LinesFor(textLength, width) + 1
	for i := 0; i < n; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < n-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}

// ReadPassword prompts on out and reads a line from in without echo.
func ReadPassword(in *os.File, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	b, err := term.ReadPassword(int(in.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
