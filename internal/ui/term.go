package ui

import (
	"os"

	"golang.org/x/term"
)

// Fallback size when the terminal cannot be queried.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return IsTerminalFd(f.Fd())
}

// IsTerminalFd reports whether the file descriptor is a terminal.
func IsTerminalFd(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// Size returns the size of the terminal on stdout, or the fallback size.
func Size() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return w, h
}
