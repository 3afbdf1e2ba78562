package tui

import (
	"os"

	"golang.org/x/term"
)

// TerminalInfo holds information about the current terminal
type TerminalInfo struct {
	Width         int
	Height        int
	IsInteractive bool
}

// GetTerminalInfo inspects f, usually os.Stdout
func GetTerminalInfo(f *os.File) TerminalInfo {
	info := TerminalInfo{
		Width:  80, // Default
		Height: 24, // Default
	}

	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return info
	}
	info.IsInteractive = true

	if w, h, err := term.GetSize(fd); err == nil && w > 0 {
		info.Width = w
		info.Height = h
	}
	return info
}
