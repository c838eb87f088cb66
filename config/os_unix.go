//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// CleanFileName makes in usable as a single file name. Leading dots are
// removed so the result is never hidden.
func CleanFileName(in string) string {
	return cleanName(in, "", func(s string) string { return strings.TrimLeft(s, ".") })
}

// EnableColorOutput reports whether stream is a terminal.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
