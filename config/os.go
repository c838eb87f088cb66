package config

import (
	"os"
	"strings"
)

const badFileName = "_bad_file_name_"

// cleanName drops path separators, control characters and anything listed
// in forbidden, then applies trim.
func cleanName(in, forbidden string, trim func(string) string) string {
	forbidden += string(os.PathSeparator) + string(os.PathListSeparator)
	out := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(forbidden, r) {
			return -1
		}
		return r
	}, in)
	if out = trim(out); out == "" {
		return badFileName
	}
	return out
}
