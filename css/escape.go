package css

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// EscapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes and double quotes are escaped per CSS syntax: \" and \\.
func EscapeDoubleQuoted(s string) string {
	return escapeQuoted(s, '"')
}

// EscapeSingleQuoted is EscapeDoubleQuoted for single quoted strings.
func EscapeSingleQuoted(s string) string {
	return escapeQuoted(s, '\'')
}

func escapeQuoted(s string, quote rune) string {
	if !strings.ContainsRune(s, quote) && !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if r == quote || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Unquote removes surrounding quotes from a CSS string token and resolves
// escape sequences. Unbalanced input is returned with escapes resolved only.
func Unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	} else if len(s) >= 1 && (s[0] == '"' || s[0] == '\'') {
		// string token terminated by EOF
		s = s[1:]
	}
	return unescape(s)
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			break
		}
		// escaped newline is a line continuation
		if s[i+1] == '\n' {
			i++
			continue
		}
		j := i + 1
		for j < len(s) && j-i <= 6 && isHex(s[j]) {
			j++
		}
		if j == i+1 {
			// not a hex escape, take next rune literally
			r, size := utf8.DecodeRuneInString(s[i+1:])
			b.WriteRune(r)
			i += size
			continue
		}
		cp, _ := strconv.ParseUint(s[i+1:j], 16, 32)
		r := rune(cp)
		if r == 0 || r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
			r = utf8.RuneError
		}
		b.WriteRune(r)
		// single whitespace after hex escape belongs to the escape
		if j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n') {
			j++
		}
		i = j - 1
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
