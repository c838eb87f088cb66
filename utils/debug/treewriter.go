// Package debug has helpers for human readable dumps used in debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

const indentUnit = "  "

// TreeWriter accumulates lines indented by depth. Copies share the buffer.
type TreeWriter struct {
	b *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{b: new(strings.Builder)}
}

func (tw TreeWriter) String() string {
	return tw.b.String()
}

func (tw TreeWriter) put(depth int, s string) {
	tw.b.WriteString(strings.Repeat(indentUnit, max(depth, 0)))
	tw.b.WriteString(s)
	tw.b.WriteByte('\n')
}

// Line writes formatted line at depth.
func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.put(depth, fmt.Sprintf(format, args...))
}

// TextBlock writes label and quoted value, empty value is left as is.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	if value != "" {
		value = strconv.Quote(value)
	}
	tw.put(depth, label+": "+value)
}

// Bytes writes label with size of binary payload instead of its content.
func (tw TreeWriter) Bytes(depth int, label string, data []byte) {
	tw.put(depth, fmt.Sprintf("%s: <%d bytes>", label, len(data)))
}
