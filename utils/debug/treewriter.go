// Package debug has helpers producing human readable dumps of internal
// structures for debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates indented lines, one level of depth is two spaces.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

// Len returns number of bytes written so far.
func (tw TreeWriter) Len() int {
	return tw.w.Len()
}

func (tw TreeWriter) indent(depth int) {
	tw.w.WriteString(strings.Repeat("  ", max(depth, 0)))
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes "label: value" with value quoted so control characters
// (line breaks in particular) stay visible.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(quoteText(value))
	tw.w.WriteByte('\n')
}

func quoteText(raw string) string {
	if raw == "" {
		return `""`
	}
	return strconv.Quote(raw)
}
