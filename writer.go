package snc

import (
	"fmt"
	"strings"
)

// codeWriter is an indenting string builder used by every codegen_*.go
// file to accumulate one section of the generated C translation unit
// (spec.md §4.7.5's five-part output: prelude, lambda forward decls,
// lambda definitions, top-level declarations, main). Each section gets
// its own codeWriter so the generator can interleave emission across
// sections (e.g. register a lambda's forward declaration while still
// in the middle of emitting the statement that defines it) and join
// them in the right order at the end.
type codeWriter struct {
	buf    strings.Builder
	indent int
}

func newCodeWriter() *codeWriter { return &codeWriter{} }

func (w *codeWriter) Indent() { w.indent++ }
func (w *codeWriter) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Line writes one fully-indented, newline-terminated line.
func (w *codeWriter) Line(format string, args ...any) {
	w.pad()
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}

// Raw writes text with no indentation or trailing newline, for
// building up a single C statement across several calls.
func (w *codeWriter) Raw(format string, args ...any) {
	fmt.Fprintf(&w.buf, format, args...)
}

func (w *codeWriter) pad() {
	w.buf.WriteString(strings.Repeat("    ", w.indent))
}

func (w *codeWriter) String() string { return w.buf.String() }

// Block calls body with the writer indented one level deeper, wrapped
// in a brace pair the caller supplies the header line for.
func (w *codeWriter) Block(header string, body func()) {
	w.Line("%s {", header)
	w.Indent()
	body()
	w.Dedent()
	w.Line("}")
}
