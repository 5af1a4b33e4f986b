package snc

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

const eof = -1

// Location pinpoints a single byte offset in a source file by 1-based
// line, 1-based rune column, and raw byte cursor.
type Location struct {
	Line   int
	Column int
	Cursor int
}

// Span covers a half-open byte range, from Start up to (but excluding)
// End. Every token and every expression carries one for diagnostics.
type Span struct {
	Start Location
	End   Location
}

// NewSpan builds a Span from two already-computed locations.
func NewSpan(start, end Location) Span {
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	startLine, startCol := s.Start.Line, s.Start.Column
	endLine, endCol := s.End.Line, s.End.Column
	if startLine == endLine && startCol == endCol {
		return fmt.Sprintf("%d:%d", startLine, startCol)
	}
	if startLine == endLine {
		return fmt.Sprintf("%d:%d..%d", startLine, startCol, endCol)
	}
	return fmt.Sprintf("%d:%d..%d:%d", startLine, startCol, endLine, endCol)
}

// Len returns the span's length in bytes.
func (s Span) Len() int { return s.End.Cursor - s.Start.Cursor }

// LineIndex allows fast conversion from byte cursor offsets to line/column.
//
// It stores the start byte offset of each line (0-based). Given a
// cursor, it finds the line by binary searching line starts (O(log
// lines)) and computes the column as (runes since lineStart + 1).
//
// Construction is O(n) over the input and is intended to be cached
// per source file for the lifetime of a compilation.
type LineIndex struct {
	input     []byte
	lineStart []int
}

// NewLineIndex scans input once, recording the offset each line begins
// at. It treats both bare LF and CRLF line endings as line breaks,
// since spec.md requires both to be accepted.
func NewLineIndex(input []byte) *LineIndex {
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i, b := range input {
		if b == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &LineIndex{input: input, lineStart: lineStart}
}

func (li *LineIndex) Span(start, end int) Span {
	return Span{
		Start: li.LocationAt(start),
		End:   li.LocationAt(end),
	}
}

func (li *LineIndex) LocationAt(cursor int) Location {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(li.input) {
		cursor = len(li.input)
	}

	lineIdx := sort.Search(len(li.lineStart), func(i int) bool {
		return li.lineStart[i] > cursor
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}

	lineStart := li.lineStart[lineIdx]
	col := utf8.RuneCount(li.input[lineStart:cursor]) + 1

	return Location{
		Line:   lineIdx + 1,
		Column: col,
		Cursor: cursor,
	}
}
