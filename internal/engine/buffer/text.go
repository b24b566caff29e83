package buffer

import (
	"sort"
	"strings"
)

// Line describes one line of a Text. From and To exclude the line break.
type Line struct {
	Number int        // 0-indexed line number
	From   ByteOffset // offset of the first byte of the line
	To     ByteOffset // offset just past the last byte, before '\n'
	Text   string     // line content without the line break
}

// Range returns the byte range covered by the line.
func (l Line) Range() Range {
	return Range{Start: l.From, End: l.To}
}

// Len returns the length of the line in bytes.
func (l Line) Len() int {
	return int(l.To - l.From)
}

// Text is an immutable document snapshot with a line index.
// A Text is safe to share between goroutines.
type Text struct {
	s          string
	lineStarts []ByteOffset
}

// NewText creates a Text from s. Lines are split on '\n'.
func NewText(s string) *Text {
	starts := make([]ByteOffset, 1, strings.Count(s, "\n")+1)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, ByteOffset(i+1))
		}
	}
	return &Text{s: s, lineStarts: starts}
}

// String returns the full text.
func (t *Text) String() string {
	return t.s
}

// Len returns the total byte length of the text.
func (t *Text) Len() ByteOffset {
	return ByteOffset(len(t.s))
}

// IsEmpty returns true if the text has no content.
func (t *Text) IsEmpty() bool {
	return len(t.s) == 0
}

// LineCount returns the number of lines. An empty text has one line.
func (t *Text) LineCount() int {
	return len(t.lineStarts)
}

// Clamp limits an offset to [0, Len()].
func (t *Text) Clamp(offset ByteOffset) ByteOffset {
	return clamp(offset, 0, t.Len())
}

// Slice returns the text in [from, to). Offsets are clamped.
func (t *Text) Slice(from, to ByteOffset) string {
	from, to = t.Clamp(from), t.Clamp(to)
	if to <= from {
		return ""
	}
	return t.s[from:to]
}

// Line returns the line with the given 0-indexed number.
// Out of range numbers are clamped to the first or last line.
func (t *Text) Line(n int) Line {
	if n < 0 {
		n = 0
	}
	if n >= len(t.lineStarts) {
		n = len(t.lineStarts) - 1
	}
	from := t.lineStarts[n]
	to := t.Len()
	if n+1 < len(t.lineStarts) {
		to = t.lineStarts[n+1] - 1
	}
	return Line{Number: n, From: from, To: to, Text: t.s[from:to]}
}

// LineAt returns the line containing offset.
// Offsets beyond the document are clamped to the nearest end.
func (t *Text) LineAt(offset ByteOffset) Line {
	offset = t.Clamp(offset)
	n := sort.Search(len(t.lineStarts), func(i int) bool {
		return t.lineStarts[i] > offset
	}) - 1
	return t.Line(n)
}

// OffsetToPoint converts a byte offset to line/column.
func (t *Text) OffsetToPoint(offset ByteOffset) Point {
	offset = t.Clamp(offset)
	line := t.LineAt(offset)
	return Point{Line: uint32(line.Number), Column: uint32(offset - line.From)}
}

// PointToOffset converts line/column to a byte offset.
// Columns past the end of the line are clamped to the line end.
func (t *Text) PointToOffset(p Point) ByteOffset {
	line := t.Line(int(p.Line))
	return min(line.From+ByteOffset(p.Column), line.To)
}

// LineRange expands r to whole lines: from the start of the line containing
// r.Start to the end of the line containing r.End.
func (t *Text) LineRange(r Range) Range {
	return Range{Start: t.LineAt(r.Start).From, End: t.LineAt(r.End).To}
}

// NormalizeLineEndings converts CRLF and CR line endings to LF.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
