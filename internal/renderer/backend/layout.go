package backend

import (
	"sort"

	"github.com/rivo/uniseg"

	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/renderer/glyph"
	"github.com/dshills/iconize/internal/renderer/overlay"
)

// TabWidth is the tab stop distance in cells.
const TabWidth = 4

// LineLayout is a document line converted to screen cells.
type LineLayout struct {
	Line  buffer.Line
	Cells []Cell

	// cols[i] is the screen column of the cursor at Line.From+i.
	cols []int
}

// Width returns the total width of the line in cells.
func (l LineLayout) Width() int {
	w := 0
	for _, c := range l.Cells {
		w += max(c.Width, 1)
	}
	return w
}

// Column returns the screen column of a cursor at offset. Offsets outside
// the line are clamped to it.
func (l LineLayout) Column(offset buffer.ByteOffset) int {
	i := int(min(max(offset-l.Line.From, 0), buffer.ByteOffset(len(l.cols)-1)))
	return l.cols[i]
}

// Offset returns the first document offset drawn at the rightmost column
// not past col.
func (l LineLayout) Offset(col int) buffer.ByteOffset {
	best := 0
	for i, c := range l.cols {
		if c <= col && c > l.cols[best] {
			best = i
		}
	}
	return l.Line.From + buffer.ByteOffset(best)
}

// Text returns the concatenated cell text.
func (l LineLayout) Text() string {
	var s []byte
	for _, c := range l.Cells {
		s = append(s, c.Text...)
	}
	return string(s)
}

// Layout converts one line into cells. Replace decorations hide their span
// and draw the widget instead; point widgets are drawn at their position
// without hiding anything. A widget whose icon no longer resolves shows the
// token text in a replace decoration and nothing at all as a point widget.
func Layout(line buffer.Line, decos []overlay.Decoration, ctx glyph.Context) LineLayout {
	local := make([]overlay.Decoration, 0, len(decos))
	for _, d := range decos {
		if d.From >= line.From && d.To <= line.To {
			local = append(local, d)
		}
	}
	sort.SliceStable(local, func(i, j int) bool {
		return local[i].From < local[j].From
	})

	base := HeadingStyle(line.Text)
	out := LineLayout{Line: line, cols: make([]int, line.Len()+1)}
	col := 0
	emit := func(cells []Cell) {
		for _, c := range cells {
			out.Cells = append(out.Cells, c)
			col += max(c.Width, 1)
		}
	}

	di := 0
	pos := line.From
	for pos <= line.To {
		for di < len(local) && local[di].From < pos {
			di++ // overlaps a span already drawn
		}
		// Point widgets anchored here come first.
		for di < len(local) && local[di].From == pos && local[di].Kind == overlay.KindWidget {
			if node := local[di].Widget.Render(ctx); !node.IsFallback() {
				emit(Segment(node.Text, glyphStyle(node), col))
			}
			di++
		}
		out.cols[pos-line.From] = col
		if pos == line.To {
			break
		}

		if di < len(local) && local[di].From == pos && local[di].Kind == overlay.KindReplace {
			d := local[di]
			di++
			node := d.Widget.Render(ctx)
			if node.IsFallback() {
				emit(Segment(line.Text[pos-line.From:d.To-line.From], StyleFallback, col))
			} else {
				emit(Segment(node.Text, glyphStyle(node), col))
			}
			// The cursor cannot sit inside an atomic span; offsets there
			// report the column in front of the glyph.
			start := out.cols[pos-line.From]
			for p := pos + 1; p < d.To; p++ {
				out.cols[p-line.From] = start
			}
			pos = d.To
			continue
		}

		// Plain text up to the next decoration.
		next := line.To
		if di < len(local) {
			next = local[di].From
		}
		pos = emitText(&out, line, pos, next, base, &col)
	}
	return out
}

// emitText appends the grapheme clusters of line between from and to and
// returns to.
func emitText(out *LineLayout, line buffer.Line, from, to buffer.ByteOffset, style Style, col *int) buffer.ByteOffset {
	rest := line.Text[from-line.From : to-line.From]
	pos := from
	state := -1
	for len(rest) > 0 {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		for i := range len(cluster) {
			out.cols[pos-line.From+buffer.ByteOffset(i)] = *col
		}
		for _, c := range segmentCluster(cluster, width, style, *col) {
			out.Cells = append(out.Cells, c)
			*col += max(c.Width, 1)
		}
		pos += buffer.ByteOffset(len(cluster))
	}
	return to
}

// Segment splits s into cells starting at screen column col. Tabs expand
// to the next tab stop.
func Segment(s string, style Style, col int) []Cell {
	var cells []Cell
	state := -1
	for len(s) > 0 {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		for _, c := range segmentCluster(cluster, width, style, col) {
			cells = append(cells, c)
			col += max(c.Width, 1)
		}
	}
	return cells
}

func segmentCluster(cluster string, width int, style Style, col int) []Cell {
	if cluster == "\t" {
		n := TabWidth - col%TabWidth
		cells := make([]Cell, n)
		for i := range cells {
			cells[i] = Cell{Text: " ", Width: 1, Style: style}
		}
		return cells
	}
	if width == 0 {
		// Control characters and lone combining marks.
		return []Cell{{Text: "?", Width: 1, Style: style}}
	}
	return []Cell{{Text: cluster, Width: width, Style: style}}
}

// HeadingStyle returns the text style for a line.
func HeadingStyle(line string) Style {
	if glyph.HeadingLevel(line) > 0 {
		return StyleHeading
	}
	return StyleText
}

func glyphStyle(n glyph.Node) Style {
	if n.HeadingLevel > 0 {
		return StyleHeadingGlyph
	}
	return StyleGlyph
}

// DrawLines lays out and draws up to height lines of text starting at line
// top, one per row from row y. Rows past the end of the text are left
// untouched. It returns the layouts drawn.
func DrawLines(b Backend, y int, text *buffer.Text, top, height int, decos []overlay.Decoration, ctx glyph.Context) []LineLayout {
	var layouts []LineLayout
	for row := 0; row < height && top+row < text.LineCount(); row++ {
		l := Layout(text.Line(top+row), decos, ctx)
		DrawCells(b, 0, y+row, l.Cells)
		layouts = append(layouts, l)
	}
	return layouts
}
