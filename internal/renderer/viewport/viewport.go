// Package viewport tracks which lines of a document are on screen and
// converts them to the byte windows the overlay renderer consumes.
package viewport

import (
	"sync"

	"github.com/dshills/iconize/internal/engine/buffer"
)

// Viewport represents the visible portion of a document.
type Viewport struct {
	mu sync.RWMutex

	// First visible line
	topLine int

	// Size in screen cells
	width  int
	height int

	// Scroll margins (keep cursor this far from the top and bottom edges)
	marginTop    int
	marginBottom int

	// Number of lines in the document, 0 if unknown
	lineCount int
}

// NewViewport creates a viewport with the given size.
// Width and height are clamped to a minimum of 1.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:        max(width, 1),
		height:       max(height, 1),
		marginTop:    DefaultMargins().Top,
		marginBottom: DefaultMargins().Bottom,
	}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// BottomLine returns the last visible line.
func (v *Viewport) BottomLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bottomLine()
}

func (v *Viewport) bottomLine() int {
	bottom := v.topLine + v.height - 1
	if v.lineCount > 0 && bottom > v.lineCount-1 {
		bottom = v.lineCount - 1
	}
	return bottom
}

// Resize updates the viewport size.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = max(width, 1)
	v.height = max(height, 1)
}

// SetLineCount sets the number of lines in the document and clamps the
// top line if the document shrank.
func (v *Viewport) SetLineCount(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lineCount = max(n, 0)
	v.topLine = v.clampTop(v.topLine)
}

// SetMargins sets the scroll margins. Each margin is limited to a third of
// the height so there is always room for the cursor.
func (v *Viewport) SetMargins(m MarginConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	limit := v.height / maxMarginRatio
	v.marginTop = min(max(m.Top, 0), limit)
	v.marginBottom = min(max(m.Bottom, 0), limit)
}

// Margins returns the current scroll margins.
func (v *Viewport) Margins() MarginConfig {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return MarginConfig{Top: v.marginTop, Bottom: v.marginBottom}
}

// VisibleLineRange returns the first and last visible lines.
func (v *Viewport) VisibleLineRange() (start, end int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine, v.bottomLine()
}

// IsLineVisible returns true if the line is within the viewport.
func (v *Viewport) IsLineVisible(line int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line <= v.bottomLine()
}

// LineToScreenRow converts a document line to a screen row.
// Returns -1 if the line is not visible.
func (v *Viewport) LineToScreenRow(line int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if line < v.topLine || line > v.bottomLine() {
		return -1
	}
	return line - v.topLine
}

// ScreenRowToLine converts a screen row to a document line.
func (v *Viewport) ScreenRowToLine(row int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if row < 0 {
		return v.topLine
	}
	line := v.topLine + row
	if v.lineCount > 0 && line >= v.lineCount {
		line = v.lineCount - 1
	}
	return line
}

// ScrollTo shows the given line at the top.
func (v *Viewport) ScrollTo(line int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = v.clampTop(line)
}

// ScrollBy scrolls by a delta number of lines.
func (v *Viewport) ScrollBy(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = v.clampTop(v.topLine + delta)
}

// PageUp scrolls up by one page, keeping two lines of overlap.
func (v *Viewport) PageUp() {
	v.ScrollBy(-v.pageSize())
}

// PageDown scrolls down by one page, keeping two lines of overlap.
func (v *Viewport) PageDown() {
	v.ScrollBy(v.pageSize())
}

func (v *Viewport) pageSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return max(v.height-2, 1)
}

// ScrollToReveal scrolls minimally so line sits inside the margins.
// Returns true if scrolling occurred.
func (v *Viewport) ScrollToReveal(line int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	target := v.topLine
	switch {
	case line < v.topLine+v.marginTop:
		target = line - v.marginTop
	case line > v.topLine+v.height-1-v.marginBottom:
		target = line - v.height + 1 + v.marginBottom
	}
	target = v.clampTop(target)
	if target == v.topLine {
		return false
	}
	v.topLine = target
	return true
}

func (v *Viewport) clampTop(line int) int {
	if v.lineCount > 0 && line > v.lineCount-1 {
		line = v.lineCount - 1
	}
	return max(line, 0)
}

// Window returns the byte range of text covered by the visible lines.
func (v *Viewport) Window(text *buffer.Text) buffer.Range {
	start, end := v.VisibleLineRange()
	return buffer.Range{Start: text.Line(start).From, End: text.Line(end).To}
}
