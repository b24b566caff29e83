package engine

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/engine/tracking"
	"github.com/dshills/iconize/internal/renderer/overlay"
)

// Motion is a cursor movement.
type Motion uint8

const (
	MotionLeft Motion = iota
	MotionRight
	MotionUp
	MotionDown
	MotionLineStart
	MotionLineEnd
	MotionDocStart
	MotionDocEnd
)

// String returns the string representation of the motion.
func (m Motion) String() string {
	switch m {
	case MotionLeft:
		return "left"
	case MotionRight:
		return "right"
	case MotionUp:
		return "up"
	case MotionDown:
		return "down"
	case MotionLineStart:
		return "line-start"
	case MotionLineEnd:
		return "line-end"
	case MotionDocStart:
		return "doc-start"
	case MotionDocEnd:
		return "doc-end"
	default:
		return "unknown"
	}
}

func (m Motion) bias() buffer.Assoc {
	switch m {
	case MotionLeft, MotionUp, MotionLineStart, MotionDocStart:
		return buffer.AssocBefore
	default:
		return buffer.AssocAfter
	}
}

// Move moves every selection head. With extend the anchors stay put.
// A head that would land inside a collapsed glyph snaps to its edge in the
// direction of travel.
func (e *Engine) Move(m Motion, extend bool) ([]Decoration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}

	snap := e.store.Snapshot()
	decos := e.renderer.Last()
	sels := snap.Selection
	if len(sels) == 0 {
		sels = []buffer.Selection{buffer.Cursor(0)}
	}
	next := make([]buffer.Selection, len(sels))
	for i, s := range sels {
		head := overlay.SnapCursor(motionTarget(snap.Text, s.Head, m), m.bias(), decos)
		if extend {
			next[i] = buffer.Selection{Anchor: s.Anchor, Head: head}
		} else {
			next[i] = buffer.Cursor(head)
		}
	}
	return e.applyLocked(tracking.SelectionEvent{Old: snap.Selection, New: next}, false)
}

func motionTarget(text *buffer.Text, pos buffer.ByteOffset, m Motion) buffer.ByteOffset {
	switch m {
	case MotionLeft:
		return PrevBoundary(text, pos)
	case MotionRight:
		return NextBoundary(text, pos)
	case MotionUp, MotionDown:
		line := text.LineAt(pos)
		n := line.Number - 1
		if m == MotionDown {
			n = line.Number + 1
		}
		if n < 0 {
			return 0
		}
		if n >= text.LineCount() {
			return text.Len()
		}
		target := text.Line(n)
		return snapToBoundary(target, target.From+min(pos-line.From, target.Range().Len()))
	case MotionLineStart:
		return text.LineAt(pos).From
	case MotionLineEnd:
		return text.LineAt(pos).To
	case MotionDocStart:
		return 0
	case MotionDocEnd:
		return text.Len()
	}
	return pos
}

// PrevBoundary returns the start of the grapheme cluster before pos. At the
// start of a line it steps over the line break.
func PrevBoundary(text *buffer.Text, pos buffer.ByteOffset) buffer.ByteOffset {
	pos = text.Clamp(pos)
	line := text.LineAt(pos)
	if pos == line.From {
		return max(pos-1, 0)
	}
	prev := line.From
	off := line.From
	rest := line.Text[:pos-line.From]
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		prev = off
		off += buffer.ByteOffset(len(cluster))
	}
	return prev
}

// NextBoundary returns the end of the grapheme cluster after pos. At the
// end of a line it steps over the line break.
func NextBoundary(text *buffer.Text, pos buffer.ByteOffset) buffer.ByteOffset {
	pos = text.Clamp(pos)
	line := text.LineAt(pos)
	if pos == line.To {
		return min(pos+1, text.Len())
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(line.Text[pos-line.From:], -1)
	return pos + buffer.ByteOffset(len(cluster))
}

// snapToBoundary moves pos back to the start of the cluster containing it.
func snapToBoundary(line buffer.Line, pos buffer.ByteOffset) buffer.ByteOffset {
	off := line.From
	rest := line.Text
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		end := off + buffer.ByteOffset(len(cluster))
		if end > pos {
			return off
		}
		off = end
	}
	return off
}

// Type replaces every selection with s and leaves a cursor after it.
func (e *Engine) Type(s string) ([]Decoration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}

	snap := e.store.Snapshot()
	sels := snap.Selection
	if len(sels) == 0 {
		sels = []buffer.Selection{buffer.Cursor(snap.Text.Len())}
	}
	edits := make([]buffer.Edit, len(sels))
	for i, sel := range sels {
		edits[i] = buffer.NewEdit(sel.Range(), s)
	}
	cs, err := clampedChangeSet(snap.Text, edits)
	if err != nil {
		return e.renderer.Last(), err
	}
	after := make([]buffer.Selection, len(sels))
	for i, sel := range sels {
		after[i] = buffer.Cursor(cs.MapPos(sel.Range().End, buffer.AssocAfter))
	}
	return e.applyLocked(tracking.EditEvent{Changes: cs, Selection: after}, true)
}

// Backspace deletes each selection, or the grapheme before each cursor.
// A cursor next to a token always reveals its source, so deletion works on
// the raw text.
func (e *Engine) Backspace() ([]Decoration, error) {
	return e.deleteBy(func(text *buffer.Text, pos buffer.ByteOffset) buffer.Range {
		return buffer.Range{Start: PrevBoundary(text, pos), End: pos}
	})
}

// DeleteForward deletes each selection, or the grapheme after each cursor.
func (e *Engine) DeleteForward() ([]Decoration, error) {
	return e.deleteBy(func(text *buffer.Text, pos buffer.ByteOffset) buffer.Range {
		return buffer.Range{Start: pos, End: NextBoundary(text, pos)}
	})
}

func (e *Engine) deleteBy(span func(*buffer.Text, buffer.ByteOffset) buffer.Range) ([]Decoration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}

	snap := e.store.Snapshot()
	var ranges []buffer.Range
	for _, sel := range snap.Selection {
		r := sel.Range()
		if r.IsEmpty() {
			r = span(snap.Text, sel.Head)
		}
		if !r.IsEmpty() {
			ranges = append(ranges, r)
		}
	}
	ranges = buffer.MergeRanges(ranges)
	if len(ranges) == 0 {
		return e.renderer.Last(), nil
	}
	edits := make([]buffer.Edit, len(ranges))
	for i, r := range ranges {
		edits[i] = buffer.NewDelete(r.Start, r.End)
	}
	cs, err := clampedChangeSet(snap.Text, edits)
	if err != nil {
		return e.renderer.Last(), err
	}
	after := make([]buffer.Selection, len(snap.Selection))
	for i, sel := range snap.Selection {
		after[i] = buffer.Cursor(cs.MapPos(sel.Head, buffer.AssocBefore))
	}
	return e.applyLocked(tracking.EditEvent{Changes: cs, Selection: after}, true)
}
