package overlay

import (
	"sort"

	"github.com/dshills/iconize/internal/engine/buffer"
)

// AtomicRanges returns the spans of atomic decorations in order.
func AtomicRanges(decos []Decoration) []buffer.Range {
	var out []buffer.Range
	for _, d := range decos {
		if d.Atomic && d.To > d.From {
			out = append(out, d.Range())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// SnapCursor moves pos out of any atomic decoration it lies strictly
// inside. AssocBefore snaps to the start of the span, anything else to
// its end.
func SnapCursor(pos buffer.ByteOffset, bias buffer.Assoc, decos []Decoration) buffer.ByteOffset {
	for _, d := range decos {
		if !d.Atomic || pos <= d.From || pos >= d.To {
			continue
		}
		if bias == buffer.AssocBefore {
			return d.From
		}
		return d.To
	}
	return pos
}

// SnapSelection applies SnapCursor to both ends of a selection. The head is
// snapped in the direction of travel given by bias; the anchor always snaps
// outward so the selection covers the whole token.
func SnapSelection(sel buffer.Selection, bias buffer.Assoc, decos []Decoration) buffer.Selection {
	if sel.IsEmpty() {
		return buffer.Cursor(SnapCursor(sel.Head, bias, decos))
	}
	anchorBias := buffer.AssocBefore
	if sel.Anchor > sel.Head {
		anchorBias = buffer.AssocAfter
	}
	return buffer.Selection{
		Anchor: SnapCursor(sel.Anchor, anchorBias, decos),
		Head:   SnapCursor(sel.Head, bias, decos),
	}
}
