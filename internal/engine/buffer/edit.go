package buffer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors returned by edit operations.
var (
	ErrRangeInvalid   = errors.New("invalid range")
	ErrEditsOverlap   = errors.New("edits overlap")
	ErrLengthMismatch = errors.New("change set does not apply to a text of this length")
)

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewEdit creates a new Edit.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end ByteOffset) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Delta returns the change in document length caused by this edit.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// ChangeSet is an ordered group of non-overlapping edits that all apply to
// the same base text. All ranges are expressed in base text coordinates.
// A ChangeSet is immutable once created.
type ChangeSet struct {
	edits   []Edit
	baseLen ByteOffset
}

// NewChangeSet validates and sorts edits against a base text of baseLen bytes.
// No-op edits are discarded.
func NewChangeSet(baseLen ByteOffset, edits ...Edit) (*ChangeSet, error) {
	kept := make([]Edit, 0, len(edits))
	for _, e := range edits {
		if e.Range.Start < 0 || !e.Range.IsValid() || e.Range.End > baseLen {
			return nil, fmt.Errorf("%w: %s against length %d", ErrRangeInvalid, e.Range, baseLen)
		}
		if e.IsNoOp() {
			continue
		}
		kept = append(kept, e)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i].Range, kept[j].Range
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.IsEmpty() && !b.IsEmpty()
	})
	for i := 1; i < len(kept); i++ {
		prev, cur := kept[i-1].Range, kept[i].Range
		if cur.Start < prev.End || (cur.Start == prev.Start && cur.IsEmpty() == prev.IsEmpty()) {
			return nil, fmt.Errorf("%w: %s and %s", ErrEditsOverlap, prev, cur)
		}
	}
	return &ChangeSet{edits: kept, baseLen: baseLen}, nil
}

// Edits returns a copy of the edits in ascending order.
func (cs *ChangeSet) Edits() []Edit {
	out := make([]Edit, len(cs.edits))
	copy(out, cs.edits)
	return out
}

// IsEmpty returns true if the change set changes nothing.
func (cs *ChangeSet) IsEmpty() bool {
	return cs == nil || len(cs.edits) == 0
}

// BaseLen returns the length of the text the change set applies to.
func (cs *ChangeSet) BaseLen() ByteOffset {
	return cs.baseLen
}

// NewLen returns the length of the text after the change set is applied.
func (cs *ChangeSet) NewLen() ByteOffset {
	n := cs.baseLen
	for _, e := range cs.edits {
		n += e.Delta()
	}
	return n
}

// Apply returns a new Text with all edits applied.
func (cs *ChangeSet) Apply(t *Text) (*Text, error) {
	if t.Len() != cs.baseLen {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrLengthMismatch, cs.baseLen, t.Len())
	}
	if cs.IsEmpty() {
		return t, nil
	}

	var sb strings.Builder
	sb.Grow(int(cs.NewLen()))
	var pos ByteOffset
	for _, e := range cs.edits {
		sb.WriteString(t.s[pos:e.Range.Start])
		sb.WriteString(e.NewText)
		pos = e.Range.End
	}
	sb.WriteString(t.s[pos:])
	return NewText(sb.String()), nil
}

// MapPos translates a base text offset to the corresponding offset in the
// changed text. Positions strictly inside a replaced range collapse to one
// edge of the replacement, chosen by assoc. A position exactly at an
// insertion point stays before the inserted text for AssocBefore and moves
// after it otherwise. The result is clamped to the changed text.
func (cs *ChangeSet) MapPos(pos ByteOffset, assoc Assoc) ByteOffset {
	if cs == nil {
		return pos
	}
	var delta ByteOffset
	for _, e := range cs.edits {
		start, end := e.Range.Start, e.Range.End
		inserted := ByteOffset(len(e.NewText))
		if pos < start {
			break
		}
		if pos == start {
			if start != end || assoc < 0 {
				break
			}
			delta += inserted
			continue
		}
		if pos >= end {
			delta += e.Delta()
			continue
		}
		if assoc < 0 {
			return clamp(start+delta, 0, cs.NewLen())
		}
		return clamp(start+delta+inserted, 0, cs.NewLen())
	}
	return clamp(pos+delta, 0, cs.NewLen())
}

// MapRange maps a range so that insertions at either edge stay outside it.
// The second result is false when the range collapsed to nothing.
func (cs *ChangeSet) MapRange(r Range) (Range, bool) {
	start := cs.MapPos(r.Start, AssocAfter)
	end := cs.MapPos(r.End, AssocBefore)
	if end <= start {
		return Range{Start: start, End: start}, false
	}
	return Range{Start: start, End: end}, true
}

// ChangedRanges returns the regions of the changed text that were written
// by the edits, in ascending order. Deletions show up as empty ranges.
// Adjacent regions are merged.
func (cs *ChangeSet) ChangedRanges() []Range {
	if cs.IsEmpty() {
		return nil
	}
	ranges := make([]Range, 0, len(cs.edits))
	var delta ByteOffset
	for _, e := range cs.edits {
		from := e.Range.Start + delta
		ranges = append(ranges, Range{Start: from, End: from + ByteOffset(len(e.NewText))})
		delta += e.Delta()
	}
	return MergeRanges(ranges)
}

// Invert returns the change set that turns the changed text back into base.
// base must be the text cs applies to.
func (cs *ChangeSet) Invert(base *Text) (*ChangeSet, error) {
	if base.Len() != cs.baseLen {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrLengthMismatch, cs.baseLen, base.Len())
	}
	inv := make([]Edit, 0, len(cs.edits))
	var delta ByteOffset
	for _, e := range cs.edits {
		from := e.Range.Start + delta
		inv = append(inv, Edit{
			Range:   Range{Start: from, End: from + ByteOffset(len(e.NewText))},
			NewText: base.Slice(e.Range.Start, e.Range.End),
		})
		delta += e.Delta()
	}
	return NewChangeSet(cs.NewLen(), inv...)
}
