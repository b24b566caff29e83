package buffer

import "fmt"

// Selection is a cursor or a selected region.
// Anchor is where the selection started; Head is where the cursor is.
type Selection struct {
	Anchor ByteOffset
	Head   ByteOffset
}

// Cursor returns an empty selection at offset.
func Cursor(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	return fmt.Sprintf("Selection(%d->%d)", s.Anchor, s.Head)
}

// IsEmpty returns true if the selection is a bare cursor.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Range returns the selection as a normalized range.
func (s Selection) Range() Range {
	return NewRange(s.Anchor, s.Head)
}

// Map translates the selection through a change set. A bare cursor moves
// past text inserted at its position.
func (s Selection) Map(cs *ChangeSet) Selection {
	if s.IsEmpty() {
		return Cursor(cs.MapPos(s.Head, AssocAfter))
	}
	return Selection{
		Anchor: cs.MapPos(s.Anchor, AssocBefore),
		Head:   cs.MapPos(s.Head, AssocAfter),
	}
}

// Clamp limits the selection to a document of the given length.
func (s Selection) Clamp(length ByteOffset) Selection {
	return Selection{Anchor: clamp(s.Anchor, 0, length), Head: clamp(s.Head, 0, length)}
}

// SelectionRanges returns the normalized ranges of all selections.
func SelectionRanges(sels []Selection) []Range {
	ranges := make([]Range, len(sels))
	for i, s := range sels {
		ranges[i] = s.Range()
	}
	return ranges
}

// MapSelections translates every selection through a change set.
func MapSelections(sels []Selection, cs *ChangeSet) []Selection {
	out := make([]Selection, len(sels))
	for i, s := range sels {
		out[i] = s.Map(cs)
	}
	return out
}
