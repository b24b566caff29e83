package tracking

import (
	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/engine/token"
	"github.com/dshills/iconize/internal/icon"
)

// Initialize scans the whole text once, without exclusions.
func Initialize(text *buffer.Text, reg icon.Registry) *Set {
	var items []Interval
	token.Scan(text.String(), token.NoExclusion, reg, func(occ token.Occurrence, _ bool) {
		items = append(items, Interval{Start: occ.Start, End: occ.End, ID: occ.ID})
	})
	return NewSet(items...)
}

// ApplyEdit updates set for an edit. text is the document after the edit.
// Existing intervals are mapped through the change set; every line touched
// by the edit is then rescanned with the post-edit selection as exclusion
// window.
func ApplyEdit(set *Set, text *buffer.Text, ev EditEvent, reg icon.Registry) *Set {
	if ev.Changes.IsEmpty() {
		return set
	}
	set = set.Map(ev.Changes)
	return Rescan(set, text, ev.Changes.ChangedRanges(), buffer.SelectionRanges(ev.Selection), reg)
}

// ApplySelectionMove updates set for a selection change. The lines holding
// the old selection are rescanned so tokens the cursor left collapse again,
// and the lines holding the new selection so tokens it entered are revealed.
func ApplySelectionMove(set *Set, text *buffer.Text, ev SelectionEvent, reg icon.Registry) *Set {
	regions := make([]buffer.Range, 0, len(ev.Old)+len(ev.New))
	for _, s := range ev.Old {
		regions = append(regions, s.Clamp(text.Len()).Range())
	}
	for _, s := range ev.New {
		regions = append(regions, s.Clamp(text.Len()).Range())
	}
	return Rescan(set, text, regions, buffer.SelectionRanges(ev.New), reg)
}

// Apply dispatches an update event. text must be the document after the
// event; viewport changes and nil events leave the set untouched.
func Apply(set *Set, text *buffer.Text, ev UpdateEvent, reg icon.Registry) *Set {
	if IsNil(ev) {
		return set
	}
	switch e := ev.(type) {
	case EditEvent:
		return ApplyEdit(set, text, e, reg)
	case *EditEvent:
		return ApplyEdit(set, text, *e, reg)
	case SelectionEvent:
		return ApplySelectionMove(set, text, e, reg)
	case *SelectionEvent:
		return ApplySelectionMove(set, text, *e, reg)
	default:
		return set
	}
}

// Rescan expands regions to whole lines, drops every interval on those
// lines, and adds back the tokens found there that do not touch exclude.
// Lines outside regions are not looked at.
func Rescan(set *Set, text *buffer.Text, regions, exclude []buffer.Range, reg icon.Registry) *Set {
	if len(regions) == 0 {
		return set
	}
	lines := make([]buffer.Range, len(regions))
	for i, r := range regions {
		lines[i] = text.LineRange(r.Clamp(text.Len()))
	}
	lines = buffer.MergeRanges(lines)

	var add []Interval
	src := text.String()
	for _, line := range lines {
		token.ScanRange(src, line, exclude, reg, func(occ token.Occurrence, excluded bool) {
			if !excluded {
				add = append(add, Interval{Start: occ.Start, End: occ.End, ID: occ.ID})
			}
		})
	}
	set = set.Update(lines, add)
	return repair(set, text, exclude, reg)
}

// repair rebuilds the lines around any overlapping intervals. It only does
// work if an earlier step produced an inconsistent set.
func repair(set *Set, text *buffer.Text, exclude []buffer.Range, reg icon.Registry) *Set {
	conflicts := set.Conflicts()
	if len(conflicts) == 0 {
		return set
	}
	lines := make([]buffer.Range, len(conflicts))
	for i, r := range conflicts {
		lines[i] = text.LineRange(r.Clamp(text.Len()))
	}
	lines = buffer.MergeRanges(lines)

	kept := make([]Interval, 0, set.Len())
	for _, iv := range set.items {
		if !touchesAny(iv.Range(), lines) {
			kept = append(kept, iv)
		}
	}
	src := text.String()
	for _, line := range lines {
		token.ScanRange(src, line, exclude, reg, func(occ token.Occurrence, excluded bool) {
			if !excluded {
				kept = append(kept, Interval{Start: occ.Start, End: occ.End, ID: occ.ID})
			}
		})
	}
	return NewSet(kept...)
}
