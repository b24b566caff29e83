package tracking

import (
	"sort"
	"strings"

	"github.com/dshills/iconize/internal/engine/buffer"
)

// Set is an immutable collection of intervals ordered by Start.
// Intervals in a Set never overlap.
type Set struct {
	items []Interval
}

var emptySet = &Set{}

// Empty returns the empty set.
func Empty() *Set {
	return emptySet
}

// NewSet builds a set from intervals in any order. Empty or inverted
// intervals are dropped, and an interval overlapping one already kept is
// dropped too.
func NewSet(items ...Interval) *Set {
	if len(items) == 0 {
		return emptySet
	}
	sorted := make([]Interval, 0, len(items))
	for _, iv := range items {
		if iv.End > iv.Start {
			sorted = append(sorted, iv)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})
	kept := sorted[:0]
	for _, iv := range sorted {
		if n := len(kept); n > 0 && kept[n-1].Overlaps(iv) {
			continue
		}
		kept = append(kept, iv)
	}
	return &Set{items: kept}
}

// Len returns the number of intervals.
func (s *Set) Len() int {
	return len(s.items)
}

// At returns the i-th interval in order.
func (s *Set) At(i int) Interval {
	return s.items[i]
}

// All returns a copy of every interval in order.
func (s *Set) All() []Interval {
	out := make([]Interval, len(s.items))
	copy(out, s.items)
	return out
}

// Between calls fn for every interval touching the closed range [from, to],
// in order, until fn returns false.
func (s *Set) Between(from, to buffer.ByteOffset, fn func(Interval) bool) {
	// Intervals do not overlap, so End is sorted as well as Start.
	i := sort.Search(len(s.items), func(i int) bool {
		return s.items[i].End >= from
	})
	for ; i < len(s.items) && s.items[i].Start <= to; i++ {
		if !fn(s.items[i]) {
			return
		}
	}
}

// Map translates every interval through a change set. Intervals keep their
// id without being revalidated; text inserted at either edge stays outside
// the interval, and intervals whose text was deleted entirely are dropped.
func (s *Set) Map(cs *buffer.ChangeSet) *Set {
	if cs.IsEmpty() || len(s.items) == 0 {
		return s
	}
	items := make([]Interval, 0, len(s.items))
	for _, iv := range s.items {
		r, ok := cs.MapRange(iv.Range())
		if !ok {
			continue
		}
		items = append(items, Interval{Start: r.Start, End: r.End, ID: iv.ID})
	}
	return &Set{items: items}
}

// Update returns a new set without the intervals touching any drop range
// and with add inserted. An added interval replaces any existing interval
// it overlaps, so re-adding an identical interval leaves the set unchanged.
func (s *Set) Update(drop []buffer.Range, add []Interval) *Set {
	if len(drop) == 0 && len(add) == 0 {
		return s
	}
	adds := NewSet(add...).items

	kept := make([]Interval, 0, len(s.items)+len(adds))
	for _, iv := range s.items {
		if touchesAny(iv.Range(), drop) || overlapsAny(iv, adds) {
			continue
		}
		kept = append(kept, iv)
	}

	merged := make([]Interval, 0, len(kept)+len(adds))
	i, j := 0, 0
	for i < len(kept) || j < len(adds) {
		if j == len(adds) || (i < len(kept) && kept[i].Start < adds[j].Start) {
			merged = append(merged, kept[i])
			i++
			continue
		}
		merged = append(merged, adds[j])
		j++
	}
	return &Set{items: merged}
}

// Equal reports whether both sets hold the same (start, end, id) triples.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := range s.items {
		if s.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// Conflicts returns the span of every pair of neighbouring intervals that
// overlap or are out of order. A well-formed set has none.
func (s *Set) Conflicts() []buffer.Range {
	var out []buffer.Range
	for i := 1; i < len(s.items); i++ {
		prev, cur := s.items[i-1], s.items[i]
		if cur.Start < prev.End || cur.End <= cur.Start {
			out = append(out, prev.Range().Union(cur.Range()))
		}
	}
	return out
}

// String returns a human-readable representation of the set.
func (s *Set) String() string {
	parts := make([]string, len(s.items))
	for i, iv := range s.items {
		parts[i] = iv.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func touchesAny(r buffer.Range, ranges []buffer.Range) bool {
	for _, other := range ranges {
		if r.Touches(other) {
			return true
		}
	}
	return false
}

func overlapsAny(iv Interval, ivs []Interval) bool {
	i := sort.Search(len(ivs), func(i int) bool {
		return ivs[i].End > iv.Start
	})
	return i < len(ivs) && ivs[i].Start < iv.End
}
