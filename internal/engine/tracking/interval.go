package tracking

import (
	"fmt"

	"github.com/dshills/iconize/internal/engine/buffer"
)

// Interval is the stored record of one token occurrence.
type Interval struct {
	Start buffer.ByteOffset // Inclusive start of the token text
	End   buffer.ByteOffset // Exclusive end of the token text
	ID    string            // Resolved icon id
}

// Range returns the span of the interval.
func (iv Interval) Range() buffer.Range {
	return buffer.Range{Start: iv.Start, End: iv.End}
}

// Eq compares payloads. Position is carried by the set, not the payload,
// so two intervals with the same id are equal wherever they sit.
func (iv Interval) Eq(other Interval) bool {
	return iv.ID == other.ID
}

// Overlaps reports whether two intervals share at least one byte.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// String returns a human-readable representation of the interval.
func (iv Interval) String() string {
	return fmt.Sprintf("%s[%d:%d)", iv.ID, iv.Start, iv.End)
}
