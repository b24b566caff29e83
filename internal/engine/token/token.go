// Package token locates short-code tokens such as ":home:" or
// ":home:123456789012345678:" in document text and validates them against
// an icon registry.
//
// Scanning is a pure function of the text, the registry and an exclusion
// window. Matches are found left to right without overlap; a match whose id
// does not resolve is consumed and dropped, so it is plain text as far as
// the engine is concerned.
package token

import (
	"fmt"
	"regexp"

	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/icon"
)

// Pattern is the short-code grammar: a colon, 1-64 word characters, an
// optional colon plus 17-18 digit variant suffix, and a closing colon.
var Pattern = regexp.MustCompile(`:(\w{1,64})(?::(\d{17,18}))?:`)

// Occurrence is one validated short-code in a document.
type Occurrence struct {
	// ID is the short-code name without the variant suffix.
	ID string

	// Suffix is the digit run of a variant-suffixed token, if any.
	Suffix string

	// Start and End are absolute byte offsets, [Start, End).
	Start buffer.ByteOffset
	End   buffer.ByteOffset
}

// Range returns the span covered by the token text.
func (o Occurrence) Range() buffer.Range {
	return buffer.Range{Start: o.Start, End: o.End}
}

// String returns a human-readable representation of the occurrence.
func (o Occurrence) String() string {
	if o.Suffix != "" {
		return fmt.Sprintf("%s:%s%s", o.ID, o.Suffix, o.Range())
	}
	return fmt.Sprintf("%s%s", o.ID, o.Range())
}

// Func receives each occurrence. excluded is true when the token touches
// the exclusion window and must not be rendered as a glyph right now.
type Func func(occ Occurrence, excluded bool)

// NoExclusion is an exclusion window that matches nothing.
var NoExclusion []buffer.Range

// Scan reports every valid occurrence in text.
func Scan(text string, exclude []buffer.Range, reg icon.Registry, fn Func) {
	ScanRange(text, buffer.Range{Start: 0, End: buffer.ByteOffset(len(text))}, exclude, reg, fn)
}

// ScanRange reports every valid occurrence inside region. Offsets passed to
// fn are absolute. The region is normalized and clamped to the text; since
// the grammar cannot cross a line break, callers pass whole lines.
func ScanRange(text string, region buffer.Range, exclude []buffer.Range, reg icon.Registry, fn Func) {
	region = buffer.NewRange(region.Start, region.End).Clamp(buffer.ByteOffset(len(text)))
	if region.IsEmpty() || reg == nil {
		return
	}
	base := region.Start
	for _, m := range Pattern.FindAllStringSubmatchIndex(text[region.Start:region.End], -1) {
		id := text[base+buffer.ByteOffset(m[2]) : base+buffer.ByteOffset(m[3])]
		if _, ok := reg.Resolve(id); !ok {
			continue
		}
		occ := Occurrence{
			ID:    id,
			Start: base + buffer.ByteOffset(m[0]),
			End:   base + buffer.ByteOffset(m[1]),
		}
		if m[4] >= 0 {
			occ.Suffix = text[base+buffer.ByteOffset(m[4]) : base+buffer.ByteOffset(m[5])]
		}
		fn(occ, Excluded(occ.Range(), exclude))
	}
}

// Excluded reports whether span touches any exclusion range. Both are
// treated as closed ranges, so a cursor sitting on either edge of a token
// counts as inside it.
func Excluded(span buffer.Range, exclude []buffer.Range) bool {
	for _, r := range exclude {
		if span.Touches(r) {
			return true
		}
	}
	return false
}

// Collect returns all occurrences in text that are not excluded.
func Collect(text string, exclude []buffer.Range, reg icon.Registry) []Occurrence {
	var out []Occurrence
	Scan(text, exclude, reg, func(occ Occurrence, excluded bool) {
		if !excluded {
			out = append(out, occ)
		}
	})
	return out
}
