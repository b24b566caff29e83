package glyph

import "fmt"

// Size is a display size in pixels.
type Size float64

// String returns the size formatted as a CSS length.
func (s Size) String() string {
	return fmt.Sprintf("%gpx", float64(s))
}

// Sizer computes glyph sizes.
type Sizer interface {
	// DefaultSize is the size of a glyph in body text.
	DefaultSize() Size

	// HeadingSize is the size of a glyph on a heading line, level 1 to 6.
	HeadingSize(level int) Size
}

// DefaultHeadingScales are the font-size multipliers browsers apply to h1..h6.
var DefaultHeadingScales = [6]float64{2, 1.5, 1.17, 1, 0.83, 0.67}

// ScaleSizer sizes glyphs relative to a base font size.
type ScaleSizer struct {
	Base   Size
	Scales [6]float64
}

// DefaultSizer returns a ScaleSizer with a 16px base and browser heading
// scales.
func DefaultSizer() ScaleSizer {
	return ScaleSizer{Base: 16, Scales: DefaultHeadingScales}
}

// NewScaleSizer creates a sizer from a base size and a heading scale table.
func NewScaleSizer(base Size, scales []float64) (ScaleSizer, error) {
	if base <= 0 {
		return ScaleSizer{}, fmt.Errorf("glyph: base size must be positive, got %g", float64(base))
	}
	if len(scales) != len(DefaultHeadingScales) {
		return ScaleSizer{}, fmt.Errorf("glyph: need %d heading scales, got %d", len(DefaultHeadingScales), len(scales))
	}
	s := ScaleSizer{Base: base}
	for i, v := range scales {
		if v <= 0 {
			return ScaleSizer{}, fmt.Errorf("glyph: heading scale %d must be positive, got %g", i+1, v)
		}
		s.Scales[i] = v
	}
	return s, nil
}

// DefaultSize implements Sizer.
func (s ScaleSizer) DefaultSize() Size {
	return s.Base
}

// HeadingSize implements Sizer. Levels outside 1..6 get the default size.
func (s ScaleSizer) HeadingSize(level int) Size {
	if level < 1 || level > len(s.Scales) {
		return s.Base
	}
	return Size(float64(s.Base) * s.Scales[level-1])
}
