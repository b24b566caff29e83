// Package overlay turns tracked token intervals into display decorations.
//
// The renderer is stateless apart from the last list it produced: every
// pass derives decorations from scratch for the visible windows.
package overlay

import (
	"fmt"
	"strings"

	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/renderer/glyph"
)

// Mode selects how tokens are displayed.
type Mode uint8

const (
	// ModeLive hides the token text and shows the glyph in its place.
	ModeLive Mode = iota

	// ModeSource keeps the token text and shows the glyph after it.
	ModeSource
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeSource:
		return "source"
	default:
		return "unknown"
	}
}

// ParseMode parses "live" or "source".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live", "":
		return ModeLive, nil
	case "source":
		return ModeSource, nil
	default:
		return ModeLive, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Kind is the shape of a decoration.
type Kind uint8

const (
	// KindReplace hides [From, To) and draws the widget instead.
	KindReplace Kind = iota

	// KindWidget draws the widget at a single position without hiding text.
	KindWidget
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindReplace:
		return "replace"
	case KindWidget:
		return "widget"
	default:
		return "unknown"
	}
}

// Decoration is one display instruction for the host.
type Decoration struct {
	Kind Kind
	From buffer.ByteOffset
	To   buffer.ByteOffset

	// Atomic decorations cannot hold the cursor strictly inside them.
	Atomic bool

	// Side orders a point widget relative to the text at its position:
	// positive draws it after, negative before.
	Side int

	Widget glyph.Widget
}

// Range returns the decorated span.
func (d Decoration) Range() buffer.Range {
	return buffer.Range{Start: d.From, End: d.To}
}

// String returns a human-readable representation of the decoration.
func (d Decoration) String() string {
	if d.Kind == KindWidget {
		return fmt.Sprintf("widget(%s@%d side=%d)", d.Widget.ID, d.From, d.Side)
	}
	return fmt.Sprintf("replace(%s[%d:%d) atomic=%t)", d.Widget.ID, d.From, d.To, d.Atomic)
}
