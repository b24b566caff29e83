package overlay

import (
	"sync"

	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/engine/tracking"
	"github.com/dshills/iconize/internal/renderer/glyph"
)

// DefaultPadding widens every visible window on both sides so a token cut
// by the window edge is still decorated.
const DefaultPadding buffer.ByteOffset = 1

// Option configures a Renderer.
type Option func(*Renderer)

// WithPadding sets the window padding in bytes.
func WithPadding(n buffer.ByteOffset) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.padding = n
		}
	}
}

// Renderer produces decorations for the visible part of a document.
type Renderer struct {
	mu      sync.RWMutex
	padding buffer.ByteOffset
	last    []Decoration
}

// NewRenderer creates a renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{padding: DefaultPadding}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns one decoration for every interval touching a padded
// visible window, in document order. Intervals seen through several
// windows are emitted once. The result replaces the renderer's last list.
func (r *Renderer) Render(set *tracking.Set, visible []buffer.Range, mode Mode) []Decoration {
	windows := make([]buffer.Range, 0, len(visible))
	for _, v := range visible {
		v = buffer.NewRange(v.Start, v.End)
		windows = append(windows, v.Pad(r.padding))
	}
	windows = buffer.MergeRanges(windows)

	var decos []Decoration
	emitted := buffer.ByteOffset(-1)
	for _, w := range windows {
		set.Between(w.Start, w.End, func(iv tracking.Interval) bool {
			if iv.Start <= emitted {
				return true
			}
			emitted = iv.Start
			decos = append(decos, decorate(iv, mode))
			return true
		})
	}

	r.mu.Lock()
	r.last = decos
	r.mu.Unlock()
	return decos
}

// Last returns the list produced by the most recent Render call.
func (r *Renderer) Last() []Decoration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Decoration, len(r.last))
	copy(out, r.last)
	return out
}

// Padding returns the window padding.
func (r *Renderer) Padding() buffer.ByteOffset {
	return r.padding
}

func decorate(iv tracking.Interval, mode Mode) Decoration {
	w := glyph.Widget{ID: iv.ID, End: iv.End}
	if mode == ModeSource {
		return Decoration{Kind: KindWidget, From: iv.End, To: iv.End, Side: 1, Widget: w}
	}
	return Decoration{Kind: KindReplace, From: iv.Start, To: iv.End, Atomic: true, Widget: w}
}
