package engine

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/renderer/glyph"
	"github.com/dshills/iconize/internal/renderer/overlay"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = 1000
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithID sets the document id. A random id is used otherwise.
func WithID(id uuid.UUID) Option {
	return func(e *Engine) {
		e.id = id
	}
}

// WithLogger sets the logger for update cycles.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMode sets the initial display mode.
func WithMode(m overlay.Mode) Option {
	return func(e *Engine) {
		e.mode = m
	}
}

// WithSelection sets the initial selection.
func WithSelection(sel ...buffer.Selection) Option {
	return func(e *Engine) {
		e.initSelection = sel
	}
}

// WithVisible sets the initial visible windows. The whole document is
// visible otherwise.
func WithVisible(ranges ...buffer.Range) Option {
	return func(e *Engine) {
		e.visible = ranges
	}
}

// WithPadding sets the padding applied to visible windows.
func WithPadding(n buffer.ByteOffset) Option {
	return func(e *Engine) {
		e.rendererOpts = append(e.rendererOpts, overlay.WithPadding(n))
	}
}

// WithSizer sets the glyph sizing policy.
func WithSizer(s glyph.Sizer) Option {
	return func(e *Engine) {
		e.sizer = s
	}
}

// WithPainter sets the glyph painter.
func WithPainter(p glyph.Painter) Option {
	return func(e *Engine) {
		e.painter = p
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxUndoEntries = n
		}
	}
}

// WithReadOnly rejects edits.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
