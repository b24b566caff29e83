package engine

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/engine/history"
	"github.com/dshills/iconize/internal/engine/tracking"
	"github.com/dshills/iconize/internal/icon"
	"github.com/dshills/iconize/internal/renderer/glyph"
	"github.com/dshills/iconize/internal/renderer/overlay"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the document.
	ByteOffset = buffer.ByteOffset

	// Range represents a byte range in the document.
	Range = buffer.Range

	// Edit represents an edit operation.
	Edit = buffer.Edit

	// Selection represents a cursor or selection.
	Selection = buffer.Selection

	// Interval is a tracked token.
	Interval = tracking.Interval

	// Decoration is a display instruction.
	Decoration = overlay.Decoration
)

// Engine annotates one open document.
// All methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	id       uuid.UUID
	registry icon.Registry
	store    *tracking.Store
	renderer *overlay.Renderer
	history  *history.History
	logger   zerolog.Logger

	mode     overlay.Mode
	visible  []buffer.Range // nil means the whole document
	sizer    glyph.Sizer
	painter  glyph.Painter
	readOnly bool
	closed   bool

	// Construction-time settings
	initSelection  []buffer.Selection
	rendererOpts   []overlay.Option
	maxUndoEntries int
}

// New opens a document: the whole content is scanned once and the first
// decorations are rendered.
func New(content string, reg icon.Registry, opts ...Option) *Engine {
	e := &Engine{
		id:             uuid.New(),
		registry:       reg,
		logger:         zerolog.Nop(),
		sizer:          glyph.DefaultSizer(),
		painter:        glyph.TextPainter{},
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With().Str("doc", e.id.String()).Logger()

	text := buffer.NewText(content)
	e.store = tracking.NewStore(text, reg,
		tracking.WithLogger(e.logger),
		tracking.WithSelection(e.initSelection...),
	)
	e.renderer = overlay.NewRenderer(e.rendererOpts...)
	e.history = history.New(e.maxUndoEntries)
	e.render()

	e.logger.Debug().
		Int64("bytes", text.Len()).
		Int("intervals", e.store.Set().Len()).
		Str("mode", e.mode.String()).
		Msg("document opened")
	return e
}

// ID returns the document id.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Apply runs one host update cycle and returns the new decorations.
// Edit events are recorded for undo. A rejected event leaves the engine
// unchanged and returns the previous decorations with the error.
func (e *Engine) Apply(ev tracking.UpdateEvent) ([]Decoration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	return e.applyLocked(ev, true)
}

func (e *Engine) applyLocked(ev tracking.UpdateEvent, record bool) ([]Decoration, error) {
	if tracking.IsNil(ev) {
		e.logger.Warn().Msg("nil update event rejected")
		return e.renderer.Last(), tracking.ErrNilEvent
	}
	switch v := ev.(type) {
	case tracking.ViewportEvent:
		e.visible = v.Visible
	case *tracking.ViewportEvent:
		e.visible = v.Visible
	case tracking.EditEvent, *tracking.EditEvent:
		if e.readOnly {
			return e.renderer.Last(), ErrReadOnly
		}
	}

	before := e.store.Snapshot()
	after, err := e.store.Apply(ev)
	if err != nil {
		e.logger.Warn().Err(err).Str("event", ev.Kind().String()).Msg("update rejected")
		return e.renderer.Last(), err
	}

	if record && ev.Kind() == tracking.KindEdit {
		cs := editChanges(ev)
		entry, err := history.NewEntry(before.Text, cs, before.Selection, after.Selection)
		if err == nil {
			e.history.Push(entry)
		}
	}
	return e.render(), nil
}

func editChanges(ev tracking.UpdateEvent) *buffer.ChangeSet {
	switch v := ev.(type) {
	case tracking.EditEvent:
		return v.Changes
	case *tracking.EditEvent:
		return v.Changes
	}
	return nil
}

// Edit applies edits to the current text. Ranges are clamped to the
// document; the selection is mapped through the change.
func (e *Engine) Edit(edits ...buffer.Edit) ([]Decoration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	text := e.store.Text()
	cs, err := clampedChangeSet(text, edits)
	if err != nil {
		return e.renderer.Last(), err
	}
	return e.applyLocked(tracking.EditEvent{Changes: cs}, true)
}

func clampedChangeSet(text *buffer.Text, edits []buffer.Edit) (*buffer.ChangeSet, error) {
	clamped := make([]buffer.Edit, len(edits))
	for i, ed := range edits {
		r := buffer.NewRange(ed.Range.Start, ed.Range.End).Clamp(text.Len())
		clamped[i] = buffer.NewEdit(r, ed.NewText)
	}
	return buffer.NewChangeSet(text.Len(), clamped...)
}

// MoveSelection replaces the selection. Offsets are clamped to the document.
func (e *Engine) MoveSelection(sel ...buffer.Selection) ([]Decoration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	return e.applyLocked(tracking.SelectionEvent{
		Old: e.store.Snapshot().Selection,
		New: sel,
	}, false)
}

// SetVisible replaces the visible windows. No ranges means the whole
// document is visible.
func (e *Engine) SetVisible(ranges ...buffer.Range) ([]Decoration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	return e.applyLocked(tracking.ViewportEvent{Visible: ranges}, false)
}

// SetMode switches the display mode and re-renders.
func (e *Engine) SetMode(m overlay.Mode) []Decoration {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = m
	return e.render()
}

// Mode returns the display mode.
func (e *Engine) Mode() overlay.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Refresh rescans the whole document, for use after the registry changed.
func (e *Engine) Refresh() []Decoration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.store.Reset()
	return e.render()
}

// Undo reverts the last recorded edit.
func (e *Engine) Undo() ([]Decoration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	var decos []Decoration
	err := e.history.Undo(func(h history.Entry) error {
		var err error
		decos, err = e.applyLocked(tracking.EditEvent{Changes: h.Inverse, Selection: cloneSelections(h.SelectionBefore)}, false)
		return err
	})
	if err != nil {
		return e.renderer.Last(), err
	}
	return decos, nil
}

// Redo reapplies the last undone edit.
func (e *Engine) Redo() ([]Decoration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	var decos []Decoration
	err := e.history.Redo(func(h history.Entry) error {
		var err error
		decos, err = e.applyLocked(tracking.EditEvent{Changes: h.Changes, Selection: cloneSelections(h.SelectionAfter)}, false)
		return err
	})
	if err != nil {
		return e.renderer.Last(), err
	}
	return decos, nil
}

// Decorations returns the decorations of the last cycle.
func (e *Engine) Decorations() []Decoration {
	return e.renderer.Last()
}

// Intervals returns every tracked token in document order.
func (e *Engine) Intervals() []Interval {
	return e.store.Set().All()
}

// Text returns the current document text.
func (e *Engine) Text() string {
	return e.store.Text().String()
}

// Buffer returns the current document as an immutable Text.
func (e *Engine) Buffer() *buffer.Text {
	return e.store.Text()
}

// Selection returns the current selection.
func (e *Engine) Selection() []Selection {
	return cloneSelections(e.store.Snapshot().Selection)
}

// Revision returns the number of update cycles that changed state.
func (e *Engine) Revision() uint64 {
	return e.store.Snapshot().Revision
}

// ReadOnly reports whether edits are rejected.
func (e *Engine) ReadOnly() bool {
	return e.readOnly
}

// CanUndo reports whether there is an edit to undo.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// GlyphContext returns the collaborators widgets render with.
func (e *Engine) GlyphContext() glyph.Context {
	return glyph.Context{
		Registry: e.registry,
		Sizer:    e.sizer,
		Painter:  e.painter,
		Text:     e.store.Text(),
	}
}

// RenderNode renders the widget of a decoration against the current text.
func (e *Engine) RenderNode(d Decoration) glyph.Node {
	return d.Widget.Render(e.GlyphContext())
}

// Close releases the document. Later calls return ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	e.logger.Debug().Uint64("revision", e.store.Snapshot().Revision).Msg("document closed")
	return nil
}

// render must be called with mu held.
func (e *Engine) render() []Decoration {
	text := e.store.Text()
	windows := e.visible
	if len(windows) == 0 {
		windows = []buffer.Range{{Start: 0, End: text.Len()}}
	}
	clamped := make([]buffer.Range, len(windows))
	for i, w := range windows {
		clamped[i] = buffer.NewRange(w.Start, w.End).Clamp(text.Len())
	}
	decos := e.renderer.Render(e.store.Set(), clamped, e.mode)
	e.logger.Debug().Int("decorations", len(decos)).Int("windows", len(clamped)).Msg("rendered")
	return decos
}

func cloneSelections(sel []buffer.Selection) []buffer.Selection {
	if sel == nil {
		return nil
	}
	out := make([]buffer.Selection, len(sel))
	copy(out, sel)
	return out
}
