package tracking

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/icon"
)

var (
	// ErrNilChanges indicates an EditEvent without a change set.
	ErrNilChanges = errors.New("edit event without changes")

	// ErrNilEvent indicates a nil update event.
	ErrNilEvent = errors.New("nil update event")
)

// Snapshot is the settled state of a document after an update cycle.
// Snapshots are immutable.
type Snapshot struct {
	Text      *buffer.Text
	Set       *Set
	Selection []buffer.Selection
	Revision  uint64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger for update cycles.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// WithSelection sets the initial selection.
func WithSelection(sel ...buffer.Selection) StoreOption {
	return func(s *Store) {
		s.initialSelection = sel
	}
}

// Store owns the interval set of one open document. Updates are applied
// one at a time; readers always see a fully settled Snapshot.
type Store struct {
	mu       sync.Mutex // serializes writers
	current  atomic.Pointer[Snapshot]
	registry icon.Registry
	logger   zerolog.Logger

	initialSelection []buffer.Selection
}

// NewStore creates a store for text and runs the initial full scan.
func NewStore(text *buffer.Text, reg icon.Registry, opts ...StoreOption) *Store {
	s := &Store{
		registry: reg,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	set := Initialize(text, reg)
	sel := make([]buffer.Selection, len(s.initialSelection))
	for i, c := range s.initialSelection {
		sel[i] = c.Clamp(text.Len())
	}
	if len(sel) > 0 {
		// Tokens under the initial cursor start out revealed.
		set = Rescan(set, text, buffer.SelectionRanges(sel), buffer.SelectionRanges(sel), reg)
	}
	s.current.Store(&Snapshot{Text: text, Set: set, Selection: sel})
	s.logger.Debug().Int("intervals", set.Len()).Int64("bytes", text.Len()).Msg("initial scan")
	return s
}

// Snapshot returns the current settled state.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Set returns the current interval set.
func (s *Store) Set() *Set {
	return s.current.Load().Set
}

// Text returns the current document text.
func (s *Store) Text() *buffer.Text {
	return s.current.Load().Text
}

// Apply runs one update cycle and publishes the resulting snapshot.
// SelectionEvent.Old defaults to the stored selection when empty, and an
// EditEvent without a selection maps the stored one through the changes.
// On error the current snapshot is kept.
func (s *Store) Apply(ev UpdateEvent) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if IsNil(ev) {
		return cur, ErrNilEvent
	}
	next := &Snapshot{Text: cur.Text, Set: cur.Set, Selection: cur.Selection, Revision: cur.Revision}

	switch e := ev.(type) {
	case EditEvent:
		if err := s.applyEdit(cur, next, e); err != nil {
			return cur, err
		}
	case *EditEvent:
		if err := s.applyEdit(cur, next, *e); err != nil {
			return cur, err
		}
	case SelectionEvent:
		s.applySelection(cur, next, e)
	case *SelectionEvent:
		s.applySelection(cur, next, *e)
	case ViewportEvent, *ViewportEvent:
		return cur, nil
	default:
		return cur, fmt.Errorf("unsupported update event %T", ev)
	}

	next.Revision = cur.Revision + 1
	s.current.Store(next)
	s.logger.Debug().
		Str("event", ev.Kind().String()).
		Uint64("revision", next.Revision).
		Int("intervals", next.Set.Len()).
		Msg("update applied")
	return next, nil
}

func (s *Store) applyEdit(cur, next *Snapshot, e EditEvent) error {
	if e.Changes == nil {
		return ErrNilChanges
	}
	text, err := e.Changes.Apply(cur.Text)
	if err != nil {
		return err
	}
	mapped := buffer.MapSelections(cur.Selection, e.Changes)
	if e.Selection == nil {
		e.Selection = mapped
	}
	sel := make([]buffer.Selection, len(e.Selection))
	for i, c := range e.Selection {
		sel[i] = c.Clamp(text.Len())
	}
	e.Selection = sel

	set := ApplyEdit(cur.Set, text, e, s.registry)
	if !sameSelections(mapped, sel) {
		// The host moved the selection as part of the edit: tokens under
		// the old selection collapse again.
		regions := append(buffer.SelectionRanges(mapped), buffer.SelectionRanges(sel)...)
		set = Rescan(set, text, regions, buffer.SelectionRanges(sel), s.registry)
	}
	next.Text = text
	next.Selection = sel
	next.Set = set
	return nil
}

func sameSelections(a, b []buffer.Selection) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *Store) applySelection(cur, next *Snapshot, e SelectionEvent) {
	if len(e.Old) == 0 {
		e.Old = cur.Selection
	}
	sel := make([]buffer.Selection, len(e.New))
	for i, c := range e.New {
		sel[i] = c.Clamp(cur.Text.Len())
	}
	e.New = sel
	next.Selection = sel
	next.Set = ApplySelectionMove(cur.Set, cur.Text, e, s.registry)
}

// Reset rescans the whole document against the registry and publishes the
// result. Hosts call it after the registry changed, since ids that were
// added cannot be discovered by line-level rescans alone.
func (s *Store) Reset() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	set := Initialize(cur.Text, s.registry)
	if len(cur.Selection) > 0 {
		exclude := buffer.SelectionRanges(cur.Selection)
		set = Rescan(set, cur.Text, exclude, exclude, s.registry)
	}
	next := &Snapshot{Text: cur.Text, Set: set, Selection: cur.Selection, Revision: cur.Revision + 1}
	s.current.Store(next)
	s.logger.Debug().Int("intervals", set.Len()).Uint64("revision", next.Revision).Msg("full rescan")
	return next
}
