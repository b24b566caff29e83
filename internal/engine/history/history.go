package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/iconize/internal/engine/buffer"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is used when New is given a non-positive limit.
const DefaultMaxEntries = 1000

// Entry is one undoable change.
type Entry struct {
	// Changes turns the text before into the text after.
	Changes *buffer.ChangeSet

	// Inverse turns the text after back into the text before.
	Inverse *buffer.ChangeSet

	SelectionBefore []buffer.Selection
	SelectionAfter  []buffer.Selection

	Timestamp time.Time
}

// NewEntry builds an entry for cs applied to base.
func NewEntry(base *buffer.Text, cs *buffer.ChangeSet, before, after []buffer.Selection) (Entry, error) {
	inv, err := cs.Invert(base)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Changes:         cs,
		Inverse:         inv,
		SelectionBefore: before,
		SelectionAfter:  after,
		Timestamp:       time.Now(),
	}, nil
}

// History manages undo/redo state for a document.
type History struct {
	mu sync.Mutex

	undoStack []Entry
	redoStack []Entry

	maxEntries int
}

// New creates a history keeping at most maxEntries undo steps.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push adds an entry to the undo stack and clears the redo stack.
func (h *History) Push(e Entry) {
	if e.Changes.IsEmpty() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil
	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo pops the last entry and passes it to apply, which must apply
// e.Inverse. On success the entry moves to the redo stack.
func (h *History) Undo(apply func(Entry) error) error {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if err := apply(e); err != nil {
		h.mu.Lock()
		h.undoStack = append(h.undoStack, e)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, e)
	h.mu.Unlock()
	return nil
}

// Redo pops the last undone entry and passes it to apply, which must apply
// e.Changes. On success the entry moves back to the undo stack.
func (h *History) Redo(apply func(Entry) error) error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if err := apply(e); err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, e)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, e)
	h.mu.Unlock()
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
