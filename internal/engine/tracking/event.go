package tracking

import (
	"fmt"

	"github.com/dshills/iconize/internal/engine/buffer"
)

// EventKind identifies the variant of an UpdateEvent.
type EventKind uint8

const (
	KindEdit EventKind = iota
	KindSelection
	KindViewport
)

// String returns a human-readable representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case KindEdit:
		return "edit"
	case KindSelection:
		return "selection"
	case KindViewport:
		return "viewport"
	default:
		return "unknown"
	}
}

// UpdateEvent is one host update cycle. It is implemented by EditEvent,
// SelectionEvent and ViewportEvent only.
type UpdateEvent interface {
	Kind() EventKind
	isUpdateEvent()
}

// IsNil reports whether ev is nil or a nil pointer to one of the event
// types.
func IsNil(ev UpdateEvent) bool {
	switch e := ev.(type) {
	case nil:
		return true
	case *EditEvent:
		return e == nil
	case *SelectionEvent:
		return e == nil
	case *ViewportEvent:
		return e == nil
	}
	return false
}

// EditEvent reports a text change.
type EditEvent struct {
	// Changes transforms the previous text into the new one.
	Changes *buffer.ChangeSet

	// Selection is the selection after the edit, in new text coordinates.
	// Tokens touching it are left unrendered.
	Selection []buffer.Selection
}

// Kind implements UpdateEvent.
func (EditEvent) Kind() EventKind { return KindEdit }

func (EditEvent) isUpdateEvent() {}

// String returns a human-readable representation of the event.
func (e EditEvent) String() string {
	if e.Changes == nil {
		return "Edit()"
	}
	return fmt.Sprintf("Edit(%d changes)", len(e.Changes.Edits()))
}

// SelectionEvent reports a cursor or selection move without a text change.
type SelectionEvent struct {
	Old []buffer.Selection
	New []buffer.Selection
}

// Kind implements UpdateEvent.
func (SelectionEvent) Kind() EventKind { return KindSelection }

func (SelectionEvent) isUpdateEvent() {}

// ViewportEvent reports a change of the visible region.
type ViewportEvent struct {
	Visible []buffer.Range
}

// Kind implements UpdateEvent.
func (ViewportEvent) Kind() EventKind { return KindViewport }

func (ViewportEvent) isUpdateEvent() {}
