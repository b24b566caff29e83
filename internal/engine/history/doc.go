// Package history provides undo/redo for a document.
//
// Each Entry records a change set together with its inverse and the
// selection before and after the change:
//
//	h := history.New(1000)
//	h.Push(entry)
//
//	// Undo applies entry.Inverse, redo applies entry.Changes.
//	err := h.Undo(func(e history.Entry) error { ... })
//
// The apply callback runs without the history lock held. If it fails the
// entry is put back where it was.
package history
