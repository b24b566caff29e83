package history

import (
	"errors"
	"testing"

	"github.com/dshills/iconize/internal/engine/buffer"
)

func entryFor(t *testing.T, base string, edits ...buffer.Edit) (Entry, *buffer.Text) {
	t.Helper()
	text := buffer.NewText(base)
	cs, err := buffer.NewChangeSet(text.Len(), edits...)
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewEntry(text, cs, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return e, text
}

func TestUndoRedo(t *testing.T) {
	h := New(10)
	e, base := entryFor(t, "abc", buffer.NewInsert(3, ":home:"))
	h.Push(e)

	text, _ := e.Changes.Apply(base)
	apply := func(cs func(Entry) *buffer.ChangeSet) func(Entry) error {
		return func(e Entry) error {
			next, err := cs(e).Apply(text)
			if err != nil {
				return err
			}
			text = next
			return nil
		}
	}

	if err := h.Undo(apply(func(e Entry) *buffer.ChangeSet { return e.Inverse })); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if text.String() != "abc" {
		t.Errorf("after undo = %q", text.String())
	}
	if h.CanUndo() || !h.CanRedo() {
		t.Error("stacks not updated after undo")
	}

	if err := h.Redo(apply(func(e Entry) *buffer.ChangeSet { return e.Changes })); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if text.String() != "abc:home:" {
		t.Errorf("after redo = %q", text.String())
	}
}

func TestUndoEmpty(t *testing.T) {
	h := New(0)
	if h.MaxEntries() != DefaultMaxEntries {
		t.Errorf("MaxEntries = %d", h.MaxEntries())
	}
	if err := h.Undo(func(Entry) error { return nil }); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v", err)
	}
	if err := h.Redo(func(Entry) error { return nil }); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("err = %v", err)
	}
}

func TestUndoFailureRestoresEntry(t *testing.T) {
	h := New(10)
	e, _ := entryFor(t, "abc", buffer.NewDelete(0, 1))
	h.Push(e)

	boom := errors.New("boom")
	if err := h.Undo(func(Entry) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("counts = %d/%d", h.UndoCount(), h.RedoCount())
	}
}

func TestPushClearsRedoAndTrims(t *testing.T) {
	h := New(2)
	for range 3 {
		e, _ := entryFor(t, "abc", buffer.NewInsert(0, "x"))
		h.Push(e)
	}
	if h.UndoCount() != 2 {
		t.Errorf("UndoCount = %d, want 2", h.UndoCount())
	}

	_ = h.Undo(func(Entry) error { return nil })
	e, _ := entryFor(t, "abc", buffer.NewInsert(0, "y"))
	h.Push(e)
	if h.CanRedo() {
		t.Error("push should clear redo")
	}

	empty, _ := entryFor(t, "abc", buffer.NewInsert(1, ""))
	h.Push(empty)
	if h.UndoCount() != 2 {
		t.Errorf("empty entries should not be recorded, count = %d", h.UndoCount())
	}

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear left entries")
	}
}
