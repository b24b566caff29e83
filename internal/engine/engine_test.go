package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/engine/tracking"
	"github.com/dshills/iconize/internal/icon"
	"github.com/dshills/iconize/internal/renderer/glyph"
	"github.com/dshills/iconize/internal/renderer/overlay"
)

const sample = ":home: and :star:"

func builtin() *icon.MapRegistry {
	return icon.NewMapRegistry(icon.Builtin()...)
}

func decoString(decos []Decoration) string {
	parts := make([]string, len(decos))
	for i, d := range decos {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

func TestNewRendersWholeDocument(t *testing.T) {
	e := New(sample, builtin())
	got := decoString(e.Decorations())
	want := "replace(home[0:6) atomic=true) replace(star[11:17) atomic=true)"
	if got != want {
		t.Errorf("Decorations() = %q, want %q", got, want)
	}
	if e.Revision() != 0 {
		t.Errorf("Revision() = %d, want 0", e.Revision())
	}
}

func TestNewExcludesInitialSelection(t *testing.T) {
	e := New(sample, builtin(), WithSelection(buffer.Cursor(3)))
	got := e.Intervals()
	if len(got) != 1 || got[0].ID != "star" {
		t.Errorf("Intervals() = %v, want only star", got)
	}
}

func TestSourceMode(t *testing.T) {
	e := New(sample, builtin(), WithMode(overlay.ModeSource))
	got := decoString(e.Decorations())
	want := "widget(home@6 side=1) widget(star@17 side=1)"
	if got != want {
		t.Errorf("Decorations() = %q, want %q", got, want)
	}

	decos := e.SetMode(overlay.ModeLive)
	if len(decos) != 2 || decos[0].Kind != overlay.KindReplace {
		t.Errorf("SetMode(live) = %s", decoString(decos))
	}
	if e.Mode() != overlay.ModeLive {
		t.Errorf("Mode() = %v, want live", e.Mode())
	}
}

func TestVisibleWindowLimitsDecorations(t *testing.T) {
	e := New(sample, builtin(), WithVisible(buffer.Range{Start: 0, End: 3}))
	if got := decoString(e.Decorations()); got != "replace(home[0:6) atomic=true)" {
		t.Errorf("Decorations() = %q", got)
	}

	decos, err := e.SetVisible(buffer.Range{Start: 12, End: 14})
	if err != nil {
		t.Fatalf("SetVisible: %v", err)
	}
	if got := decoString(decos); got != "replace(star[11:17) atomic=true)" {
		t.Errorf("SetVisible() = %q", got)
	}
	// Tracking is not limited by the viewport.
	if n := len(e.Intervals()); n != 2 {
		t.Errorf("Intervals() has %d entries, want 2", n)
	}
}

func TestTypeCompletesToken(t *testing.T) {
	e := New("x :sta", builtin(), WithSelection(buffer.Cursor(6)))

	if _, err := e.Type("r:"); err != nil {
		t.Fatalf("Type: %v", err)
	}
	if e.Text() != "x :star:" {
		t.Fatalf("Text() = %q", e.Text())
	}
	if sel := e.Selection(); len(sel) != 1 || sel[0] != buffer.Cursor(8) {
		t.Fatalf("Selection() = %v, want cursor at 8", sel)
	}
	// The cursor still touches the new token.
	if n := len(e.Intervals()); n != 0 {
		t.Errorf("Intervals() = %v, want none while the cursor touches", e.Intervals())
	}

	decos, err := e.Move(MotionDocStart, false)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got := decoString(decos); got != "replace(star[2:8) atomic=true)" {
		t.Errorf("after Move = %q", got)
	}
}

func TestTypeReplacesSelection(t *testing.T) {
	e := New("hello :home:", builtin(), WithSelection(buffer.Selection{Anchor: 0, Head: 5}))
	if _, err := e.Type("bye"); err != nil {
		t.Fatalf("Type: %v", err)
	}
	if e.Text() != "bye :home:" {
		t.Errorf("Text() = %q", e.Text())
	}
	got := e.Intervals()
	if len(got) != 1 || got[0].Start != 4 || got[0].End != 10 {
		t.Errorf("Intervals() = %v, want home[4:10)", got)
	}
}

func TestBackspaceBreaksToken(t *testing.T) {
	e := New(":home: x", builtin(), WithSelection(buffer.Cursor(8)))
	if n := len(e.Intervals()); n != 1 {
		t.Fatalf("Intervals() has %d entries, want 1", n)
	}

	if _, err := e.Move(MotionLeft, false); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Move(MotionLeft, false); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Backspace(); err != nil {
		t.Fatalf("Backspace: %v", err)
	}
	if e.Text() != ":home x" {
		t.Fatalf("Text() = %q", e.Text())
	}
	if sel := e.Selection(); sel[0] != buffer.Cursor(5) {
		t.Errorf("Selection() = %v, want cursor at 5", sel)
	}
	if n := len(e.Intervals()); n != 0 {
		t.Errorf("Intervals() = %v, want none", e.Intervals())
	}
}

func TestDeleteForward(t *testing.T) {
	e := New("ab👍🏽c", builtin(), WithSelection(buffer.Cursor(2)))
	if _, err := e.DeleteForward(); err != nil {
		t.Fatalf("DeleteForward: %v", err)
	}
	if e.Text() != "abc" {
		t.Errorf("Text() = %q, want the whole cluster removed", e.Text())
	}

	// Nothing to delete at the end of the document.
	e.MoveSelection(buffer.Cursor(3))
	rev := e.Revision()
	if _, err := e.DeleteForward(); err != nil {
		t.Fatalf("DeleteForward: %v", err)
	}
	if e.Revision() != rev {
		t.Errorf("Revision changed on empty delete")
	}
}

func TestGraphemeBoundaries(t *testing.T) {
	text := buffer.NewText("a👍🏽b\ncd")
	tests := []struct {
		name string
		pos  buffer.ByteOffset
		next buffer.ByteOffset
		prev buffer.ByteOffset
	}{
		{"doc_start", 0, 1, 0},
		{"before_cluster", 1, 9, 0},
		{"after_cluster", 9, 10, 1},
		{"line_end", 10, 11, 9},
		{"next_line_start", 11, 12, 10},
		{"doc_end", 13, 13, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextBoundary(text, tt.pos); got != tt.next {
				t.Errorf("NextBoundary(%d) = %d, want %d", tt.pos, got, tt.next)
			}
			if got := PrevBoundary(text, tt.pos); got != tt.prev {
				t.Errorf("PrevBoundary(%d) = %d, want %d", tt.pos, got, tt.prev)
			}
		})
	}
}

func TestMoveSnapsOutOfGlyph(t *testing.T) {
	e := New(":home:\nabcdefghij", builtin(), WithSelection(buffer.Cursor(10)))
	if n := len(e.Intervals()); n != 1 {
		t.Fatalf("Intervals() has %d entries, want 1", n)
	}

	// Column 3 on the first line is inside the collapsed glyph.
	if _, err := e.Move(MotionUp, false); err != nil {
		t.Fatal(err)
	}
	if sel := e.Selection(); sel[0] != buffer.Cursor(0) {
		t.Errorf("after up: Selection() = %v, want cursor at 0", sel)
	}
}

func TestMoveMotions(t *testing.T) {
	tests := []struct {
		motion Motion
		from   buffer.ByteOffset
		want   buffer.ByteOffset
	}{
		{MotionLeft, 0, 0},
		{MotionRight, 3, 4},
		{MotionLineStart, 6, 4},
		{MotionLineEnd, 5, 6},
		{MotionDown, 1, 5},
		{MotionDown, 5, 7},
		{MotionUp, 0, 0},
		{MotionDocEnd, 0, 7},
		{MotionDocStart, 6, 0},
	}
	for _, tt := range tests {
		t.Run(tt.motion.String(), func(t *testing.T) {
			e := New("abc\nde\n", nil, WithSelection(buffer.Cursor(tt.from)))
			if _, err := e.Move(tt.motion, false); err != nil {
				t.Fatal(err)
			}
			if got := e.Selection()[0].Head; got != tt.want {
				t.Errorf("Move(%s) from %d = %d, want %d", tt.motion, tt.from, got, tt.want)
			}
		})
	}
}

func TestMoveExtend(t *testing.T) {
	e := New("abcdef", nil, WithSelection(buffer.Cursor(1)))
	e.Move(MotionRight, true)
	e.Move(MotionRight, true)
	want := buffer.Selection{Anchor: 1, Head: 3}
	if sel := e.Selection(); sel[0] != want {
		t.Errorf("Selection() = %v, want %v", sel, want)
	}
}

func TestUndoRedo(t *testing.T) {
	e := New(sample, builtin())
	if e.CanUndo() {
		t.Fatal("CanUndo() = true on a new document")
	}

	if _, err := e.Edit(buffer.NewDelete(0, 1)); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if n := len(e.Intervals()); n != 1 {
		t.Fatalf("after edit: %d intervals, want 1", n)
	}

	if _, err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if e.Text() != sample {
		t.Errorf("after undo Text() = %q", e.Text())
	}
	if n := len(e.Intervals()); n != 2 {
		t.Errorf("after undo: %d intervals, want 2", n)
	}

	if _, err := e.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if e.Text() != "home: and :star:" {
		t.Errorf("after redo Text() = %q", e.Text())
	}

	if _, err := e.Redo(); err == nil {
		t.Error("second Redo should fail")
	}
}

func TestEditClampsRanges(t *testing.T) {
	e := New("abc", nil)
	if _, err := e.Edit(buffer.NewEdit(buffer.Range{Start: 2, End: 99}, ":star:")); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if e.Text() != "ab:star:" {
		t.Errorf("Text() = %q", e.Text())
	}
}

func TestApplyRejectsMalformedEdit(t *testing.T) {
	e := New(sample, builtin())
	before := e.Decorations()

	cs, err := buffer.NewChangeSet(3, buffer.NewInsert(0, "x"))
	if err != nil {
		t.Fatal(err)
	}
	decos, err := e.Apply(tracking.EditEvent{Changes: cs})
	if !errors.Is(err, buffer.ErrLengthMismatch) {
		t.Fatalf("Apply error = %v, want ErrLengthMismatch", err)
	}
	if decoString(decos) != decoString(before) {
		t.Errorf("decorations changed on a rejected event")
	}
	if e.Revision() != 0 || e.CanUndo() {
		t.Errorf("state changed on a rejected event")
	}
}

func TestApplyRejectsNilEvent(t *testing.T) {
	e := New(sample, builtin())
	before := decoString(e.Decorations())

	for _, ev := range []tracking.UpdateEvent{
		nil,
		(*tracking.EditEvent)(nil),
		(*tracking.SelectionEvent)(nil),
		(*tracking.ViewportEvent)(nil),
	} {
		decos, err := e.Apply(ev)
		if !errors.Is(err, tracking.ErrNilEvent) {
			t.Errorf("Apply(%T) error = %v, want ErrNilEvent", ev, err)
		}
		if decoString(decos) != before {
			t.Errorf("Apply(%T) changed decorations", ev)
		}
	}
	if e.Revision() != 0 || e.CanUndo() {
		t.Errorf("state changed on a nil event")
	}
}

func TestReadOnly(t *testing.T) {
	e := New(sample, builtin(), WithReadOnly())
	if _, err := e.Type("x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Type error = %v, want ErrReadOnly", err)
	}
	if e.Text() != sample {
		t.Errorf("Text() = %q", e.Text())
	}
	// Selection changes are still allowed.
	if _, err := e.MoveSelection(buffer.Cursor(2)); err != nil {
		t.Errorf("MoveSelection: %v", err)
	}
}

func TestRefreshPicksUpRegistryChanges(t *testing.T) {
	reg := icon.NewMapRegistry()
	e := New("a :new: b", reg)
	if n := len(e.Intervals()); n != 0 {
		t.Fatalf("Intervals() has %d entries, want 0", n)
	}
	if err := reg.Register(icon.Descriptor{ID: "new", Glyph: "N"}); err != nil {
		t.Fatal(err)
	}
	decos := e.Refresh()
	if len(decos) != 1 || decos[0].Widget.ID != "new" {
		t.Errorf("Refresh() = %s", decoString(decos))
	}
}

func TestRenderNode(t *testing.T) {
	e := New("# :star:\n:home:", builtin())
	decos := e.Decorations()
	if len(decos) != 2 {
		t.Fatalf("got %d decorations", len(decos))
	}
	heading := e.RenderNode(decos[0])
	if heading.Kind != glyph.NodeGlyph || heading.HeadingLevel != 1 {
		t.Errorf("heading node = %+v", heading)
	}
	body := e.RenderNode(decos[1])
	if body.HeadingLevel != 0 || body.Size >= heading.Size {
		t.Errorf("body node = %+v, heading size %v", body, heading.Size)
	}
}

func TestClose(t *testing.T) {
	e := New(sample, builtin())
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := e.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close = %v, want ErrClosed", err)
	}
	if _, err := e.Edit(buffer.NewInsert(0, "x")); !errors.Is(err, ErrClosed) {
		t.Errorf("Edit after Close = %v, want ErrClosed", err)
	}
}

func TestConcurrentUse(t *testing.T) {
	e := New(strings.Repeat(sample+"\n", 50), builtin())
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if i%2 == 0 {
					e.Edit(buffer.NewInsert(0, "x"))
				} else {
					_ = e.Decorations()
					_ = e.Intervals()
				}
			}
		}(i)
	}
	wg.Wait()
	if n := len(e.Intervals()); n != 100 {
		t.Errorf("Intervals() has %d entries, want 100", n)
	}
}
