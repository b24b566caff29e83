package overlay

import (
	"errors"
	"testing"

	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/engine/tracking"
)

func intervals(ivs ...tracking.Interval) *tracking.Set {
	return tracking.NewSet(ivs...)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"live", ModeLive, false},
		{"Source", ModeSource, false},
		{" source ", ModeSource, false},
		{"", ModeLive, false},
		{"preview", ModeLive, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) err = %v", tt.in, err)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownMode) {
			t.Errorf("ParseMode(%q) err = %v, want ErrUnknownMode", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRenderLiveShape(t *testing.T) {
	set := intervals(tracking.Interval{Start: 4, End: 10, ID: "home"})
	decos := NewRenderer().Render(set, []buffer.Range{{Start: 0, End: 20}}, ModeLive)

	if len(decos) != 1 {
		t.Fatalf("got %d decorations", len(decos))
	}
	d := decos[0]
	if d.Kind != KindReplace || d.From != 4 || d.To != 10 || !d.Atomic {
		t.Errorf("decoration = %s", d)
	}
	if d.Widget.ID != "home" || d.Widget.End != 10 {
		t.Errorf("widget = %+v", d.Widget)
	}
}

func TestRenderSourceShape(t *testing.T) {
	set := intervals(tracking.Interval{Start: 4, End: 10, ID: "home"})
	decos := NewRenderer().Render(set, []buffer.Range{{Start: 0, End: 20}}, ModeSource)

	if len(decos) != 1 {
		t.Fatalf("got %d decorations", len(decos))
	}
	d := decos[0]
	if d.Kind != KindWidget || d.From != 10 || d.To != 10 || d.Side != 1 || d.Atomic {
		t.Errorf("decoration = %s", d)
	}
}

func TestRenderViewportBoundary(t *testing.T) {
	const from, to = 20, 40
	set := intervals(
		tracking.Interval{Start: 2, End: 8, ID: "far_before"},
		tracking.Interval{Start: 9, End: 13, ID: "near_before"},
		tracking.Interval{Start: 13, End: 19, ID: "pad_before"},
		tracking.Interval{Start: to - 1, End: to + 1, ID: "straddle"},
		tracking.Interval{Start: to + 1, End: to + 7, ID: "pad_after"},
		tracking.Interval{Start: to + 8, End: to + 14, ID: "far_after"},
	)
	decos := NewRenderer().Render(set, []buffer.Range{{Start: from, End: to}}, ModeLive)

	var got []string
	for _, d := range decos {
		got = append(got, d.Widget.ID)
	}
	want := []string{"pad_before", "straddle", "pad_after"}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ids = %v, want %v", got, want)
		}
	}
}

func TestRenderZeroPadding(t *testing.T) {
	set := intervals(tracking.Interval{Start: 10, End: 16, ID: "home"})
	r := NewRenderer(WithPadding(0))
	if decos := r.Render(set, []buffer.Range{{Start: 0, End: 9}}, ModeLive); len(decos) != 0 {
		t.Errorf("decorations = %v", decos)
	}
	if decos := NewRenderer().Render(set, []buffer.Range{{Start: 0, End: 9}}, ModeLive); len(decos) != 1 {
		t.Errorf("default padding should include the token, got %v", decos)
	}
}

func TestRenderDedupesOverlappingWindows(t *testing.T) {
	set := intervals(
		tracking.Interval{Start: 5, End: 15, ID: "home"},
		tracking.Interval{Start: 30, End: 36, ID: "star"},
	)
	visible := []buffer.Range{{Start: 0, End: 7}, {Start: 12, End: 20}, {Start: 9, End: 4}, {Start: 28, End: 40}}
	decos := NewRenderer().Render(set, visible, ModeLive)
	if len(decos) != 2 || decos[0].Widget.ID != "home" || decos[1].Widget.ID != "star" {
		t.Errorf("decorations = %v", decos)
	}
}

func TestRenderDisjointWindows(t *testing.T) {
	set := intervals(
		tracking.Interval{Start: 0, End: 6, ID: "a"},
		tracking.Interval{Start: 50, End: 56, ID: "b"},
		tracking.Interval{Start: 100, End: 106, ID: "c"},
	)
	decos := NewRenderer().Render(set, []buffer.Range{{Start: 0, End: 10}, {Start: 95, End: 110}}, ModeSource)
	if len(decos) != 2 || decos[0].Widget.ID != "a" || decos[1].Widget.ID != "c" {
		t.Errorf("decorations = %v", decos)
	}
}

func TestRendererLast(t *testing.T) {
	r := NewRenderer()
	if len(r.Last()) != 0 {
		t.Fatal("new renderer should have no decorations")
	}
	set := intervals(tracking.Interval{Start: 0, End: 6, ID: "home"})
	r.Render(set, []buffer.Range{{Start: 0, End: 6}}, ModeLive)
	if len(r.Last()) != 1 {
		t.Fatalf("Last = %v", r.Last())
	}
	r.Render(tracking.Empty(), []buffer.Range{{Start: 0, End: 6}}, ModeLive)
	if len(r.Last()) != 0 {
		t.Errorf("Last should be replaced, got %v", r.Last())
	}
}

func TestSnapCursor(t *testing.T) {
	decos := []Decoration{
		{Kind: KindReplace, From: 4, To: 10, Atomic: true},
		{Kind: KindWidget, From: 20, To: 20, Side: 1},
	}
	tests := []struct {
		pos  buffer.ByteOffset
		bias buffer.Assoc
		want buffer.ByteOffset
	}{
		{3, buffer.AssocAfter, 3},
		{4, buffer.AssocAfter, 4},
		{5, buffer.AssocAfter, 10},
		{9, buffer.AssocBefore, 4},
		{10, buffer.AssocBefore, 10},
		{20, buffer.AssocBefore, 20},
	}
	for _, tt := range tests {
		if got := SnapCursor(tt.pos, tt.bias, decos); got != tt.want {
			t.Errorf("SnapCursor(%d, %d) = %d, want %d", tt.pos, tt.bias, got, tt.want)
		}
	}
}

func TestSnapSelection(t *testing.T) {
	decos := []Decoration{{Kind: KindReplace, From: 4, To: 10, Atomic: true}}

	got := SnapSelection(buffer.Selection{Anchor: 6, Head: 12}, buffer.AssocAfter, decos)
	if got.Anchor != 4 || got.Head != 12 {
		t.Errorf("forward selection = %s", got)
	}
	got = SnapSelection(buffer.Selection{Anchor: 6, Head: 1}, buffer.AssocBefore, decos)
	if got.Anchor != 10 || got.Head != 1 {
		t.Errorf("backward selection = %s", got)
	}
	got = SnapSelection(buffer.Cursor(7), buffer.AssocBefore, decos)
	if got.Head != 4 || !got.IsEmpty() {
		t.Errorf("cursor = %s", got)
	}
}

func TestAtomicRanges(t *testing.T) {
	decos := []Decoration{
		{Kind: KindReplace, From: 20, To: 26, Atomic: true},
		{Kind: KindWidget, From: 8, To: 8},
		{Kind: KindReplace, From: 0, To: 6, Atomic: true},
	}
	got := AtomicRanges(decos)
	if len(got) != 2 || got[0].Start != 0 || got[1].Start != 20 {
		t.Errorf("AtomicRanges = %v", got)
	}
}
