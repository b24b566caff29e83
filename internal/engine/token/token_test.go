package token

import (
	"strings"
	"testing"

	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/icon"
)

func testRegistry() *icon.MapRegistry {
	return icon.NewMapRegistry(
		icon.Descriptor{ID: "home", Glyph: "H"},
		icon.Descriptor{ID: "star", Glyph: "S"},
		icon.Descriptor{ID: "a", Glyph: "A"},
		icon.Descriptor{ID: "b", Glyph: "B"},
		icon.Descriptor{ID: strings.Repeat("x", 64), Glyph: "X"},
	)
}

type hit struct {
	id       string
	start    buffer.ByteOffset
	end      buffer.ByteOffset
	excluded bool
}

func scanAll(text string, exclude []buffer.Range) []hit {
	var hits []hit
	Scan(text, exclude, testRegistry(), func(o Occurrence, excluded bool) {
		hits = append(hits, hit{o.ID, o.Start, o.End, excluded})
	})
	return hits
}

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []hit
	}{
		{"single", "go :home: now", []hit{{"home", 3, 9, false}}},
		{"two", ":home::star:", []hit{{"home", 0, 6, false}, {"star", 6, 12, false}}},
		{"variant suffix", "x :star:123456789012345678: y", []hit{{"star", 2, 27, false}}},
		{"seventeen digits", ":star:12345678901234567:", []hit{{"star", 0, 24, false}}},
		{"short suffix is not a variant", ":star:1234:", []hit{{"star", 0, 6, false}}},
		{"unclosed", "go :home now", nil},
		{"empty id", "::", nil},
		{"unknown id", ":nothing_here:", nil},
		{"dash never matches", ":totally-unknown-glyph-xyz:", nil},
		{"max length id", ":" + strings.Repeat("x", 64) + ":", []hit{{strings.Repeat("x", 64), 0, 66, false}}},
		{"too long id", ":" + strings.Repeat("x", 65) + ":", nil},
		{"no line crossing", ":ho\nme:", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanAll(tt.text, NoExclusion)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("hit %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestScanUnresolvedIsConsumed(t *testing.T) {
	// ":zzz:" is matched first and dropped; "home:" alone cannot match.
	got := scanAll(":zzz:home:", NoExclusion)
	if len(got) != 0 {
		t.Errorf("expected no hits, got %v", got)
	}
}

func TestScanSuffix(t *testing.T) {
	var occ Occurrence
	Scan(":home:123456789012345678:", NoExclusion, testRegistry(), func(o Occurrence, _ bool) {
		occ = o
	})
	if occ.ID != "home" || occ.Suffix != "123456789012345678" {
		t.Errorf("unexpected occurrence %+v", occ)
	}
}

func TestScanExclusion(t *testing.T) {
	text := ":home: and :star:"

	tests := []struct {
		name   string
		cursor buffer.ByteOffset
		want   []bool
	}{
		{"inside first", 3, []bool{true, false}},
		{"at first start", 0, []bool{true, false}},
		{"at first end", 6, []bool{true, false}},
		{"past first end", 7, []bool{false, false}},
		{"inside second", 14, []bool{false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanAll(text, []buffer.Range{{Start: tt.cursor, End: tt.cursor}})
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d hits, got %v", len(tt.want), got)
			}
			for i, want := range tt.want {
				if got[i].excluded != want {
					t.Errorf("hit %d: excluded = %v, want %v", i, got[i].excluded, want)
				}
			}
		})
	}
}

func TestScanRangeAbsoluteOffsets(t *testing.T) {
	text := ":home:\nsay :star: twice :star:\n:home:"
	line := buffer.NewText(text).Line(1)

	var hits []hit
	ScanRange(text, line.Range(), NoExclusion, testRegistry(), func(o Occurrence, excluded bool) {
		hits = append(hits, hit{o.ID, o.Start, o.End, excluded})
	})

	want := []hit{{"star", 11, 17, false}, {"star", 24, 30, false}}
	if len(hits) != len(want) {
		t.Fatalf("expected %v, got %v", want, hits)
	}
	for i := range want {
		if hits[i] != want[i] {
			t.Errorf("hit %d: expected %v, got %v", i, want[i], hits[i])
		}
	}
}

func TestScanRangeClamps(t *testing.T) {
	called := false
	ScanRange(":home:", buffer.Range{Start: 50, End: 80}, NoExclusion, testRegistry(), func(Occurrence, bool) {
		called = true
	})
	if called {
		t.Error("region past the end should scan nothing")
	}
}

func TestScanRangeInvertedRegion(t *testing.T) {
	text := ":home: :star:"
	tests := []struct {
		region buffer.Range
		want   []hit
	}{
		{buffer.Range{Start: 13, End: 0}, []hit{{"home", 0, 6, false}, {"star", 7, 13, false}}},
		{buffer.Range{Start: 8, End: 2}, nil},
		{buffer.Range{Start: 99, End: -5}, []hit{{"home", 0, 6, false}, {"star", 7, 13, false}}},
	}
	for _, tt := range tests {
		var hits []hit
		ScanRange(text, tt.region, NoExclusion, testRegistry(), func(o Occurrence, excluded bool) {
			hits = append(hits, hit{o.ID, o.Start, o.End, excluded})
		})
		if len(hits) != len(tt.want) {
			t.Errorf("ScanRange(%s): expected %v, got %v", tt.region, tt.want, hits)
			continue
		}
		for i := range tt.want {
			if hits[i] != tt.want[i] {
				t.Errorf("ScanRange(%s) hit %d: expected %v, got %v", tt.region, i, tt.want[i], hits[i])
			}
		}
	}
}

func TestCollect(t *testing.T) {
	occs := Collect(":a: :b: :home:", []buffer.Range{{Start: 4, End: 5}}, testRegistry())
	if len(occs) != 2 || occs[0].ID != "a" || occs[1].ID != "home" {
		t.Errorf("unexpected occurrences %v", occs)
	}
}
