package engine

import (
	"strings"
	"testing"

	"github.com/dshills/iconize/internal/engine/buffer"
)

func largeDocument(lines int) string {
	var b strings.Builder
	for i := 0; i < lines; i++ {
		b.WriteString("line with :star: and :home: and some plain words\n")
	}
	return b.String()
}

func BenchmarkNew(b *testing.B) {
	doc := largeDocument(10000)
	reg := builtin()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		New(doc, reg)
	}
}

func BenchmarkTypeOneCharacter(b *testing.B) {
	e := New(largeDocument(10000), builtin(),
		WithSelection(buffer.Cursor(0)),
		WithVisible(buffer.Range{Start: 0, End: 4000}))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Type("x"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMoveCursor(b *testing.B) {
	e := New(largeDocument(10000), builtin(),
		WithSelection(buffer.Cursor(0)),
		WithVisible(buffer.Range{Start: 0, End: 4000}))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := MotionDown
		if i%200 >= 100 {
			m = MotionUp
		}
		if _, err := e.Move(m, false); err != nil {
			b.Fatal(err)
		}
	}
}
