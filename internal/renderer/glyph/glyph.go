// Package glyph renders short-code tokens as glyph nodes.
//
// A Widget is bound to a token id and the offset where the token ends. It
// is re-rendered on every pass: the id is resolved against the registry at
// render time, so an icon removed after the token was scanned degrades to
// its literal ":id:" text instead of disappearing.
package glyph

import (
	"strings"

	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/icon"
)

// NodeKind distinguishes graphical glyphs from plain text fallbacks.
type NodeKind uint8

const (
	// NodeGlyph is a resolved glyph.
	NodeGlyph NodeKind = iota

	// NodeText is literal text shown in place of a glyph.
	NodeText
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeGlyph:
		return "glyph"
	case NodeText:
		return "text"
	default:
		return "unknown"
	}
}

// Node is the display-ready output of a widget.
type Node struct {
	Kind NodeKind

	// Text is the glyph itself, or the fallback text.
	Text string

	// Label is the accessible name of a glyph node.
	Label string

	// Size is the display size in pixels. Zero for text nodes.
	Size Size

	// HeadingLevel is the heading level of the line the glyph sits on, or 0.
	HeadingLevel int

	// AriaHidden marks the node as invisible to assistive tooling.
	AriaHidden bool

	// CapturesEvents reports that pointer and key events aimed at the node
	// are consumed by it instead of reaching the text underneath.
	CapturesEvents bool
}

// IsFallback reports whether the node is literal token text.
func (n Node) IsFallback() bool {
	return n.Kind == NodeText
}

// Painter turns a resolved descriptor and a size into a node.
type Painter interface {
	RenderGlyph(desc icon.Descriptor, size Size) Node
}

// PainterFunc adapts a function to the Painter interface.
type PainterFunc func(desc icon.Descriptor, size Size) Node

// RenderGlyph calls f(desc, size).
func (f PainterFunc) RenderGlyph(desc icon.Descriptor, size Size) Node {
	return f(desc, size)
}

// TextPainter renders the descriptor's glyph text unchanged.
type TextPainter struct{}

// RenderGlyph implements Painter.
func (TextPainter) RenderGlyph(desc icon.Descriptor, size Size) Node {
	return Node{Kind: NodeGlyph, Text: desc.Glyph, Size: size}
}

// Context carries the collaborators a widget needs to render.
type Context struct {
	Registry icon.Registry
	Sizer    Sizer
	Painter  Painter

	// Text is the current document; it is used to find the line a widget
	// sits on.
	Text *buffer.Text
}

// Widget displays the glyph for one token.
type Widget struct {
	ID  string
	End buffer.ByteOffset
}

// Eq reports whether two widgets display the same icon. Position is not
// part of a widget's identity.
func (w Widget) Eq(other Widget) bool {
	return w.ID == other.ID
}

// Fallback returns the literal token text for the widget's id.
func (w Widget) Fallback() string {
	return ":" + w.ID + ":"
}

// Render resolves the widget's id and produces its node.
func (w Widget) Render(ctx Context) Node {
	desc, ok := icon.Descriptor{}, false
	if ctx.Registry != nil {
		desc, ok = ctx.Registry.Resolve(w.ID)
	}
	if !ok {
		return Node{Kind: NodeText, Text: w.Fallback()}
	}

	sizer := ctx.Sizer
	if sizer == nil {
		sizer = DefaultSizer()
	}
	painter := ctx.Painter
	if painter == nil {
		painter = TextPainter{}
	}

	level := 0
	if ctx.Text != nil {
		level = HeadingLevel(ctx.Text.LineAt(w.End).Text)
	}
	size := sizer.DefaultSize()
	if level > 0 {
		size = sizer.HeadingSize(level)
	}

	node := painter.RenderGlyph(desc, size)
	node.Kind = NodeGlyph
	node.Label = w.ID
	node.HeadingLevel = level
	node.AriaHidden = true
	node.CapturesEvents = true
	return node
}

// headingSpace is the whitespace accepted after a heading marker.
const headingSpace = " \t\v\f\r"

// HeadingLevel returns the level of a heading line: 1 to 6 '#' characters
// followed by ASCII whitespace. It returns 0 for other lines.
func HeadingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || n == len(line) {
		return 0
	}
	if !strings.ContainsRune(headingSpace, rune(line[n])) {
		return 0
	}
	return n
}

// StripHeading returns line without its heading marker.
func StripHeading(line string) string {
	level := HeadingLevel(line)
	if level == 0 {
		return line
	}
	return strings.TrimLeft(line[level:], headingSpace)
}
