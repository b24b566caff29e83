// Package statusline draws the preview's bottom line: display mode, file,
// glyph count and cursor position, or a message in their place.
package statusline

import (
	"fmt"

	"github.com/dshills/iconize/internal/renderer/backend"
	"github.com/dshills/iconize/internal/renderer/overlay"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageError
)

// StatusLine renders the bottom status line.
type StatusLine struct {
	mode     overlay.Mode
	filename string
	readOnly bool
	line     uint32 // 1-indexed
	col      uint32 // 1-indexed
	glyphs   int

	message     string
	messageType MessageType

	width int
}

// New creates a status line.
func New() *StatusLine {
	return &StatusLine{}
}

// SetMode updates the displayed display mode.
func (s *StatusLine) SetMode(mode overlay.Mode) {
	s.mode = mode
}

// SetFilename updates the displayed filename.
func (s *StatusLine) SetFilename(filename string) {
	s.filename = filename
}

// SetReadOnly marks the document as read-only.
func (s *StatusLine) SetReadOnly(readOnly bool) {
	s.readOnly = readOnly
}

// SetPosition updates the cursor position (1-indexed).
func (s *StatusLine) SetPosition(line, col uint32) {
	s.line = line
	s.col = col
}

// SetGlyphs updates the number of tracked tokens.
func (s *StatusLine) SetGlyphs(n int) {
	s.glyphs = n
}

// SetMessage displays a status message until cleared.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message.
func (s *StatusLine) Message() string {
	return s.message
}

// Resize updates the status line width.
func (s *StatusLine) Resize(width int) {
	s.width = width
}

// Render draws the status line at row.
func (s *StatusLine) Render(b backend.Backend, row int) {
	if s.message != "" {
		s.renderMessage(b, row)
		return
	}
	s.renderStatusBar(b, row)
}

func (s *StatusLine) renderStatusBar(b backend.Backend, row int) {
	s.fill(b, row, backend.StyleStatus)

	col := backend.DrawString(b, 0, row, " "+modeLabel(s.mode)+" ", backend.StyleStatusMode)
	col = backend.DrawString(b, col, row, " "+s.fileLabel(), backend.StyleStatus)

	right := s.formatPosition()
	if start := s.width - len(right) - 1; start > col {
		backend.DrawString(b, start, row, right, backend.StyleStatus)
	}
}

func (s *StatusLine) renderMessage(b backend.Backend, row int) {
	style := backend.StyleStatus
	if s.messageType == MessageError {
		style = backend.StyleError
	}
	s.fill(b, row, style)
	backend.DrawString(b, 0, row, " "+s.message, style)
}

func (s *StatusLine) fill(b backend.Backend, row int, style backend.Style) {
	for x := 0; x < s.width; x++ {
		b.SetCell(x, row, backend.Cell{Text: " ", Width: 1, Style: style})
	}
}

func modeLabel(m overlay.Mode) string {
	if m == overlay.ModeSource {
		return "SOURCE"
	}
	return "LIVE"
}

func (s *StatusLine) fileLabel() string {
	name := s.filename
	if name == "" {
		name = "[No Name]"
	}
	if s.readOnly {
		name += " [RO]"
	}
	return name
}

// formatPosition formats the right side: "3 glyphs | Ln 2, Col 6".
func (s *StatusLine) formatPosition() string {
	line, col := max(s.line, 1), max(s.col, 1)
	noun := "glyphs"
	if s.glyphs == 1 {
		noun = "glyph"
	}
	return fmt.Sprintf("%d %s | Ln %d, Col %d", s.glyphs, noun, line, col)
}
