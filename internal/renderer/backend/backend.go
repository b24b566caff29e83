// Package backend draws laid-out document lines to a terminal.
package backend

// Style is the role of a cell. Backends map roles to concrete colors.
type Style uint8

const (
	StyleText Style = iota
	StyleGlyph
	StyleHeadingGlyph
	StyleFallback
	StyleHeading
	StyleStatus
	StyleStatusMode
	StyleError
)

// String returns the string representation of the style.
func (s Style) String() string {
	switch s {
	case StyleText:
		return "text"
	case StyleGlyph:
		return "glyph"
	case StyleHeadingGlyph:
		return "heading-glyph"
	case StyleFallback:
		return "fallback"
	case StyleHeading:
		return "heading"
	case StyleStatus:
		return "status"
	case StyleStatusMode:
		return "status-mode"
	case StyleError:
		return "error"
	default:
		return "unknown"
	}
}

// Cell is one grapheme cluster on screen.
type Cell struct {
	Text  string
	Width int
	Style Style
}

// EmptyCell returns a blank cell.
func EmptyCell() Cell {
	return Cell{Text: " ", Width: 1}
}

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventInterrupt
)

// Key represents a keyboard key.
type Key int

// Key constants for the keys the preview understands.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyCtrlS
	KeyCtrlY
	KeyCtrlZ
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Resize event fields
	Width, Height int
}

// Backend is a drawing surface with an input queue.
type Backend interface {
	// Init prepares the backend. Must be called before any other method.
	Init() error

	// Shutdown releases the backend and restores terminal state.
	Shutdown()

	// Size returns the current dimensions in cells.
	Size() (width, height int)

	// SetCell draws one cell. Positions outside the surface are ignored.
	SetCell(x, y int, cell Cell)

	// GetCell returns the cell at a position, or EmptyCell outside.
	GetCell(x, y int) Cell

	// Clear blanks the whole surface.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// PollEvent blocks until the next event.
	PollEvent() Event

	// PostEvent queues a synthetic event.
	PostEvent(event Event)
}

// DrawCells draws cells left to right starting at x and returns the column
// after the last one drawn. Wide cells occupy several columns.
func DrawCells(b Backend, x, y int, cells []Cell) int {
	for _, c := range cells {
		b.SetCell(x, y, c)
		x += max(c.Width, 1)
	}
	return x
}

// DrawString draws s in a single style.
func DrawString(b Backend, x, y int, s string, style Style) int {
	return DrawCells(b, x, y, Segment(s, style, 0))
}

// NullBackend is an in-memory backend for tests and headless rendering.
type NullBackend struct {
	width, height int
	cells         [][]Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	events        chan Event
	shown         int
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error {
	b.Clear()
	return nil
}

func (b *NullBackend) Shutdown() {}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

func (b *NullBackend) GetCell(x, y int) Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return EmptyCell()
}

func (b *NullBackend) Clear() {
	b.cells = make([][]Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = EmptyCell()
		}
	}
}

func (b *NullBackend) Show() {
	b.shown++
}

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX, b.cursorY = x, y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.cursorVisible = false
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
	}
}

// CursorPosition returns the last cursor position and visibility.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// ShowCount returns how many times Show was called.
func (b *NullBackend) ShowCount() int {
	return b.shown
}

// Row returns the text of row y with wide-cell continuations skipped and
// trailing blanks trimmed.
func (b *NullBackend) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var s []byte
	for x := 0; x < b.width; {
		c := b.cells[y][x]
		s = append(s, c.Text...)
		x += max(c.Width, 1)
	}
	end := len(s)
	for end > 0 && s[end-1] == ' ' {
		end--
	}
	return string(s[:end])
}

// Resize changes the dimensions and queues a resize event.
func (b *NullBackend) Resize(width, height int) {
	b.width, b.height = width, height
	b.Clear()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
