package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Theme maps cell styles to tcell styles.
type Theme map[Style]tcell.Style

// DefaultTheme returns the styles used by the preview.
func DefaultTheme() Theme {
	return Theme{
		StyleText:         tcell.StyleDefault,
		StyleGlyph:        tcell.StyleDefault,
		StyleHeadingGlyph: tcell.StyleDefault.Bold(true),
		StyleFallback:     tcell.StyleDefault.Foreground(tcell.ColorGray),
		StyleHeading:      tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		StyleStatus:       tcell.StyleDefault.Reverse(true),
		StyleStatusMode:   tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite).Bold(true),
		StyleError:        tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	}
}

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	theme  Theme
	mu     sync.Mutex
}

// NewTerminal creates a backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalScreen(screen), nil
}

// NewTerminalScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen, theme: DefaultTheme()}
}

// SetTheme replaces the style mapping.
func (t *Terminal) SetTheme(theme Theme) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.theme = theme
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Init()
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	runes := []rune(cell.Text)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	t.screen.SetContent(x, y, runes[0], runes[1:], t.theme[cell.Style])
}

func (t *Terminal) GetCell(x, y int) Cell {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return EmptyCell()
	}
	mainc, combc, style, width := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	cell := Cell{Text: string(append([]rune{mainc}, combc...)), Width: width}
	for s, ts := range t.theme {
		if ts == style && s != StyleText {
			cell.Style = s
			break
		}
	}
	return cell
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.HideCursor()
}

func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	return convertEvent(ev)
}

func (t *Terminal) PostEvent(event Event) {
	switch event.Type {
	case EventKey:
		k, mod := convertToTcellKey(event.Key), convertToTcellMod(event.Mod)
		_ = t.screen.PostEvent(tcell.NewEventKey(k, event.Rune, mod)) // best-effort; queue may be full
	case EventInterrupt:
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}
	default:
		return Event{Type: EventNone}
	}
}

var keyMap = map[tcell.Key]Key{
	tcell.KeyRune:   KeyRune,
	tcell.KeyEscape: KeyEscape,
	tcell.KeyEnter:  KeyEnter,
	tcell.KeyTab:    KeyTab,
	tcell.KeyDelete: KeyDelete,
	tcell.KeyHome:   KeyHome,
	tcell.KeyEnd:    KeyEnd,
	tcell.KeyPgUp:   KeyPageUp,
	tcell.KeyPgDn:   KeyPageDown,
	tcell.KeyUp:     KeyUp,
	tcell.KeyDown:   KeyDown,
	tcell.KeyLeft:   KeyLeft,
	tcell.KeyRight:  KeyRight,
	tcell.KeyCtrlC:  KeyCtrlC,
	tcell.KeyCtrlS:  KeyCtrlS,
	tcell.KeyCtrlY:  KeyCtrlY,
	tcell.KeyCtrlZ:  KeyCtrlZ,
}

// convertKey converts tcell key to our Key type.
func convertKey(k tcell.Key) Key {
	if k == tcell.KeyBackspace || k == tcell.KeyBackspace2 {
		return KeyBackspace
	}
	if key, ok := keyMap[k]; ok {
		return key
	}
	return KeyNone
}

func convertToTcellKey(k Key) tcell.Key {
	if k == KeyBackspace {
		return tcell.KeyBackspace2
	}
	for tk, key := range keyMap {
		if key == k {
			return tk
		}
	}
	return tcell.KeyRune
}

func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	return result
}

func convertToTcellMod(m ModMask) tcell.ModMask {
	var result tcell.ModMask
	if m.Has(ModShift) {
		result |= tcell.ModShift
	}
	if m.Has(ModCtrl) {
		result |= tcell.ModCtrl
	}
	if m.Has(ModAlt) {
		result |= tcell.ModAlt
	}
	return result
}
