// Package app runs the interactive terminal preview: a small editor that
// shows live glyph decorations as the document is edited.
package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/dshills/iconize/internal/engine"
	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/renderer/backend"
	"github.com/dshills/iconize/internal/renderer/overlay"
	"github.com/dshills/iconize/internal/renderer/statusline"
	"github.com/dshills/iconize/internal/renderer/viewport"
)

// Runner is a background component tied to the application lifetime, such
// as an icon pack watcher.
type Runner interface {
	Run(ctx context.Context) error
}

// Options configures the application.
type Options struct {
	// Name is shown in the status line, usually the file path.
	Name string

	Engine  *engine.Engine
	Backend backend.Backend

	// Margins keep context lines around the cursor while scrolling.
	Margins viewport.MarginConfig

	Logger zerolog.Logger

	// Runners run until the application exits.
	Runners []Runner
}

// Application is the preview loop.
type Application struct {
	opts     Options
	engine   *engine.Engine
	backend  backend.Backend
	viewport *viewport.Viewport
	logger   zerolog.Logger

	running atomic.Bool
	reloads atomic.Int64

	// Touched only by the loop goroutine.
	layouts []backend.LineLayout
	status  *statusline.StatusLine
}

// New creates an application. Engine and Backend are required.
func New(opts Options) (*Application, error) {
	if opts.Engine == nil {
		return nil, &InitError{Component: "engine", Err: ErrComponentNotAvailable}
	}
	if opts.Backend == nil {
		return nil, &InitError{Component: "backend", Err: ErrComponentNotAvailable}
	}
	return &Application{
		opts:    opts,
		engine:  opts.Engine,
		backend: opts.Backend,
		logger:  opts.Logger.With().Str("component", "preview").Logger(),
		status:  statusline.New(),
	}, nil
}

// NotifyReload tells the loop that an icon pack changed. It is safe to
// call from any goroutine and has the signature of a watcher reload hook.
func (app *Application) NotifyReload(pack string, n int) {
	app.logger.Info().Str("pack", pack).Int("icons", n).Msg("icon pack reloaded")
	app.reloads.Add(1)
	app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
}

// Run draws the document and handles input until the user quits or ctx is
// cancelled.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	w, h := app.backend.Size()
	app.viewport = viewport.NewViewport(w, max(h-1, 1))
	app.viewport.SetMargins(app.opts.Margins)
	app.status.Resize(w)
	if app.opts.Name != "" {
		app.status.SetFilename(filepath.Base(app.opts.Name))
	}
	app.status.SetReadOnly(app.engine.ReadOnly())

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()
	for _, r := range app.opts.Runners {
		wg.Add(1)
		go func(r Runner) {
			defer wg.Done()
			if err := r.Run(ctx); err != nil && ctx.Err() == nil {
				app.logger.Error().Err(err).Msg("background task stopped")
			}
		}(r)
	}
	stop := context.AfterFunc(ctx, func() {
		app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
	})
	defer stop()

	app.reveal()
	app.draw()
	for {
		ev := app.backend.PollEvent()
		if ctx.Err() != nil {
			return nil
		}
		switch err := app.handle(ev); {
		case errors.Is(err, ErrQuit):
			return nil
		case err != nil:
			app.status.SetMessage(err.Error(), statusline.MessageError)
			app.logger.Debug().Err(err).Msg("command failed")
		}
		app.draw()
	}
}

func (app *Application) handle(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.viewport.Resize(ev.Width, max(ev.Height-1, 1))
		app.status.Resize(ev.Width)
		app.reveal()
		return nil
	case backend.EventInterrupt:
		if app.reloads.Swap(0) > 0 {
			app.engine.Refresh()
			app.status.SetMessage("icons reloaded", statusline.MessageInfo)
		}
		return nil
	case backend.EventKey:
		app.status.ClearMessage()
		if err := app.handleKey(ev); err != nil {
			return err
		}
		app.reveal()
		return nil
	}
	return nil
}

func (app *Application) handleKey(ev backend.Event) error {
	extend := ev.Mod.Has(backend.ModShift)
	var err error
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyLeft:
		_, err = app.engine.Move(engine.MotionLeft, extend)
	case backend.KeyRight:
		_, err = app.engine.Move(engine.MotionRight, extend)
	case backend.KeyUp:
		_, err = app.engine.Move(engine.MotionUp, extend)
	case backend.KeyDown:
		_, err = app.engine.Move(engine.MotionDown, extend)
	case backend.KeyHome:
		_, err = app.engine.Move(engine.MotionLineStart, extend)
	case backend.KeyEnd:
		_, err = app.engine.Move(engine.MotionLineEnd, extend)
	case backend.KeyPageUp:
		app.viewport.PageUp()
		err = app.jumpToLine(app.viewport.TopLine())
	case backend.KeyPageDown:
		app.viewport.PageDown()
		err = app.jumpToLine(app.viewport.TopLine())
	case backend.KeyEnter:
		_, err = app.engine.Type("\n")
	case backend.KeyTab:
		_, err = app.engine.Type("\t")
	case backend.KeyRune:
		_, err = app.engine.Type(string(ev.Rune))
	case backend.KeyBackspace:
		_, err = app.engine.Backspace()
	case backend.KeyDelete:
		_, err = app.engine.DeleteForward()
	case backend.KeyCtrlS:
		next := overlay.ModeSource
		if app.engine.Mode() == overlay.ModeSource {
			next = overlay.ModeLive
		}
		app.engine.SetMode(next)
		app.status.SetMessage(next.String()+" mode", statusline.MessageInfo)
	case backend.KeyCtrlZ:
		_, err = app.engine.Undo()
	case backend.KeyCtrlY:
		_, err = app.engine.Redo()
	}
	return err
}

func (app *Application) jumpToLine(n int) error {
	_, err := app.engine.MoveSelection(buffer.Cursor(app.engine.Buffer().Line(n).From))
	return err
}

// reveal scrolls the cursor into view and narrows the engine to the
// visible lines.
func (app *Application) reveal() {
	text := app.engine.Buffer()
	app.viewport.SetLineCount(text.LineCount())
	app.viewport.ScrollToReveal(text.LineAt(app.head()).Number)
	if _, err := app.engine.SetVisible(app.viewport.Window(text)); err != nil {
		app.logger.Debug().Err(err).Msg("set visible")
	}
}

func (app *Application) head() buffer.ByteOffset {
	if sel := app.engine.Selection(); len(sel) > 0 {
		return sel[0].Head
	}
	return 0
}

func (app *Application) draw() {
	b := app.backend
	b.Clear()

	text := app.engine.Buffer()
	top := app.viewport.TopLine()
	app.layouts = backend.DrawLines(b, 0, text, top, app.viewport.Height(), app.engine.Decorations(), app.engine.GlyphContext())

	head := app.head()
	p := text.OffsetToPoint(head)
	app.status.SetMode(app.engine.Mode())
	app.status.SetPosition(p.Line+1, p.Column+1)
	app.status.SetGlyphs(len(app.engine.Intervals()))
	app.status.Render(b, app.viewport.Height())

	line := text.LineAt(head)
	if i := line.Number - top; i >= 0 && i < len(app.layouts) {
		b.ShowCursor(app.layouts[i].Column(head), i)
	} else {
		b.HideCursor()
	}
	b.Show()
}
