// Command iconize annotates :short-code: tokens in text with glyphs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/dshills/iconize/internal/app"
	"github.com/dshills/iconize/internal/config"
	"github.com/dshills/iconize/internal/engine"
	"github.com/dshills/iconize/internal/engine/buffer"
	"github.com/dshills/iconize/internal/icon"
	"github.com/dshills/iconize/internal/renderer/backend"
	"github.com/dshills/iconize/internal/renderer/overlay"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// stdout is where commands write their results.
var stdout io.Writer = os.Stdout

// Globals are flags shared by every command.
type Globals struct {
	Config   string `name:"config" short:"c" help:"Path to configuration file" type:"path" env:"ICONIZE_CONFIG"`
	LogLevel string `name:"log-level" help:"Override the configured log level"`
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Scan    ScanCmd    `cmd:"" help:"List the tokens found in a file"`
	Render  RenderCmd  `cmd:"" help:"Print the decorations for a window of a file"`
	Preview PreviewCmd `cmd:"" help:"Open a file in the terminal preview (edits are not saved)"`
	Icons   IconsGroup `cmd:"" help:"Icon registry operations"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// IconsGroup contains registry operations.
type IconsGroup struct {
	List   IconsListCmd   `cmd:"" default:"1" help:"List every resolvable icon"`
	Import IconsImportCmd `cmd:"" help:"Copy a pack file into the icon database"`
}

// env is the state every command starts from.
type env struct {
	cfg    *config.Config
	logger zerolog.Logger
	closer io.Closer
	out    io.Writer
}

func (g *Globals) setup(out io.Writer) (*env, error) {
	opts := []config.Option{}
	if g.Config != "" {
		opts = append(opts, config.WithPath(g.Config))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}
	logger, closer, err := app.OpenLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, closer: closer, out: out}, nil
}

func (e *env) Close() error {
	return e.closer.Close()
}

// openDocument reads a file and loads the registry for it.
func (e *env) openDocument(ctx context.Context, path string, opts ...engine.Option) (*engine.Engine, *app.Icons, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	icons, err := app.LoadIcons(ctx, e.cfg.Icons, e.logger)
	if err != nil {
		return nil, nil, err
	}
	sizer, err := e.cfg.Sizer()
	if err != nil {
		icons.Close()
		return nil, nil, err
	}
	base := []engine.Option{
		engine.WithLogger(e.logger),
		engine.WithMode(e.cfg.DisplayMode()),
		engine.WithPadding(buffer.ByteOffset(e.cfg.Viewport.Padding)),
		engine.WithSizer(sizer),
	}
	doc := engine.New(buffer.NormalizeLineEndings(string(data)), icons.Registry, append(base, opts...)...)
	return doc, icons, nil
}

// ScanCmd lists tokens.
type ScanCmd struct {
	File   string  `arg:"" help:"File to scan" type:"existingfile"`
	Cursor []int64 `help:"Cursor offsets whose tokens are left as source"`
	JSON   bool    `help:"Write JSON instead of text"`
}

func (c *ScanCmd) Run(g *Globals) error {
	e, err := g.setup(stdout)
	if err != nil {
		return err
	}
	defer e.Close()

	var sel []buffer.Selection
	for _, off := range c.Cursor {
		sel = append(sel, buffer.Cursor(off))
	}
	doc, icons, err := e.openDocument(context.Background(), c.File, engine.WithSelection(sel...))
	if err != nil {
		return err
	}
	defer icons.Close()
	defer doc.Close()

	intervals := doc.Intervals()
	if c.JSON {
		type token struct {
			ID    string `json:"id"`
			Start int64  `json:"start"`
			End   int64  `json:"end"`
			Line  uint32 `json:"line"`
		}
		out := make([]token, len(intervals))
		for i, iv := range intervals {
			out[i] = token{ID: iv.ID, Start: iv.Start, End: iv.End, Line: doc.Buffer().OffsetToPoint(iv.Start).Line + 1}
		}
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, iv := range intervals {
		p := doc.Buffer().OffsetToPoint(iv.Start)
		fmt.Fprintf(e.out, "%s:%d:%d\t%s\n", c.File, p.Line+1, p.Column+1, iv)
	}
	return nil
}

// RenderCmd prints decorations.
type RenderCmd struct {
	File   string `arg:"" help:"File to render" type:"existingfile"`
	Mode   string `help:"Display mode (live or source); defaults to the configured mode"`
	From   int64  `help:"Start of the visible window" default:"0"`
	To     int64  `help:"End of the visible window; negative means end of file" default:"-1"`
	Cursor int64  `help:"Cursor offset; negative means no cursor" default:"-1"`
}

func (c *RenderCmd) Run(g *Globals) error {
	e, err := g.setup(stdout)
	if err != nil {
		return err
	}
	defer e.Close()

	var opts []engine.Option
	if c.Mode != "" {
		m, err := overlay.ParseMode(c.Mode)
		if err != nil {
			return err
		}
		opts = append(opts, engine.WithMode(m))
	}
	if c.Cursor >= 0 {
		opts = append(opts, engine.WithSelection(buffer.Cursor(c.Cursor)))
	}
	doc, icons, err := e.openDocument(context.Background(), c.File, opts...)
	if err != nil {
		return err
	}
	defer icons.Close()
	defer doc.Close()

	to := c.To
	if to < 0 {
		to = doc.Buffer().Len()
	}
	decos, err := doc.SetVisible(buffer.Range{Start: c.From, End: to})
	if err != nil {
		return err
	}
	for _, d := range decos {
		node := doc.RenderNode(d)
		fmt.Fprintf(e.out, "%s\t%q\t%s\n", d, node.Text, node.Size)
	}
	return nil
}

// PreviewCmd runs the terminal preview.
type PreviewCmd struct {
	File     string `arg:"" help:"File to preview" type:"existingfile"`
	ReadOnly bool   `name:"read-only" help:"Ignore edits"`
}

func (c *PreviewCmd) Run(g *Globals) error {
	e, err := g.setup(stdout)
	if err != nil {
		return err
	}
	defer e.Close()

	// Console logs would draw over the terminal.
	if e.cfg.Logging.File == "" {
		e.logger = zerolog.Nop()
	}

	var opts []engine.Option
	if c.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}
	opts = append(opts, engine.WithSelection(buffer.Cursor(0)))
	doc, icons, err := e.openDocument(context.Background(), c.File, opts...)
	if err != nil {
		return err
	}
	defer icons.Close()
	defer doc.Close()

	term, err := backend.NewTerminal()
	if err != nil {
		return err
	}
	application, err := app.New(app.Options{
		Name:    c.File,
		Engine:  doc,
		Backend: term,
		Margins: e.cfg.Margins(),
		Logger:  e.logger,
		Runners: icons.Runners(),
	})
	if err != nil {
		return err
	}
	icons.OnReload(application.NotifyReload)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}

// IconsListCmd prints the registry.
type IconsListCmd struct{}

func (c *IconsListCmd) Run(g *Globals) error {
	e, err := g.setup(stdout)
	if err != nil {
		return err
	}
	defer e.Close()

	icons, err := app.LoadIcons(context.Background(), e.cfg.Icons, e.logger)
	if err != nil {
		return err
	}
	defer icons.Close()
	for _, id := range icons.Registry.IDs() {
		d, _ := icons.Registry.Resolve(id)
		fmt.Fprintf(e.out, "%s\t%s\t%s\n", d.ID, d.Glyph, d.Pack)
	}
	return nil
}

// IconsImportCmd stores a pack in the icon database.
type IconsImportCmd struct {
	Pack string `arg:"" help:"Pack file (toml, yaml or lua)" type:"existingfile"`
	DB   string `name:"db" help:"Icon database; defaults to icons.database from the config" type:"path"`
}

func (c *IconsImportCmd) Run(g *Globals) error {
	e, err := g.setup(stdout)
	if err != nil {
		return err
	}
	defer e.Close()

	db := c.DB
	if db == "" {
		db = e.cfg.Icons.Database
	}
	if db == "" {
		return errors.New("no icon database: pass --db or set icons.database")
	}
	pack, err := icon.LoadFile(c.Pack)
	if err != nil {
		return err
	}
	src, err := icon.OpenSQLite(db)
	if err != nil {
		return err
	}
	defer src.Close()
	descs := pack.Descriptors()
	if err := src.Put(context.Background(), descs...); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "imported %d icons from pack %q into %s\n", len(descs), pack.Name, db)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintf(stdout, "iconize %s (commit %s, built %s)\n", version, commit, date)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("iconize"),
		kong.Description("Replace :short-code: tokens with glyphs as text is edited."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
