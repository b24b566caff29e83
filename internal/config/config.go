package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/iconize/internal/config/loader"
	"github.com/dshills/iconize/internal/renderer/glyph"
	"github.com/dshills/iconize/internal/renderer/overlay"
	"github.com/dshills/iconize/internal/renderer/viewport"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "ICONIZE_"

// Config holds every iconize setting.
type Config struct {
	Display  DisplayConfig  `toml:"display"`
	Glyph    GlyphConfig    `toml:"glyph"`
	Icons    IconsConfig    `toml:"icons"`
	Viewport ViewportConfig `toml:"viewport"`
	Logging  LoggingConfig  `toml:"logging"`
}

// DisplayConfig controls how tokens are shown.
type DisplayConfig struct {
	Mode     string `toml:"mode"`     // "live" or "source"
	TabWidth int    `toml:"tabWidth"` // columns per tab in the terminal preview
}

// GlyphConfig controls glyph sizing.
type GlyphConfig struct {
	BaseSize      float64   `toml:"baseSize"`
	HeadingScales []float64 `toml:"headingScales"` // h1 through h6
}

// IconsConfig selects the glyph sources.
type IconsConfig struct {
	Builtin  bool     `toml:"builtin"`  // include the built-in pack
	Packs    []string `toml:"packs"`    // TOML, YAML or Lua pack files
	Database string   `toml:"database"` // SQLite icon table, empty to skip
	Watch    bool     `toml:"watch"`    // reload pack files when they change
}

// ViewportConfig controls the visible window.
type ViewportConfig struct {
	Padding      int `toml:"padding"` // bytes of slack around each visible range
	MarginTop    int `toml:"marginTop"`
	MarginBottom int `toml:"marginBottom"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // empty means stderr
	JSON  bool   `toml:"json"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Mode:     overlay.ModeLive.String(),
			TabWidth: 4,
		},
		Glyph: GlyphConfig{
			BaseSize:      16,
			HeadingScales: append([]float64(nil), glyph.DefaultHeadingScales[:]...),
		},
		Icons: IconsConfig{
			Builtin: true,
		},
		Viewport: ViewportConfig{
			Padding:      int(overlay.DefaultPadding),
			MarginTop:    viewport.DefaultMargins().Top,
			MarginBottom: viewport.DefaultMargins().Bottom,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "iconize", "config.toml")
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs        loader.FileSystem
	path      string
	envPrefix string
	useEnv    bool
}

// WithPath sets the config file path. Empty skips the file.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithFileSystem sets the file system used to read the config file.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithEnvPrefix changes the environment prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithoutEnv ignores the environment.
func WithoutEnv() Option {
	return func(o *options) {
		o.useEnv = false
	}
}

// Load builds the effective configuration and validates it.
func Load(opts ...Option) (*Config, error) {
	o := options{
		fs:        loader.DefaultFS(),
		path:      DefaultPath(),
		envPrefix: EnvPrefix,
		useEnv:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()
	if o.path != "" {
		if _, err := loader.NewTOMLLoaderWithFS(o.fs).LoadInto(o.path, cfg); err != nil {
			return nil, err
		}
	}
	if o.useEnv {
		env := loader.NewEnvLoader(o.envPrefix)
		env.AddMapping(o.envPrefix+"LOG_LEVEL", "logging.level")
		env.AddMapping(o.envPrefix+"MODE", "display.mode")
		if err := cfg.applyOverrides(env.Load()); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides sets each override by path. Variables with the prefix that
// name no setting are reported; CONFIG is reserved for the file path.
func (c *Config) applyOverrides(overrides []loader.Override) error {
	var errs []error
	for _, o := range overrides {
		if o.Path == "config" {
			continue
		}
		s, ok := c.settings()[o.Path]
		if !ok {
			errs = append(errs, &EnvError{Env: o.Env, Value: o.Value, Err: ErrUnknownSetting})
			continue
		}
		if err := s.set(o.Value); err != nil {
			errs = append(errs, &EnvError{Env: o.Env, Value: o.Value, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(path, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if _, err := overlay.ParseMode(c.Display.Mode); err != nil {
		invalid("display.mode", "%q is not live or source", c.Display.Mode)
	}
	if c.Display.TabWidth <= 0 {
		invalid("display.tabWidth", "must be positive, got %d", c.Display.TabWidth)
	}
	if c.Glyph.BaseSize <= 0 {
		invalid("glyph.baseSize", "must be positive, got %g", c.Glyph.BaseSize)
	}
	if n := len(c.Glyph.HeadingScales); n != len(glyph.DefaultHeadingScales) {
		invalid("glyph.headingScales", "need %d entries, got %d", len(glyph.DefaultHeadingScales), n)
	} else {
		for i, v := range c.Glyph.HeadingScales {
			if v <= 0 {
				invalid("glyph.headingScales", "entry %d must be positive, got %g", i+1, v)
			}
		}
	}
	if c.Viewport.Padding < 0 {
		invalid("viewport.padding", "must not be negative, got %d", c.Viewport.Padding)
	}
	if c.Viewport.MarginTop < 0 || c.Viewport.MarginBottom < 0 {
		invalid("viewport.margins", "must not be negative")
	}
	if _, ok := levels[c.Logging.Level]; !ok {
		invalid("logging.level", "unknown level %q", c.Logging.Level)
	}
	return errors.Join(errs...)
}

// levels lists the accepted logging levels.
var levels = map[string]struct{}{
	"trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {}, "disabled": {},
}

// DisplayMode returns the parsed display mode.
func (c *Config) DisplayMode() overlay.Mode {
	m, err := overlay.ParseMode(c.Display.Mode)
	if err != nil {
		return overlay.ModeLive
	}
	return m
}

// Sizer returns the glyph sizer the settings describe.
func (c *Config) Sizer() (glyph.ScaleSizer, error) {
	return glyph.NewScaleSizer(glyph.Size(c.Glyph.BaseSize), c.Glyph.HeadingScales)
}

// Margins returns the viewport scroll margins.
func (c *Config) Margins() viewport.MarginConfig {
	return viewport.MarginConfig{Top: c.Viewport.MarginTop, Bottom: c.Viewport.MarginBottom}
}
