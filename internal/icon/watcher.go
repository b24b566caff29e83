package icon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher keeps one pack of a MapRegistry in sync with a pack file.
// Editors often save by writing a temp file and renaming it over the
// original, so the containing directory is watched instead of the file.
type Watcher struct {
	path     string
	fs       FileSystem
	registry *MapRegistry
	fsw      *fsnotify.Watcher
	logger   zerolog.Logger
	onReload func(pack string, n int)

	mu          sync.Mutex
	fingerprint string
	packName    string
	closed      bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger used for reload messages.
func WithWatcherLogger(l zerolog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithWatcherFS sets the file system used to read the pack file.
func WithWatcherFS(fs FileSystem) WatcherOption {
	return func(w *Watcher) {
		w.fs = fs
	}
}

// WithReloadHook sets a callback invoked after every effective reload.
func WithReloadHook(fn func(pack string, n int)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher creates a watcher for the pack file at path and loads it once.
func NewWatcher(path string, reg *MapRegistry, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		fs:       DefaultFS(),
		registry: reg,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if _, err := w.Reload(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw
	return w, nil
}

// Path returns the absolute path of the watched pack file.
func (w *Watcher) Path() string {
	return w.path
}

// Reload reads the pack file and updates the registry when its content
// changed since the last reload. It reports whether the registry changed.
func (w *Watcher) Reload() (bool, error) {
	data, err := w.fs.ReadFile(w.path)
	if err != nil {
		return false, fmt.Errorf("reading icon pack %s: %w", w.path, err)
	}
	sum := Fingerprint(data)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false, ErrWatcherClosed
	}
	if sum == w.fingerprint {
		return false, nil
	}

	pack, err := Parse(DetectFormat(w.path), w.path, data)
	if err != nil {
		return false, err
	}
	if w.packName != "" && w.packName != pack.Name {
		w.registry.ReplacePack(w.packName, nil)
	}
	n := w.registry.ReplacePack(pack.Name, pack.Descriptors())
	w.fingerprint = sum
	w.packName = pack.Name

	w.logger.Debug().Str("pack", pack.Name).Int("icons", n).Str("path", w.path).Msg("icon pack loaded")
	if w.onReload != nil {
		w.onReload(pack.Name, n)
	}
	return true, nil
}

// Run processes file events until ctx is done or the watcher is closed.
// Parse errors are logged and the previous pack content is kept.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if _, err := w.Reload(); err != nil {
				if errors.Is(err, ErrWatcherClosed) {
					return nil
				}
				w.logger.Warn().Err(err).Str("path", w.path).Msg("icon pack reload failed")
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Str("path", w.path).Msg("icon pack watcher error")
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}
