package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/iconize/internal/config"
	"github.com/dshills/iconize/internal/icon"
)

// Icons is the registry assembled from settings plus the watchers that keep
// its pack files current.
type Icons struct {
	Registry *icon.MapRegistry
	Watchers []*icon.Watcher

	mu       sync.Mutex
	onReload func(pack string, n int)
}

// LoadIcons builds the registry. Later sources win on id clashes: the
// built-in pack, then the SQLite table, then pack files in order.
func LoadIcons(ctx context.Context, cfg config.IconsConfig, logger zerolog.Logger) (*Icons, error) {
	ic := &Icons{Registry: icon.NewMapRegistry()}
	if cfg.Builtin {
		ic.Registry.Merge(icon.Builtin())
	}

	if cfg.Database != "" {
		src, err := icon.OpenSQLite(cfg.Database)
		if err != nil {
			return nil, err
		}
		descs, err := src.Load(ctx)
		src.Close()
		if err != nil {
			return nil, err
		}
		n := ic.Registry.Merge(descs)
		logger.Debug().Str("db", cfg.Database).Int("icons", n).Msg("icon database loaded")
	}

	for _, path := range cfg.Packs {
		if !cfg.Watch {
			pack, err := icon.LoadFile(path)
			if err != nil {
				return nil, err
			}
			n := ic.Registry.ReplacePack(pack.Name, pack.Descriptors())
			logger.Debug().Str("pack", pack.Name).Int("icons", n).Msg("icon pack loaded")
			continue
		}
		w, err := icon.NewWatcher(path, ic.Registry,
			icon.WithWatcherLogger(logger),
			icon.WithReloadHook(ic.reloaded),
		)
		if err != nil {
			ic.Close()
			return nil, err
		}
		ic.Watchers = append(ic.Watchers, w)
	}
	return ic, nil
}

// OnReload sets the function called after a watched pack changes.
func (ic *Icons) OnReload(fn func(pack string, n int)) {
	ic.mu.Lock()
	ic.onReload = fn
	ic.mu.Unlock()
}

func (ic *Icons) reloaded(pack string, n int) {
	ic.mu.Lock()
	fn := ic.onReload
	ic.mu.Unlock()
	if fn != nil {
		fn(pack, n)
	}
}

// Runners returns the watchers as application runners.
func (ic *Icons) Runners() []Runner {
	out := make([]Runner, len(ic.Watchers))
	for i, w := range ic.Watchers {
		out[i] = w
	}
	return out
}

// Close stops every watcher.
func (ic *Icons) Close() error {
	var errs []error
	for _, w := range ic.Watchers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing watcher %s: %w", w.Path(), err))
		}
	}
	return errors.Join(errs...)
}
