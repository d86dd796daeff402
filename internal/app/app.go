package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/five82/wayfarer/internal/config"
	"github.com/five82/wayfarer/internal/enrich"
	"github.com/five82/wayfarer/internal/prefs"
	"github.com/five82/wayfarer/internal/state"
	"github.com/five82/wayfarer/internal/storage"
	"github.com/five82/wayfarer/internal/ui"
)

// Options configure the wayfarer application.
type Options struct {
	ConfigPath string // empty uses ~/.config/wayfarer/config.toml
	DataDir    string // overrides config data_dir when set
	Storage    string // overrides config storage when set
}

// runtime is everything Run wires together before starting the UI.
type runtime struct {
	cfg    config.Config
	log    *slog.Logger
	kv     storage.KV
	store  *state.Store
	lookup enrich.Lookup
	prefs  prefs.Prefs
	loaded <-chan error

	closers []io.Closer
}

// Close waits for the initial load to settle, then releases resources in
// reverse order of acquisition.
func (r *runtime) Close() error {
	if r.loaded != nil {
		<-r.loaded
	}
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run boots the wayfarer TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.log.Info("wayfarer starting",
		"config", rt.cfg.Path,
		"data_dir", rt.cfg.DataDir,
		"storage", rt.cfg.Storage,
		"enrich", rt.lookup != nil,
	)

	err = ui.Run(ui.Options{
		Context: ctx,
		Store:   rt.store,
		Lookup:  rt.lookup,
		Prefs:   rt.kv,
		Theme:   rt.prefs.Theme,
		Filter:  rt.prefs.Filter,
		Logger:  rt.log,
		LogPath: rt.cfg.LogPath(),
	})
	rt.log.Info("wayfarer stopped")
	return err
}

// setup loads configuration, opens the log and storage, and starts the
// destination store loading in the background.
func setup(ctx context.Context, opts Options) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Override(opts.DataDir, opts.Storage); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	rt := &runtime{cfg: cfg}

	logger, logFile, err := openLogger(cfg.LogPath(), cfg.Level())
	if err != nil {
		return nil, err
	}
	rt.log = logger
	rt.closers = append(rt.closers, logFile)

	if cfg.Enrich.Enabled {
		client, err := enrich.NewClient(enrich.Endpoints{
			NominatimURL:      cfg.Enrich.NominatimURL,
			OpenMeteoURL:      cfg.Enrich.OpenMeteoURL,
			UnsplashURL:       cfg.Enrich.UnsplashURL,
			UnsplashAccessKey: cfg.Enrich.UnsplashAccessKey,
			UserAgent:         cfg.Enrich.UserAgent,
		})
		if err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("init enrichment client: %w", err)
		}
		rt.lookup = client
	}

	kv, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	rt.kv = kv
	rt.closers = append(rt.closers, kv)

	rt.store = state.New(storage.NewSnapshots(kv), state.WithLogger(logger))
	// A failed load leaves the store empty and ready; the store logs it and
	// the UI shows the warning from its snapshot.
	rt.loaded = rt.store.LoadAsync(ctx)

	rt.prefs = prefs.Load(ctx, kv)
	return rt, nil
}
