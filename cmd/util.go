package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"thoreinstein.com/skinscout/pkg/api"
	"thoreinstein.com/skinscout/pkg/bootstrap"
	"thoreinstein.com/skinscout/pkg/config"
	"thoreinstein.com/skinscout/pkg/credentials"
	"thoreinstein.com/skinscout/pkg/kv"
	"thoreinstein.com/skinscout/pkg/recent"
	"thoreinstein.com/skinscout/pkg/ui"
)

// newKeyStore returns the API key store. Tests replace it to keep the OS
// keychain out of reach.
var newKeyStore = func() credentials.KeyStore {
	return credentials.NewKeyStore(config.Dir())
}

// selectEntry picks one of options interactively: fzf when available,
// a numbered prompt otherwise. Tests replace it.
var selectEntry = func(prompt string, options []string) (int, error) {
	idx, err := ui.SelectWithFzf(prompt, options)
	if errors.Is(err, ui.ErrNoFzf) {
		return ui.NewPrompter().Select(prompt, options)
	}
	return idx, err
}

// app holds what a command needs: config, logger and the local stores.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	kv        kv.Store
	recent    *recent.Store
	favorites *recent.Favorites
}

// newApp loads config and opens the configured store.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := bootstrap.NewLogger(os.Stderr, verbose)

	backend, err := kv.Open(ctx, kv.Options{
		Backend:     cfg.Store.Backend,
		Path:        cfg.Store.Path,
		RedisURL:    cfg.Store.RedisURL,
		RedisPrefix: cfg.Store.RedisPrefix,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", "backend", cfg.Store.Backend, "path", cfg.Store.Path)

	return &app{
		cfg:       cfg,
		logger:    logger,
		kv:        backend,
		recent:    recent.NewStore(backend, recent.WithLogger(logger)),
		favorites: recent.NewFavorites(backend, logger),
	}, nil
}

// Close releases the store.
func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.logger.Debug("failed to close store", "error", err)
	}
}

// client creates the API client, resolving the API key from the
// environment, the config file or the key store.
func (a *app) client() (*api.Client, error) {
	key, source, err := credentials.Resolve(a.cfg.API.Key, newKeyStore())
	if err != nil {
		// A broken keychain should not block anonymous searches.
		a.logger.Warn("could not read API key", "error", err)
	}
	if source != credentials.SourceNone {
		a.logger.Debug("using API key", "source", source)
	}

	return api.NewClient(api.Options{
		BaseURL:        a.cfg.API.BaseURL,
		Timeout:        a.cfg.API.Timeout,
		APIKey:         key,
		CacheTTL:       a.cfg.API.CacheTTL,
		MaxConcurrency: a.cfg.API.MaxConcurrency,
		UserAgent:      "skinscout/" + GetVersion(),
	}, api.WithLogger(a.logger))
}

// withApp runs fn with an app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
