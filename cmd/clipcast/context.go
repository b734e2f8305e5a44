package main

import (
	"log/slog"

	"clipcast/internal/api"
	"clipcast/internal/config"
	"clipcast/internal/logging"
	"clipcast/internal/registry"
)

// appContext carries lazily-built shared state between commands.
type appContext struct {
	configFlag string

	cfg    *config.Config
	logger *slog.Logger
	store  *registry.Store
}

func (app *appContext) ensureConfig() (*config.Config, error) {
	if app.cfg != nil {
		return app.cfg, nil
	}
	cfg, _, _, err := config.Load(app.configFlag)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	app.cfg = cfg
	return cfg, nil
}

func (app *appContext) ensureLogger() (*slog.Logger, error) {
	if app.logger != nil {
		return app.logger, nil
	}
	cfg, err := app.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})
	if err != nil {
		return nil, err
	}
	app.logger = logger
	return logger, nil
}

// openStore opens the registry; callers close via the returned function.
func (app *appContext) openStore() (*registry.Store, func(), error) {
	cfg, err := app.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := registry.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

// service builds the boundary facade. CLI submissions have no running
// manager to kick; the daemon's poller picks the job up.
func (app *appContext) service() (*api.Service, func(), error) {
	cfg, err := app.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := app.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := app.openStore()
	if err != nil {
		return nil, nil, err
	}
	return api.NewService(cfg, store, nil, logger), closeStore, nil
}
