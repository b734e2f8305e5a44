package main

import (
	"log/slog"

	"clipcast/internal/analysis"
	"clipcast/internal/config"
	"clipcast/internal/daemon"
	"clipcast/internal/extraction"
	"clipcast/internal/planning"
	"clipcast/internal/probe"
	"clipcast/internal/registry"
	"clipcast/internal/workflow"
)

// bootstrap wires the store, stages and manager into a daemon. The
// returned cleanup closes the store.
func bootstrap(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, func(), error) {
	store, err := registry.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, err
	}

	manager := workflow.NewManager(cfg, store, logger)
	manager.ConfigureStages(buildStages(cfg, store, logger))

	d := daemon.New(cfg, store, manager, logger)
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close registry", "error", err)
		}
	}
	return d, cleanup, nil
}

func buildStages(cfg *config.Config, store *registry.Store, logger *slog.Logger) workflow.StageSet {
	return workflow.StageSet{
		Probe:      probe.New(cfg, logger),
		Analysis:   analysis.New(cfg, logger),
		Extraction: extraction.New(cfg, store, logger),
		Planning:   planning.New(cfg, store, logger),
	}
}
