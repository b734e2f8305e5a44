// clipcastd is the clipcast pipeline daemon: it watches the registry for
// submitted jobs and drives them through probing, analysis, extraction and
// planning until signalled to stop.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clipcast/internal/config"
	"clipcast/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "clipcastd:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, configPath, found, err := config.Load(os.Getenv("CLIPCAST_CONFIG"))
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Format:   cfg.Logging.Format,
		Level:    cfg.Logging.Level,
		FilePath: cfg.LogFilePath(),
	})
	if err != nil {
		return err
	}
	if found {
		logger.Info("configuration loaded", logging.String(logging.FieldPath, configPath))
	} else {
		logger.Info("no configuration file found, using defaults",
			logging.String(logging.FieldPath, configPath))
	}

	d, cleanup, err := bootstrap(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	logger.Info("shutdown signal received")
	d.Stop()
	return nil
}
