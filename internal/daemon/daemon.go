// Package daemon ties the pieces together for long-running operation: a
// single-instance lock, the startup orphan sweep, and the workflow manager
// lifecycle.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"clipcast/internal/config"
	"clipcast/internal/logging"
	"clipcast/internal/registry"
	"clipcast/internal/workflow"
)

// Daemon runs the pipeline until stopped.
type Daemon struct {
	cfg     *config.Config
	store   *registry.Store
	manager *workflow.Manager
	logger  *slog.Logger

	lock    *flock.Flock
	running bool
}

// New builds a Daemon around an already-configured manager.
func New(cfg *config.Config, store *registry.Store, manager *workflow.Manager, logger *slog.Logger) *Daemon {
	return &Daemon{
		cfg:     cfg,
		store:   store,
		manager: manager,
		logger:  logging.NewComponentLogger(logger, "daemon"),
		lock:    flock.New(LockPath(cfg)),
	}
}

// LockPath returns the single-instance lock file location.
func LockPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, "clipcastd.lock")
}

// Start acquires the instance lock, fails orphaned jobs, and launches the
// workers.
func (d *Daemon) Start(ctx context.Context) error {
	locked, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another clipcastd instance holds %s", d.lock.Path())
	}

	// Holding the lock proves no other instance is processing, so any job
	// still mid-pipeline was orphaned by a crash.
	failed, err := d.store.FailStuck(ctx, "daemon restarted while the job was processing")
	if err != nil {
		d.unlock()
		return err
	}
	if failed > 0 {
		d.logger.Warn("failed orphaned jobs from previous run", logging.Int64("jobs", failed))
	}

	if err := d.manager.Start(ctx); err != nil {
		d.unlock()
		return err
	}
	d.running = true
	d.logger.Info("daemon started", logging.String(logging.FieldPath, d.lock.Path()))
	return nil
}

// Stop shuts the workers down and releases the lock.
func (d *Daemon) Stop() {
	if !d.running {
		return
	}
	d.running = false
	d.manager.Stop()
	d.unlock()
	d.logger.Info("daemon stopped")
}

func (d *Daemon) unlock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Error("failed to release daemon lock", logging.Error(err))
	}
}
