package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clipcast/internal/logging"
)

// Start launches the configured number of worker goroutines.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return errors.New("workflow manager already running")
	}
	if len(m.stages) == 0 {
		return errors.New("workflow manager has no stages configured")
	}
	for _, ps := range m.stages {
		if ps.handler == nil {
			return fmt.Errorf("stage %s has no handler", ps.name)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true

	workers := m.cfg.Workflow.JobWorkers
	m.logger.Info("workflow manager starting", logging.Int("workers", workers))
	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.runWorker(runCtx, i)
	}
	return nil
}

// Stop cancels the workers and waits for in-flight jobs to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info("workflow manager stopped")
}

func (m *Manager) runWorker(ctx context.Context, worker int) {
	defer m.wg.Done()
	logger := m.logger.With(logging.Int("worker", worker))

	wait := m.pollInterval
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := m.store.ClaimNextSubmitted(ctx)
		switch {
		case ctx.Err() != nil:
			return
		case err != nil:
			logger.Error("claim failed", logging.Error(err))
			wait = m.errorRetry
		case job != nil:
			m.processJob(ctx, logger, job)
			// Drain the backlog before sleeping again.
			continue
		default:
			wait = m.pollInterval
		}

		if !m.sleep(ctx, wait) {
			return
		}
	}
}

// sleep waits out the interval unless a kick or shutdown arrives first. It
// reports false on shutdown.
func (m *Manager) sleep(ctx context.Context, interval time.Duration) bool {
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-m.kick:
		return true
	case <-timer.C:
		return true
	}
}
