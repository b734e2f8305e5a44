package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clipcast/internal/logging"
	"clipcast/internal/registry"
	"clipcast/internal/services"
)

// processJob drives a freshly claimed job through every stage. The claim
// already moved the job to the first stage's status.
func (m *Manager) processJob(ctx context.Context, logger *slog.Logger, job *registry.Job) {
	requestID := uuid.NewString()
	jobCtx := services.WithJobID(ctx, job.ID)
	jobCtx = services.WithRequestID(jobCtx, requestID)
	jobLogger := logging.WithContext(jobCtx, logger)

	started := time.Now()
	jobLogger.Info("job started", logging.String("title", job.Title))

	for _, ps := range m.stages {
		if job.Status != ps.status {
			if err := m.store.Transition(jobCtx, job, ps.status); err != nil {
				m.failJob(jobCtx, jobLogger, job, ps.name,
					services.Wrap(services.ErrTransient, string(ps.status), "persist transition", "registry update failed", err))
				return
			}
		}
		if err := m.runStage(jobCtx, jobLogger, ps, job); err != nil {
			m.failJob(jobCtx, jobLogger, job, ps.name, err)
			return
		}
	}

	if err := m.store.Transition(jobCtx, job, registry.StatusCompleted); err != nil {
		m.failJob(jobCtx, jobLogger, job, "completion",
			services.Wrap(services.ErrTransient, "completion", "persist transition", "registry update failed", err))
		return
	}
	jobLogger.Info("job completed",
		logging.String(logging.FieldEventType, logging.EventJobCompleted),
		logging.Int("highlights", job.HighlightsCount),
		logging.Duration(logging.FieldDuration, time.Since(started)))
}

func (m *Manager) runStage(ctx context.Context, logger *slog.Logger, ps pipelineStage, job *registry.Job) error {
	stageCtx := services.WithStage(ctx, string(ps.status))
	stageLogger := logger.With(logging.String(logging.FieldStage, string(ps.status)))

	started := time.Now()
	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, logging.EventStageStarted))

	if err := ps.handler.Prepare(stageCtx, job); err != nil {
		return err
	}
	// Persist Prepare's mutations so a crash mid-stage leaves an accurate
	// record.
	if err := m.store.UpdateJob(stageCtx, job); err != nil {
		return services.Wrap(services.ErrTransient, string(ps.status), "persist prepared job", "registry update failed", err)
	}

	if err := ps.handler.Execute(stageCtx, job); err != nil {
		return err
	}
	if err := m.store.UpdateJob(stageCtx, job); err != nil {
		return services.Wrap(services.ErrTransient, string(ps.status), "persist stage results", "registry update failed", err)
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, logging.EventStageCompleted),
		logging.Duration(logging.FieldDuration, time.Since(started)))
	return nil
}
