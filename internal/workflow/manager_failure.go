package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"clipcast/internal/logging"
	"clipcast/internal/registry"
)

// failJob records the failure on the job and lands it in the error status.
func (m *Manager) failJob(ctx context.Context, logger *slog.Logger, job *registry.Job, stageName string, cause error) {
	message := fmt.Sprintf("%s stage failed: %v", stageName, cause)
	job.SetFailed(message)

	if err := m.store.UpdateJob(ctx, job); err != nil {
		// The job row could not be updated; the startup FailStuck sweep
		// will catch it on the next daemon run.
		logger.Error("failed to record job failure",
			logging.Alert("registry unavailable"),
			logging.Error(err))
	}

	logger.Error("job failed",
		logging.String(logging.FieldEventType, logging.EventJobFailed),
		logging.String(logging.FieldStage, stageName),
		logging.Error(cause))
}
