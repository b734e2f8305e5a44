package api

import (
	"context"

	"clipcast/internal/fileutil"
	"clipcast/internal/logging"
)

// Remove deletes the job's rows and every artifact file it produced. File
// deletion is idempotent; a file already gone is not an error, so Remove
// can be retried safely.
func (s *Service) Remove(ctx context.Context, id string) error {
	job, err := s.requireJob(ctx, id)
	if err != nil {
		return err
	}

	// Collect artifact paths before the rows cascade away.
	paths := []string{job.SourcePath, job.PlanPath}
	highlights, err := s.store.HighlightsForJob(ctx, id)
	if err != nil {
		return err
	}
	for _, h := range highlights {
		paths = append(paths, h.ClipPath, h.ThumbnailPath, h.SubtitlePath)
	}

	if _, err := s.store.RemoveJob(ctx, id); err != nil {
		return err
	}
	for _, path := range paths {
		if err := fileutil.RemoveIfExists(path); err != nil {
			// The rows are gone; report but keep deleting the rest.
			s.logger.Warn("failed to delete artifact",
				logging.String(logging.FieldJobID, id),
				logging.String(logging.FieldPath, path),
				logging.Error(err))
		}
	}

	s.logger.Info("job removed",
		logging.String(logging.FieldJobID, id),
		logging.Int("artifacts", len(paths)))
	return nil
}
