package registry

import (
	"context"
	"fmt"
	"time"
)

// AddHighlight inserts a highlight row for its job.
func (s *Store) AddHighlight(ctx context.Context, highlight *Highlight) error {
	if highlight.CreatedAt.IsZero() {
		highlight.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO highlights (id, job_id, idx, title, description,
			start_seconds, end_seconds, clip_path, thumbnail_path,
			subtitle_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		highlight.ID, highlight.JobID, highlight.Idx, highlight.Title,
		highlight.Description, highlight.StartSeconds, highlight.EndSeconds,
		highlight.ClipPath, highlight.ThumbnailPath, highlight.SubtitlePath,
		formatTime(highlight.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert highlight %s: %w", highlight.ID, err)
	}
	return nil
}

// HighlightsForJob returns the job's highlights in extraction order.
func (s *Store) HighlightsForJob(ctx context.Context, jobID string) ([]*Highlight, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_id, idx, title, description, start_seconds, end_seconds,
			clip_path, thumbnail_path, subtitle_path, created_at
		FROM highlights WHERE job_id = ? ORDER BY idx`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list highlights for job %s: %w", jobID, err)
	}
	defer rows.Close()

	var highlights []*Highlight
	for rows.Next() {
		var (
			h         Highlight
			createdAt string
		)
		err := rows.Scan(&h.ID, &h.JobID, &h.Idx, &h.Title, &h.Description,
			&h.StartSeconds, &h.EndSeconds, &h.ClipPath, &h.ThumbnailPath,
			&h.SubtitlePath, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan highlight: %w", err)
		}
		h.CreatedAt = parseTime(createdAt)
		highlights = append(highlights, &h)
	}
	return highlights, rows.Err()
}
