package registry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clipcast/internal/services"
)

// NewJobParams carries the fields known at submission time. ID may be set
// by callers that name artifacts after the job before inserting the row;
// when empty a fresh uuid is generated.
type NewJobParams struct {
	ID               string
	Title            string
	Description      string
	OriginalFilename string
	SourcePath       string
	MediaType        string
}

const jobColumns = `id, title, description, original_filename, source_path, media_type,
	status, error_message, duration_seconds, frame_count, analysis_json,
	highlights_count, plan_path, created_at, updated_at`

// NewJob inserts a job in the submitted state and returns it.
func (s *Store) NewJob(ctx context.Context, params NewJobParams) (*Job, error) {
	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	job := &Job{
		ID:               id,
		Title:            params.Title,
		Description:      params.Description,
		OriginalFilename: params.OriginalFilename,
		SourcePath:       params.SourcePath,
		MediaType:        params.MediaType,
		Status:           StatusSubmitted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, title, description, original_filename, source_path,
			media_type, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Title, job.Description, job.OriginalFilename, job.SourcePath,
		job.MediaType, string(job.Status), formatTime(job.CreatedAt), formatTime(job.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

// GetJob returns the job with the given id, or nil when it does not exist.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

// ListJobs returns every job, oldest first.
func (s *Store) ListJobs(ctx context.Context) ([]*Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// UpdateJob persists the mutable fields of job and bumps updated_at.
func (s *Store) UpdateJob(ctx context.Context, job *Job) error {
	job.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET title = ?, description = ?, source_path = ?, status = ?,
			error_message = ?, duration_seconds = ?, frame_count = ?,
			analysis_json = ?, highlights_count = ?, plan_path = ?, updated_at = ?
		WHERE id = ?`,
		job.Title, job.Description, job.SourcePath, string(job.Status),
		nullableString(job.ErrorMessage), job.DurationSeconds, job.FrameCount,
		nullableString(job.AnalysisJSON), job.HighlightsCount,
		nullableString(job.PlanPath), formatTime(job.UpdatedAt), job.ID)
	if err != nil {
		return fmt.Errorf("update job %s: %w", job.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job %s: %w", job.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update job %s: %w", job.ID, services.ErrNotFound)
	}
	return nil
}

// ClaimNextSubmitted atomically moves the oldest submitted job to processing
// and returns it. It returns nil when nothing is waiting.
func (s *Store) ClaimNextSubmitted(ctx context.Context) (*Job, error) {
	for {
		row := s.db.QueryRowContext(ctx, `
			SELECT `+jobColumns+` FROM jobs
			WHERE status = ? ORDER BY created_at, id LIMIT 1`, string(StatusSubmitted))
		job, err := scanJob(row)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("select submitted job: %w", err)
		}

		now := time.Now().UTC()
		result, err := s.db.ExecContext(ctx, `
			UPDATE jobs SET status = ?, updated_at = ?
			WHERE id = ? AND status = ?`,
			string(StatusProcessing), formatTime(now), job.ID, string(StatusSubmitted))
		if err != nil {
			return nil, fmt.Errorf("claim job %s: %w", job.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("claim job %s: %w", job.ID, err)
		}
		if affected == 0 {
			// Another worker won the race; try the next candidate.
			continue
		}
		job.Status = StatusProcessing
		job.UpdatedAt = now
		return job, nil
	}
}

// Transition validates and persists a status change, updating job in place.
func (s *Store) Transition(ctx context.Context, job *Job, next Status) error {
	if !job.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, next)
	}
	previous := job.Status
	job.Status = next
	if err := s.UpdateJob(ctx, job); err != nil {
		job.Status = previous
		return err
	}
	return nil
}

// FailStuck marks every job still in a transient status as failed. The
// daemon holds an exclusive lock, so at startup such jobs are provably
// orphaned by a previous crash.
func (s *Store) FailStuck(ctx context.Context, message string) (int64, error) {
	now := formatTime(time.Now().UTC())
	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, error_message = ?, updated_at = ?
		WHERE status IN (?, ?, ?, ?)`,
		string(StatusError), message, now,
		string(StatusProcessing), string(StatusAnalyzing),
		string(StatusExtractingHighlights), string(StatusGeneratingContentPlan))
	if err != nil {
		return 0, fmt.Errorf("fail stuck jobs: %w", err)
	}
	return result.RowsAffected()
}

// RemoveJob deletes the job row; highlights and the plan cascade. It
// reports whether a row existed.
func (s *Store) RemoveJob(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("remove job %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove job %s: %w", id, err)
	}
	return affected > 0, nil
}

// Stats returns the number of jobs per status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var (
		job          Job
		status       string
		errorMessage sql.NullString
		analysisJSON sql.NullString
		planPath     sql.NullString
		createdAt    string
		updatedAt    string
	)
	err := row.Scan(&job.ID, &job.Title, &job.Description, &job.OriginalFilename,
		&job.SourcePath, &job.MediaType, &status, &errorMessage,
		&job.DurationSeconds, &job.FrameCount, &analysisJSON,
		&job.HighlightsCount, &planPath, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	job.Status = Status(status)
	job.ErrorMessage = stringOrEmpty(errorMessage)
	job.AnalysisJSON = stringOrEmpty(analysisJSON)
	job.PlanPath = stringOrEmpty(planPath)
	job.CreatedAt = parseTime(createdAt)
	job.UpdatedAt = parseTime(updatedAt)
	return &job, nil
}
