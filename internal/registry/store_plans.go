package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SavePlan stores (or replaces) the content plan for its job. Posts are
// kept as an ordered JSON column.
func (s *Store) SavePlan(ctx context.Context, plan *ContentPlan) error {
	if plan.GeneratedAt.IsZero() {
		plan.GeneratedAt = time.Now().UTC()
	}
	posts, err := json.Marshal(plan.Posts)
	if err != nil {
		return fmt.Errorf("encode plan posts: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO content_plans (job_id, title, generated_at, posts_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (job_id) DO UPDATE SET
			title = excluded.title,
			generated_at = excluded.generated_at,
			posts_json = excluded.posts_json`,
		plan.JobID, plan.Title, formatTime(plan.GeneratedAt), string(posts))
	if err != nil {
		return fmt.Errorf("save plan for job %s: %w", plan.JobID, err)
	}
	return nil
}

// PlanForJob returns the job's content plan, or nil when none exists yet.
func (s *Store) PlanForJob(ctx context.Context, jobID string) (*ContentPlan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT job_id, title, generated_at, posts_json
		FROM content_plans WHERE job_id = ?`, jobID)

	var (
		plan        ContentPlan
		generatedAt string
		postsJSON   string
	)
	err := row.Scan(&plan.JobID, &plan.Title, &generatedAt, &postsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plan for job %s: %w", jobID, err)
	}
	plan.GeneratedAt = parseTime(generatedAt)
	if err := json.Unmarshal([]byte(postsJSON), &plan.Posts); err != nil {
		return nil, fmt.Errorf("decode plan posts for job %s: %w", jobID, err)
	}
	return &plan, nil
}
