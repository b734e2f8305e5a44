package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"clipcast/internal/config"
	"clipcast/internal/fileutil"
	"clipcast/internal/logging"
	"clipcast/internal/registry"
	"clipcast/internal/services"
)

// ErrUnsupportedMediaType reports a submission outside the configured
// MIME allow-list.
var ErrUnsupportedMediaType = fmt.Errorf("%w: unsupported media type", services.ErrValidation)

// Kicker wakes the workflow pollers after a submission. The manager
// satisfies it; a nil Kicker is allowed for CLI-only use.
type Kicker interface {
	Kick()
}

// Service implements the boundary operations.
type Service struct {
	cfg    *config.Config
	store  *registry.Store
	kicker Kicker
	logger *slog.Logger
}

// NewService builds the boundary facade.
func NewService(cfg *config.Config, store *registry.Store, kicker Kicker, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		store:  store,
		kicker: kicker,
		logger: logging.NewComponentLogger(logger, "api"),
	}
}

// SubmitRequest describes an upload. Reader, when set, supplies the bytes;
// otherwise SourcePath is copied.
type SubmitRequest struct {
	SourcePath  string
	Reader      io.Reader
	Filename    string
	Title       string
	Description string
	// MediaType overrides the type inferred from the filename extension.
	MediaType string
}

// Submit validates and stores an upload and inserts a submitted job. The
// media type check happens before anything is written, so a rejected
// submission leaves no trace. The upload is stored before the row is
// inserted; a submitted job is claimable the moment it exists, so its
// source file must already be in place.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (JobView, error) {
	filename := req.Filename
	if filename == "" {
		filename = filepath.Base(req.SourcePath)
	}
	if filename == "" || filename == "." {
		return JobView{}, services.Wrap(services.ErrValidation, "", "submit", "submission has no filename", nil)
	}

	mediaType := strings.ToLower(strings.TrimSpace(req.MediaType))
	if mediaType == "" {
		mediaType = mediaTypeForFilename(filename)
	}
	if !s.mediaTypeAllowed(mediaType) {
		return JobView{}, fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedMediaType,
			mediaType, strings.Join(s.cfg.Media.AllowedTypes, ", "))
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	// Upload artifacts are keyed by job id so concurrent submissions of
	// the same filename never collide. The id is generated up front so
	// the file can land before the row does.
	jobID := uuid.NewString()
	destPath := filepath.Join(s.cfg.Paths.UploadsDir, fmt.Sprintf("%s_%s", jobID, filename))
	var copyErr error
	if req.Reader != nil {
		copyErr = fileutil.WriteStream(req.Reader, destPath)
	} else {
		copyErr = fileutil.CopyFile(req.SourcePath, destPath)
	}
	if copyErr != nil {
		return JobView{}, services.Wrap(services.ErrTransient, "", "store upload", destPath, copyErr)
	}

	job, err := s.store.NewJob(ctx, registry.NewJobParams{
		ID:               jobID,
		Title:            title,
		Description:      strings.TrimSpace(req.Description),
		OriginalFilename: filename,
		SourcePath:       destPath,
		MediaType:        mediaType,
	})
	if err != nil {
		// No row exists; remove the stored upload so nothing leaks.
		if removeErr := fileutil.RemoveIfExists(destPath); removeErr != nil {
			s.logger.Error("failed to remove upload after insert failure",
				logging.String(logging.FieldJobID, jobID), logging.Error(removeErr))
		}
		return JobView{}, err
	}

	if s.kicker != nil {
		s.kicker.Kick()
	}
	s.logger.Info("job submitted",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("media_type", mediaType),
		logging.String("filename", filename))
	return fromJob(job), nil
}

// Status returns the polling view for a job.
func (s *Service) Status(ctx context.Context, id string) (StatusView, error) {
	job, err := s.requireJob(ctx, id)
	if err != nil {
		return StatusView{}, err
	}
	return StatusView{ID: job.ID, Status: job.Status.StageTag(), ErrorMessage: job.ErrorMessage}, nil
}

// Get returns the full job view.
func (s *Service) Get(ctx context.Context, id string) (JobView, error) {
	job, err := s.requireJob(ctx, id)
	if err != nil {
		return JobView{}, err
	}
	return fromJob(job), nil
}

// List returns every job, oldest first.
func (s *Service) List(ctx context.Context) ([]JobView, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]JobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, fromJob(job))
	}
	return views, nil
}

// Highlights returns the job's highlights in extraction order. A job that
// exists but has produced nothing yet yields an empty slice; an unknown
// job yields ErrNotFound.
func (s *Service) Highlights(ctx context.Context, id string) ([]HighlightView, error) {
	if _, err := s.requireJob(ctx, id); err != nil {
		return nil, err
	}
	highlights, err := s.store.HighlightsForJob(ctx, id)
	if err != nil {
		return nil, err
	}
	views := make([]HighlightView, 0, len(highlights))
	for _, h := range highlights {
		views = append(views, fromHighlight(h))
	}
	return views, nil
}

// Plan returns the job's content plan. Both an unknown job and a plan not
// yet generated yield ErrNotFound.
func (s *Service) Plan(ctx context.Context, id string) (PlanView, error) {
	if _, err := s.requireJob(ctx, id); err != nil {
		return PlanView{}, err
	}
	plan, err := s.store.PlanForJob(ctx, id)
	if err != nil {
		return PlanView{}, err
	}
	if plan == nil {
		return PlanView{}, fmt.Errorf("%w: no content plan for job %s", services.ErrNotFound, id)
	}
	return fromPlan(plan), nil
}

func (s *Service) requireJob(ctx context.Context, id string) (*registry.Job, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: job %s", services.ErrNotFound, id)
	}
	return job, nil
}

func (s *Service) mediaTypeAllowed(mediaType string) bool {
	for _, allowed := range s.cfg.Media.AllowedTypes {
		if mediaType == allowed {
			return true
		}
	}
	return false
}

// mediaTypeForFilename infers the MIME type from the extension, with fixed
// answers for the formats the pipeline cares about (mime tables vary by
// host).
func mediaTypeForFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	}
	if detected := mime.TypeByExtension(ext); detected != "" {
		if base, _, err := mime.ParseMediaType(detected); err == nil {
			return base
		}
	}
	return "application/octet-stream"
}
