// Package extraction is the third pipeline stage: for every analyzed
// moment it cuts a clip, grabs a midpoint thumbnail, generates subtitles,
// and registers the highlight.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"clipcast/internal/analysis"
	"clipcast/internal/config"
	"clipcast/internal/inference"
	"clipcast/internal/logging"
	"clipcast/internal/media"
	"clipcast/internal/registry"
	"clipcast/internal/services"
	"clipcast/internal/stage"
)

const stageName = "extracting_highlights"

// Captioner is the slice of the inference capability this stage needs.
type Captioner interface {
	GenerateSubtitles(ctx context.Context, title, description string, clipDurationSeconds float64) (inference.Captions, error)
}

// Handler implements the extraction stage.
type Handler struct {
	cfg       *config.Config
	store     *registry.Store
	processor media.Processor
	ffmpegBin string
	logger    *slog.Logger

	mu        sync.Mutex
	captioner Captioner
}

// New builds the stage with the production ffmpeg processor; the inference
// client is constructed lazily in Prepare.
func New(cfg *config.Config, store *registry.Store, logger *slog.Logger) *Handler {
	processor := media.NewFFmpeg(cfg.Media)
	h := NewWithDependencies(cfg, store, processor, nil, logger)
	h.ffmpegBin = processor.FFmpegBinary()
	return h
}

// NewWithDependencies builds the stage with injected capabilities.
func NewWithDependencies(cfg *config.Config, store *registry.Store, processor media.Processor, captioner Captioner, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     store,
		processor: processor,
		captioner: captioner,
		logger:    logging.NewComponentLogger(logger, "extraction"),
	}
}

func (h *Handler) Prepare(ctx context.Context, job *registry.Job) error {
	if _, err := analysis.DecodeAnalysis(job); err != nil {
		return err
	}
	_, err := h.ensureCaptioner()
	return err
}

func (h *Handler) ensureCaptioner() (Captioner, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.captioner == nil {
		client, err := inference.NewClient(h.cfg.LLM)
		if err != nil {
			return nil, err
		}
		h.captioner = client
	}
	return h.captioner, nil
}

func (h *Handler) Execute(ctx context.Context, job *registry.Job) error {
	result, err := analysis.DecodeAnalysis(job)
	if err != nil {
		return err
	}

	intervals, err := clampMoments(result.Moments, job.DurationSeconds)
	if err != nil {
		return err
	}

	highlights, err := h.extractAll(ctx, job, intervals)
	if err != nil {
		return err
	}

	// Rows are inserted sequentially in index order once every worker has
	// finished, so a partial failure never leaves highlights registered.
	for _, highlight := range highlights {
		if err := h.store.AddHighlight(ctx, highlight); err != nil {
			return services.Wrap(services.ErrTransient, stageName, "register highlight", "registry insert failed", err)
		}
	}

	logging.WithContext(ctx, h.logger).Info("highlights extracted",
		logging.Int("highlights", len(highlights)),
		logging.Bool("from_fallback", result.Synthesized))
	return nil
}

func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	bin := h.ffmpegBin
	if bin == "" {
		return stage.Healthy("extraction")
	}
	if _, err := exec.LookPath(bin); err != nil {
		return stage.Unhealthy("extraction", err)
	}
	return stage.Healthy("extraction")
}

// clampMoments bounds every interval to the source duration. An interval
// that is empty after clamping aborts the job; dropping it silently would
// make the highlight count lie about the analysis output.
func clampMoments(moments []inference.Moment, durationSeconds float64) ([]inference.Moment, error) {
	clamped := make([]inference.Moment, len(moments))
	for i, moment := range moments {
		if moment.StartSeconds < 0 {
			moment.StartSeconds = 0
		}
		if moment.EndSeconds > durationSeconds {
			moment.EndSeconds = durationSeconds
		}
		if moment.StartSeconds >= moment.EndSeconds || moment.StartSeconds >= durationSeconds {
			return nil, services.Wrap(services.ErrValidation, stageName, "validate interval",
				fmt.Sprintf("moment %d is empty after clamping to %.3f s (start %.3f, end %.3f)",
					i, durationSeconds, moment.StartSeconds, moment.EndSeconds), nil)
		}
		clamped[i] = moment
	}
	return clamped, nil
}

// extractAll fans the moments out over a bounded worker pool. Results are
// placed by index so output order never depends on completion order; the
// first failure cancels the remaining work.
func (h *Handler) extractAll(ctx context.Context, job *registry.Job, moments []inference.Moment) ([]*registry.Highlight, error) {
	workers := h.cfg.Workflow.ExtractWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(moments) {
		workers = len(moments)
	}
	if len(moments) == 0 {
		return nil, nil
	}

	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type task struct {
		index  int
		moment inference.Moment
	}
	tasks := make(chan task)
	results := make([]*registry.Highlight, len(moments))
	errs := make([]error, len(moments))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tk := range tasks {
				highlight, err := h.extractOne(poolCtx, job, tk.index, tk.moment)
				if err != nil {
					errs[tk.index] = err
					cancel()
					continue
				}
				results[tk.index] = highlight
			}
		}()
	}

	for i, moment := range moments {
		select {
		case tasks <- task{index: i, moment: moment}:
		case <-poolCtx.Done():
		}
	}
	close(tasks)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if poolCtx.Err() != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return results, nil
}

// extractOne produces the clip, thumbnail and subtitle artifacts for one
// moment.
func (h *Handler) extractOne(ctx context.Context, job *registry.Job, index int, moment inference.Moment) (*registry.Highlight, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	highlightID := uuid.NewString()
	clipPath := filepath.Join(h.cfg.Paths.ClipsDir, fmt.Sprintf("%s_highlight_%d.mp4", job.ID, index))
	thumbnailPath := filepath.Join(h.cfg.Paths.ThumbnailsDir, highlightID+".jpg")
	subtitlePath := filepath.Join(h.cfg.Paths.SubtitlesDir, highlightID+".vtt")

	if err := h.processor.ExtractClip(ctx, job.SourcePath, clipPath, moment.StartSeconds, moment.EndSeconds); err != nil {
		return nil, stageError("cut clip", err)
	}

	midpoint := moment.StartSeconds + (moment.EndSeconds-moment.StartSeconds)/2
	if err := h.processor.ExtractThumbnail(ctx, job.SourcePath, thumbnailPath, midpoint); err != nil {
		return nil, stageError("grab thumbnail", err)
	}

	captioner, err := h.ensureCaptioner()
	if err != nil {
		return nil, err
	}
	clipDuration := moment.EndSeconds - moment.StartSeconds
	captions, err := captioner.GenerateSubtitles(ctx, moment.Title, moment.Description, clipDuration)
	if err != nil {
		return nil, stageError("generate subtitles", err)
	}
	if captions.Synthesized {
		logging.WithContext(ctx, h.logger).Warn("caption output unusable, synthesized a covering cue",
			logging.String(logging.FieldEventType, logging.EventCaptionFallback),
			logging.String(logging.FieldHighlightID, highlightID))
	}
	if err := os.WriteFile(subtitlePath, []byte(captions.Document), 0o644); err != nil {
		return nil, services.Wrap(services.ErrTransient, stageName, "write subtitles", subtitlePath, err)
	}

	return &registry.Highlight{
		ID:            highlightID,
		JobID:         job.ID,
		Idx:           index,
		Title:         moment.Title,
		Description:   moment.Description,
		StartSeconds:  moment.StartSeconds,
		EndSeconds:    moment.EndSeconds,
		ClipPath:      clipPath,
		ThumbnailPath: thumbnailPath,
		SubtitlePath:  subtitlePath,
	}, nil
}

// stageError keeps already-classified errors intact and classifies the
// rest as external tool failures.
func stageError(operation string, err error) error {
	switch services.ClassificationLabel(err) {
	case "unclassified":
		return services.Wrap(services.ErrExternalTool, stageName, operation, "capability call failed", err)
	default:
		return err
	}
}
