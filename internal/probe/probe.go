// Package probe is the first pipeline stage: it inspects the uploaded
// source and records its duration and frame count on the job.
package probe

import (
	"context"
	"log/slog"
	"os/exec"

	"clipcast/internal/config"
	"clipcast/internal/fileutil"
	"clipcast/internal/logging"
	"clipcast/internal/media"
	"clipcast/internal/registry"
	"clipcast/internal/services"
	"clipcast/internal/stage"
)

const stageName = "processing"

// Prober is the slice of the media capability this stage needs.
type Prober interface {
	Probe(ctx context.Context, sourcePath string) (media.Info, error)
}

// Handler implements the probe stage.
type Handler struct {
	cfg        *config.Config
	prober     Prober
	ffprobeBin string
	logger     *slog.Logger
}

// New builds the stage with the production ffprobe-backed prober.
func New(cfg *config.Config, logger *slog.Logger) *Handler {
	processor := media.NewFFmpeg(cfg.Media)
	h := NewWithProber(cfg, processor, logger)
	h.ffprobeBin = processor.FFprobeBinary()
	return h
}

// NewWithProber builds the stage with an injected prober.
func NewWithProber(cfg *config.Config, prober Prober, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		prober: prober,
		logger: logging.NewComponentLogger(logger, "probe"),
	}
}

func (h *Handler) Prepare(ctx context.Context, job *registry.Job) error {
	if !fileutil.FileExists(job.SourcePath) {
		return services.Wrap(services.ErrValidation, stageName, "locate source",
			"uploaded file missing at "+job.SourcePath, nil)
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, job *registry.Job) error {
	info, err := h.prober.Probe(ctx, job.SourcePath)
	if err != nil {
		return err
	}

	job.DurationSeconds = info.DurationSeconds
	job.FrameCount = info.FrameCount
	logging.WithContext(ctx, h.logger).Info("source probed",
		logging.Float64("duration_seconds", info.DurationSeconds),
		logging.Int64("frames", info.FrameCount),
		logging.String("format", info.FormatName))
	return nil
}

func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	bin := h.ffprobeBin
	if bin == "" {
		// Injected prober; nothing external to check.
		return stage.Healthy("probe")
	}
	if _, err := exec.LookPath(bin); err != nil {
		return stage.Unhealthy("probe", err)
	}
	return stage.Healthy("probe")
}
