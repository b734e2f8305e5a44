// Package analysis is the second pipeline stage: it asks the inference
// service for highlight moments and persists them on the job.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"clipcast/internal/config"
	"clipcast/internal/inference"
	"clipcast/internal/logging"
	"clipcast/internal/registry"
	"clipcast/internal/services"
	"clipcast/internal/stage"
)

const stageName = "analyzing"

// Analyzer is the slice of the inference capability this stage needs.
type Analyzer interface {
	AnalyzeVideo(ctx context.Context, sourcePath string, durationSeconds float64, frameCount int64) (inference.Analysis, error)
	HealthCheck(ctx context.Context) error
}

// Handler implements the analysis stage.
type Handler struct {
	cfg    *config.Config
	logger *slog.Logger

	mu       sync.Mutex
	analyzer Analyzer
}

// New builds the stage; the inference client is constructed lazily in
// Prepare so that a missing API key fails the job rather than the daemon.
func New(cfg *config.Config, logger *slog.Logger) *Handler {
	return NewWithAnalyzer(cfg, nil, logger)
}

// NewWithAnalyzer builds the stage with an injected analyzer.
func NewWithAnalyzer(cfg *config.Config, analyzer Analyzer, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   logging.NewComponentLogger(logger, "analysis"),
	}
}

// ensureAnalyzer builds the inference client on first use so a missing API
// key fails the job rather than the daemon.
func (h *Handler) ensureAnalyzer() (Analyzer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.analyzer == nil {
		client, err := inference.NewClient(h.cfg.LLM)
		if err != nil {
			return nil, err
		}
		h.analyzer = client
	}
	return h.analyzer, nil
}

func (h *Handler) Prepare(ctx context.Context, job *registry.Job) error {
	if job.DurationSeconds <= 0 {
		return services.Wrap(services.ErrValidation, stageName, "validate probe results",
			"job has no recorded duration", nil)
	}
	_, err := h.ensureAnalyzer()
	return err
}

func (h *Handler) Execute(ctx context.Context, job *registry.Job) error {
	analyzer, err := h.ensureAnalyzer()
	if err != nil {
		return err
	}
	result, err := analyzer.AnalyzeVideo(ctx, job.SourcePath, job.DurationSeconds, job.FrameCount)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, stageName, "analyze video", "inference request failed", err)
	}

	logger := logging.WithContext(ctx, h.logger)
	if result.Synthesized {
		logger.Warn("analysis fell back to synthesized moments",
			logging.String(logging.FieldEventType, logging.EventAnalysisFallback),
			logging.Int("moments", len(result.Moments)))
	} else {
		logger.Info("analysis produced moments", logging.Int("moments", len(result.Moments)))
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	job.AnalysisJSON = string(encoded)
	return nil
}

func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	analyzer, err := h.ensureAnalyzer()
	if err != nil {
		return stage.Unhealthy("analysis", err)
	}
	if err := analyzer.HealthCheck(ctx); err != nil {
		return stage.Unhealthy("analysis", err)
	}
	return stage.Healthy("analysis")
}

// DecodeAnalysis recovers the persisted analysis from a job.
func DecodeAnalysis(job *registry.Job) (inference.Analysis, error) {
	if job.AnalysisJSON == "" {
		return inference.Analysis{}, services.Wrap(services.ErrValidation, "", "decode analysis",
			"job carries no analysis results", nil)
	}
	var result inference.Analysis
	if err := json.Unmarshal([]byte(job.AnalysisJSON), &result); err != nil {
		return inference.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	return result, nil
}
