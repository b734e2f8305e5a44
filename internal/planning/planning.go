// Package planning is the final pipeline stage: it turns the job's
// highlights into a social posting schedule, writes the plan artifact, and
// finalizes the job's summary fields.
package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"clipcast/internal/config"
	"clipcast/internal/inference"
	"clipcast/internal/logging"
	"clipcast/internal/registry"
	"clipcast/internal/services"
	"clipcast/internal/stage"
)

const stageName = "generating_content_plan"

// Planner is the slice of the inference capability this stage needs.
type Planner interface {
	GenerateContentPlan(ctx context.Context, jobID string, highlights []*registry.Highlight) (registry.ContentPlan, error)
}

// Handler implements the planning stage.
type Handler struct {
	cfg    *config.Config
	store  *registry.Store
	logger *slog.Logger

	mu      sync.Mutex
	planner Planner
}

// New builds the stage; the inference client is constructed lazily in
// Prepare.
func New(cfg *config.Config, store *registry.Store, logger *slog.Logger) *Handler {
	return NewWithPlanner(cfg, store, nil, logger)
}

// NewWithPlanner builds the stage with an injected planner.
func NewWithPlanner(cfg *config.Config, store *registry.Store, planner Planner, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:     cfg,
		store:   store,
		planner: planner,
		logger:  logging.NewComponentLogger(logger, "planning"),
	}
}

func (h *Handler) Prepare(ctx context.Context, job *registry.Job) error {
	_, err := h.ensurePlanner()
	return err
}

func (h *Handler) ensurePlanner() (Planner, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.planner == nil {
		client, err := inference.NewClient(h.cfg.LLM)
		if err != nil {
			return nil, err
		}
		h.planner = client
	}
	return h.planner, nil
}

func (h *Handler) Execute(ctx context.Context, job *registry.Job) error {
	highlights, err := h.store.HighlightsForJob(ctx, job.ID)
	if err != nil {
		return services.Wrap(services.ErrTransient, stageName, "load highlights", "registry read failed", err)
	}
	// Checked before the capability call so the model is never asked to
	// schedule nothing.
	if len(highlights) == 0 {
		return services.Wrap(services.ErrValidation, stageName, "validate inputs",
			"no highlights available for content plan", nil)
	}

	planner, err := h.ensurePlanner()
	if err != nil {
		return err
	}
	plan, err := planner.GenerateContentPlan(ctx, job.ID, highlights)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, stageName, "generate content plan", "inference request failed", err)
	}

	planPath, err := h.writePlanArtifact(job.ID, &plan)
	if err != nil {
		return err
	}
	if err := h.store.SavePlan(ctx, &plan); err != nil {
		return services.Wrap(services.ErrTransient, stageName, "save content plan", "registry write failed", err)
	}

	job.HighlightsCount = len(highlights)
	job.PlanPath = planPath
	logging.WithContext(ctx, h.logger).Info("content plan generated",
		logging.Int("posts", len(plan.Posts)),
		logging.String(logging.FieldPath, planPath))
	return nil
}

func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	if _, err := h.ensurePlanner(); err != nil {
		return stage.Unhealthy("planning", err)
	}
	return stage.Healthy("planning")
}

// writePlanArtifact stores the plan as a JSON document next to the other
// job artifacts.
func (h *Handler) writePlanArtifact(jobID string, plan *registry.ContentPlan) (string, error) {
	path := filepath.Join(h.cfg.Paths.PlansDir, fmt.Sprintf("%s_content_plan.json", jobID))
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode content plan: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", services.Wrap(services.ErrTransient, stageName, "write plan artifact", path, err)
	}
	return path, nil
}
