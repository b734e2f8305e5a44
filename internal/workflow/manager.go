package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"clipcast/internal/config"
	"clipcast/internal/logging"
	"clipcast/internal/registry"
	"clipcast/internal/stage"
)

// StageSet is the ordered collection of pipeline stage handlers.
type StageSet struct {
	Probe      stage.Handler
	Analysis   stage.Handler
	Extraction stage.Handler
	Planning   stage.Handler
}

// pipelineStage pairs a handler with the transient status the job carries
// while it runs.
type pipelineStage struct {
	name    string
	status  registry.Status
	handler stage.Handler
}

// Manager owns the worker pool that processes jobs.
type Manager struct {
	cfg    *config.Config
	store  *registry.Store
	logger *slog.Logger

	stages []pipelineStage

	pollInterval time.Duration
	errorRetry   time.Duration

	kick chan struct{}

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewManager builds a Manager; ConfigureStages must be called before Start.
func NewManager(cfg *config.Config, store *registry.Store, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		pollInterval: time.Duration(cfg.Workflow.QueuePollIntervalSeconds) * time.Second,
		errorRetry:   time.Duration(cfg.Workflow.ErrorRetryIntervalSeconds) * time.Second,
		kick:         make(chan struct{}, 1),
	}
}

// ConfigureStages installs the pipeline in execution order.
func (m *Manager) ConfigureStages(stages StageSet) {
	m.stages = []pipelineStage{
		{name: "probe", status: registry.StatusProcessing, handler: stages.Probe},
		{name: "analysis", status: registry.StatusAnalyzing, handler: stages.Analysis},
		{name: "extraction", status: registry.StatusExtractingHighlights, handler: stages.Extraction},
		{name: "planning", status: registry.StatusGeneratingContentPlan, handler: stages.Planning},
	}
}

// Kick wakes the pollers without waiting out the poll interval.
func (m *Manager) Kick() {
	select {
	case m.kick <- struct{}{}:
	default:
	}
}

// HealthChecks runs every stage's readiness probe.
func (m *Manager) HealthChecks(ctx context.Context) []stage.Health {
	results := make([]stage.Health, 0, len(m.stages))
	for _, ps := range m.stages {
		results = append(results, ps.handler.HealthCheck(ctx))
	}
	return results
}
