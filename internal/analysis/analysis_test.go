package analysis

import (
	"context"
	"errors"
	"testing"

	"clipcast/internal/inference"
	"clipcast/internal/logging"
	"clipcast/internal/registry"
	"clipcast/internal/services"
	"clipcast/internal/testsupport"
)

type fakeAnalyzer struct {
	result inference.Analysis
	err    error
}

func (f *fakeAnalyzer) AnalyzeVideo(ctx context.Context, sourcePath string, durationSeconds float64, frameCount int64) (inference.Analysis, error) {
	return f.result, f.err
}

func (f *fakeAnalyzer) HealthCheck(ctx context.Context) error { return f.err }

func TestPrepareRequiresDuration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	h := NewWithAnalyzer(cfg, &fakeAnalyzer{}, logging.NewNop())

	err := h.Prepare(t.Context(), &registry.Job{ID: "j"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestExecutePersistsAnalysis(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	h := NewWithAnalyzer(cfg, &fakeAnalyzer{result: inference.Analysis{
		Moments: []inference.Moment{
			{StartSeconds: 2, EndSeconds: 10, Title: "Moment", Description: "d", EngagementReason: "r"},
		},
	}}, logging.NewNop())

	job := &registry.Job{ID: "j", DurationSeconds: 30, Status: registry.StatusAnalyzing}
	if err := h.Prepare(t.Context(), job); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := h.Execute(t.Context(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	decoded, err := DecodeAnalysis(job)
	if err != nil {
		t.Fatalf("DecodeAnalysis: %v", err)
	}
	if len(decoded.Moments) != 1 || decoded.Moments[0].Title != "Moment" {
		t.Fatalf("decoded = %+v", decoded)
	}
	if decoded.Synthesized {
		t.Fatal("synthesized flag set unexpectedly")
	}
}

func TestExecuteWrapsTransportFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	h := NewWithAnalyzer(cfg, &fakeAnalyzer{err: errors.New("dial tcp: refused")}, logging.NewNop())

	job := &registry.Job{ID: "j", DurationSeconds: 30}
	err := h.Execute(t.Context(), job)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("error = %v, want ErrExternalTool", err)
	}
	if job.AnalysisJSON != "" {
		t.Fatal("analysis persisted despite failure")
	}
}

func TestDecodeAnalysisRequiresPayload(t *testing.T) {
	_, err := DecodeAnalysis(&registry.Job{ID: "j"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}
