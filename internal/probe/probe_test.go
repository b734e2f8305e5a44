package probe

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"clipcast/internal/logging"
	"clipcast/internal/media"
	"clipcast/internal/registry"
	"clipcast/internal/services"
	"clipcast/internal/testsupport"
)

type fakeProber struct {
	info media.Info
	err  error
}

func (f *fakeProber) Probe(ctx context.Context, sourcePath string) (media.Info, error) {
	return f.info, f.err
}

func TestPrepareRejectsMissingSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	h := NewWithProber(cfg, &fakeProber{}, logging.NewNop())

	job := &registry.Job{ID: "j", SourcePath: filepath.Join(cfg.Paths.UploadsDir, "missing.mp4")}
	err := h.Prepare(t.Context(), job)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestExecuteRecordsProbeResults(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	h := NewWithProber(cfg, &fakeProber{info: media.Info{
		DurationSeconds: 42.5,
		FrameCount:      1275,
	}}, logging.NewNop())

	source := filepath.Join(cfg.Paths.UploadsDir, "j_source.mp4")
	testsupport.WriteFile(t, source, []byte("fake video"))
	job := &registry.Job{ID: "j", SourcePath: source, Status: registry.StatusProcessing}

	if err := h.Prepare(t.Context(), job); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := h.Execute(t.Context(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if job.DurationSeconds != 42.5 || job.FrameCount != 1275 {
		t.Fatalf("job = %+v", job)
	}
}

func TestExecutePropagatesProbeFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cause := services.Wrap(services.ErrExternalTool, "processing", "probe source", "ffprobe failed", errors.New("exit status 1"))
	h := NewWithProber(cfg, &fakeProber{err: cause}, logging.NewNop())

	job := &registry.Job{ID: "j", SourcePath: "/tmp/x.mp4"}
	err := h.Execute(t.Context(), job)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("error = %v", err)
	}
}
