package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"clipcast/internal/inference"
	"clipcast/internal/logging"
	"clipcast/internal/media"
	"clipcast/internal/registry"
	"clipcast/internal/services"
	"clipcast/internal/testsupport"
)

// fakeProcessor writes marker files instead of running ffmpeg.
type fakeProcessor struct {
	mu       sync.Mutex
	clips    []string
	failClip int // index (by order of call) at which ExtractClip fails; -1 never
	calls    int
}

func (f *fakeProcessor) Probe(ctx context.Context, sourcePath string) (media.Info, error) {
	return media.Info{}, errors.New("not used")
}

func (f *fakeProcessor) ExtractClip(ctx context.Context, sourcePath, destPath string, startSeconds, endSeconds float64) error {
	f.mu.Lock()
	call := f.calls
	f.calls++
	f.clips = append(f.clips, fmt.Sprintf("%s %.3f %.3f", destPath, startSeconds, endSeconds))
	f.mu.Unlock()
	if f.failClip >= 0 && call == f.failClip {
		return services.Wrap(services.ErrExternalTool, "extracting_highlights", "cut clip", "ffmpeg failed", errors.New("exit status 1"))
	}
	return os.WriteFile(destPath, []byte("clip"), 0o644)
}

func (f *fakeProcessor) ExtractThumbnail(ctx context.Context, sourcePath, destPath string, atSeconds float64) error {
	return os.WriteFile(destPath, []byte("thumb"), 0o644)
}

type fakeCaptioner struct{}

func (fakeCaptioner) GenerateSubtitles(ctx context.Context, title, description string, clipDurationSeconds float64) (inference.Captions, error) {
	return inference.Captions{Document: "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\n" + title + "\n"}, nil
}

func analysisJSON(t *testing.T, moments []inference.Moment) string {
	t.Helper()
	data, err := json.Marshal(inference.Analysis{Moments: moments})
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func newStageJob(t *testing.T, store *registry.Store, duration float64, moments []inference.Moment) *registry.Job {
	t.Helper()
	job := testsupport.NewJob(t, store, "extract")
	job.Status = registry.StatusExtractingHighlights
	job.DurationSeconds = duration
	job.AnalysisJSON = analysisJSON(t, moments)
	return job
}

func TestExecuteClampsAndRegistersHighlights(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.ExtractWorkers = 2
	store := testsupport.MustOpenStore(t, cfg)
	processor := &fakeProcessor{failClip: -1}
	h := NewWithDependencies(cfg, store, processor, fakeCaptioner{}, logging.NewNop())

	// 30 second source; second moment overruns and must clamp to 30.
	job := newStageJob(t, store, 30, []inference.Moment{
		{StartSeconds: 2, EndSeconds: 10, Title: "First", Description: "a"},
		{StartSeconds: 25, EndSeconds: 40, Title: "Second", Description: "b"},
	})

	if err := h.Execute(t.Context(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	highlights, err := store.HighlightsForJob(t.Context(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(highlights) != 2 {
		t.Fatalf("got %d highlights", len(highlights))
	}
	if highlights[0].Title != "First" || highlights[1].Title != "Second" {
		t.Fatalf("order broken: %q, %q", highlights[0].Title, highlights[1].Title)
	}
	if highlights[1].EndSeconds != 30 {
		t.Fatalf("second end = %f, want clamped 30", highlights[1].EndSeconds)
	}
	if !strings.Contains(highlights[0].ClipPath, job.ID+"_highlight_0.mp4") {
		t.Fatalf("clip path = %q", highlights[0].ClipPath)
	}

	for _, highlight := range highlights {
		for _, path := range []string{highlight.ClipPath, highlight.ThumbnailPath, highlight.SubtitlePath} {
			if _, err := os.Stat(path); err != nil {
				t.Errorf("artifact missing: %s", path)
			}
		}
		subtitle, err := os.ReadFile(highlight.SubtitlePath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(subtitle), "WEBVTT") {
			t.Errorf("subtitle not WebVTT: %q", subtitle)
		}
	}
}

// synthesizingCaptioner mimics the client replacing unusable model output
// with a covering cue.
type synthesizingCaptioner struct{}

func (synthesizingCaptioner) GenerateSubtitles(ctx context.Context, title, description string, clipDurationSeconds float64) (inference.Captions, error) {
	return inference.Captions{
		Document:    "WEBVTT\n\n00:00:00.000 --> 00:00:05.000\n" + title + "\n",
		Synthesized: true,
	}, nil
}

func TestExecuteAcceptsSynthesizedCaptions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	h := NewWithDependencies(cfg, store, &fakeProcessor{failClip: -1}, synthesizingCaptioner{}, logging.NewNop())

	job := newStageJob(t, store, 30, []inference.Moment{
		{StartSeconds: 0, EndSeconds: 5, Title: "Only"},
	})

	if err := h.Execute(t.Context(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	highlights, err := store.HighlightsForJob(t.Context(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(highlights) != 1 {
		t.Fatalf("got %d highlights", len(highlights))
	}
	subtitle, err := os.ReadFile(highlights[0].SubtitlePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(subtitle), "Only") {
		t.Fatalf("synthesized subtitle not written: %q", subtitle)
	}
}

func TestExecuteRejectsEmptyIntervalAfterClamp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	h := NewWithDependencies(cfg, store, &fakeProcessor{failClip: -1}, fakeCaptioner{}, logging.NewNop())

	// Starts past the end of a 10 second source.
	job := newStageJob(t, store, 10, []inference.Moment{
		{StartSeconds: 15, EndSeconds: 20, Title: "Ghost"},
	})

	err := h.Execute(t.Context(), job)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	highlights, err := store.HighlightsForJob(t.Context(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(highlights) != 0 {
		t.Fatal("highlights registered despite validation failure")
	}
}

func TestExecuteAbortsOnFirstFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	processor := &fakeProcessor{failClip: 0}
	h := NewWithDependencies(cfg, store, processor, fakeCaptioner{}, logging.NewNop())

	job := newStageJob(t, store, 30, []inference.Moment{
		{StartSeconds: 0, EndSeconds: 5, Title: "A"},
		{StartSeconds: 10, EndSeconds: 15, Title: "B"},
	})

	err := h.Execute(t.Context(), job)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("error = %v, want ErrExternalTool", err)
	}
	highlights, err := store.HighlightsForJob(t.Context(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(highlights) != 0 {
		t.Fatal("highlights registered despite extraction failure")
	}
}

func TestExecuteWithNoMoments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	h := NewWithDependencies(cfg, store, &fakeProcessor{failClip: -1}, fakeCaptioner{}, logging.NewNop())

	job := newStageJob(t, store, 30, nil)
	if err := h.Execute(t.Context(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	highlights, err := store.HighlightsForJob(t.Context(), job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(highlights) != 0 {
		t.Fatalf("got %d highlights for empty analysis", len(highlights))
	}
}

func TestClampMoments(t *testing.T) {
	moments, err := clampMoments([]inference.Moment{
		{StartSeconds: -2, EndSeconds: 5},
		{StartSeconds: 25, EndSeconds: 40},
	}, 30)
	if err != nil {
		t.Fatalf("clampMoments: %v", err)
	}
	if moments[0].StartSeconds != 0 || moments[1].EndSeconds != 30 {
		t.Fatalf("clamped = %+v", moments)
	}
}
