package registry_test

import (
	"errors"
	"testing"
	"time"

	"clipcast/internal/registry"
	"clipcast/internal/testsupport"
)

func TestJobLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := t.Context()

	job := testsupport.NewJob(t, store, "lifecycle")
	if job.Status != registry.StatusSubmitted {
		t.Fatalf("new job status = %s", job.Status)
	}

	got, err := store.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got == nil || got.Title != "lifecycle" || got.MediaType != "video/mp4" {
		t.Fatalf("unexpected job: %+v", got)
	}

	claimed, err := store.ClaimNextSubmitted(ctx)
	if err != nil {
		t.Fatalf("ClaimNextSubmitted: %v", err)
	}
	if claimed == nil || claimed.ID != job.ID || claimed.Status != registry.StatusProcessing {
		t.Fatalf("unexpected claim: %+v", claimed)
	}

	// Nothing else is waiting.
	if next, err := store.ClaimNextSubmitted(ctx); err != nil || next != nil {
		t.Fatalf("second claim = %+v, %v", next, err)
	}

	for _, next := range []registry.Status{
		registry.StatusAnalyzing,
		registry.StatusExtractingHighlights,
		registry.StatusGeneratingContentPlan,
		registry.StatusCompleted,
	} {
		if err := store.Transition(ctx, claimed, next); err != nil {
			t.Fatalf("Transition to %s: %v", next, err)
		}
	}

	got, err = store.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != registry.StatusCompleted {
		t.Fatalf("final status = %s", got.Status)
	}
}

func TestUpdateJobPersistsSourcePath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := t.Context()

	job, err := store.NewJob(ctx, registry.NewJobParams{
		ID:               "caller-chosen-id",
		Title:            "upload",
		OriginalFilename: "upload.mp4",
		SourcePath:       "/data/uploads/caller-chosen-id_upload.mp4",
		MediaType:        "video/mp4",
	})
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if job.ID != "caller-chosen-id" {
		t.Fatalf("supplied id ignored: %s", job.ID)
	}

	job.SourcePath = "/data/uploads/moved.mp4"
	if err := store.UpdateJob(ctx, job); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}

	got, err := store.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.SourcePath != "/data/uploads/moved.mp4" {
		t.Fatalf("source path not persisted: %q", got.SourcePath)
	}
}

func TestClaimOrderIsOldestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := t.Context()

	first := testsupport.NewJob(t, store, "first")
	time.Sleep(5 * time.Millisecond)
	testsupport.NewJob(t, store, "second")

	claimed, err := store.ClaimNextSubmitted(ctx)
	if err != nil {
		t.Fatalf("ClaimNextSubmitted: %v", err)
	}
	if claimed.ID != first.ID {
		t.Fatalf("claimed %s, want oldest %s", claimed.ID, first.ID)
	}
}

func TestTransitionRejectsSkipsAndTerminalExits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := t.Context()

	job := testsupport.NewJob(t, store, "invalid-transitions")

	err := store.Transition(ctx, job, registry.StatusAnalyzing)
	if !errors.Is(err, registry.ErrInvalidTransition) {
		t.Fatalf("skip transition error = %v", err)
	}
	if job.Status != registry.StatusSubmitted {
		t.Fatalf("job mutated on rejected transition: %s", job.Status)
	}

	if err := store.Transition(ctx, job, registry.StatusError); err != nil {
		t.Fatalf("transition to error: %v", err)
	}
	err = store.Transition(ctx, job, registry.StatusProcessing)
	if !errors.Is(err, registry.ErrInvalidTransition) {
		t.Fatalf("terminal exit error = %v", err)
	}
}

func TestFailStuck(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := t.Context()

	waiting := testsupport.NewJob(t, store, "waiting")
	stuck := testsupport.NewJob(t, store, "stuck")
	claimed, err := store.ClaimNextSubmitted(ctx)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed.ID != waiting.ID {
		// Claim order is insertion order; adjust expectations.
		waiting, stuck = stuck, waiting
	}
	if err := store.Transition(ctx, claimed, registry.StatusAnalyzing); err != nil {
		t.Fatalf("transition: %v", err)
	}

	count, err := store.FailStuck(ctx, "daemon restarted during processing")
	if err != nil {
		t.Fatalf("FailStuck: %v", err)
	}
	if count != 1 {
		t.Fatalf("failed %d jobs, want 1", count)
	}

	failed, err := store.GetJob(ctx, claimed.ID)
	if err != nil {
		t.Fatal(err)
	}
	if failed.Status != registry.StatusError || failed.ErrorMessage == "" {
		t.Fatalf("stuck job = %+v", failed)
	}

	untouched, err := store.GetJob(ctx, stuck.ID)
	if err != nil {
		t.Fatal(err)
	}
	if untouched.Status != registry.StatusSubmitted {
		t.Fatalf("submitted job was failed: %+v", untouched)
	}
}

func TestHighlightsOrderedByIndex(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := t.Context()

	job := testsupport.NewJob(t, store, "highlights")
	for _, idx := range []int{2, 0, 1} {
		err := store.AddHighlight(ctx, &registry.Highlight{
			ID:            job.ID + "-h" + string(rune('0'+idx)),
			JobID:         job.ID,
			Idx:           idx,
			Title:         "Highlight",
			StartSeconds:  float64(idx * 10),
			EndSeconds:    float64(idx*10 + 5),
			ClipPath:      "/tmp/clip.mp4",
			ThumbnailPath: "/tmp/thumb.jpg",
			SubtitlePath:  "/tmp/sub.vtt",
		})
		if err != nil {
			t.Fatalf("AddHighlight: %v", err)
		}
	}

	highlights, err := store.HighlightsForJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("HighlightsForJob: %v", err)
	}
	if len(highlights) != 3 {
		t.Fatalf("got %d highlights", len(highlights))
	}
	for i, h := range highlights {
		if h.Idx != i {
			t.Fatalf("position %d has idx %d", i, h.Idx)
		}
	}
}

func TestPlanRoundTripAndCascade(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := t.Context()

	job := testsupport.NewJob(t, store, "plan")
	err := store.AddHighlight(ctx, &registry.Highlight{
		ID: "h-0", JobID: job.ID, Idx: 0, Title: "Highlight",
		StartSeconds: 0, EndSeconds: 5,
		ClipPath: "/tmp/c.mp4", ThumbnailPath: "/tmp/t.jpg", SubtitlePath: "/tmp/s.vtt",
	})
	if err != nil {
		t.Fatal(err)
	}

	plan := &registry.ContentPlan{
		JobID: job.ID,
		Title: "Content Plan for 1 Highlights",
		Posts: []registry.ContentPost{{
			HighlightID: "h-0",
			Title:       "Highlight",
			Caption:     "Check out this highlight!",
			Platform:    "Instagram",
			PostingDate: "2026-08-29",
			Hashtags:    []string{"video", "highlights"},
		}},
	}
	if err := store.SavePlan(ctx, plan); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	got, err := store.PlanForJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("PlanForJob: %v", err)
	}
	if got == nil || len(got.Posts) != 1 || got.Posts[0].Platform != "Instagram" {
		t.Fatalf("unexpected plan: %+v", got)
	}

	removed, err := store.RemoveJob(ctx, job.ID)
	if err != nil || !removed {
		t.Fatalf("RemoveJob = %v, %v", removed, err)
	}
	if highlights, err := store.HighlightsForJob(ctx, job.ID); err != nil || len(highlights) != 0 {
		t.Fatalf("highlights survived cascade: %v, %v", highlights, err)
	}
	if plan, err := store.PlanForJob(ctx, job.ID); err != nil || plan != nil {
		t.Fatalf("plan survived cascade: %v, %v", plan, err)
	}

	// Removing again reports absence without error.
	removed, err = store.RemoveJob(ctx, job.ID)
	if err != nil || removed {
		t.Fatalf("second RemoveJob = %v, %v", removed, err)
	}
}

func TestStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := t.Context()

	testsupport.NewJob(t, store, "one")
	testsupport.NewJob(t, store, "two")
	if _, err := store.ClaimNextSubmitted(ctx); err != nil {
		t.Fatal(err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[registry.StatusSubmitted] != 1 || stats[registry.StatusProcessing] != 1 {
		t.Fatalf("stats = %v", stats)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := registry.ParseStatus("EXTRACTING_HIGHLIGHTS"); !ok || status != registry.StatusExtractingHighlights {
		t.Fatalf("ParseStatus tag form = %s, %v", status, ok)
	}
	if _, ok := registry.ParseStatus("ripping"); ok {
		t.Fatal("unknown status accepted")
	}
	if registry.StatusProcessing.StageTag() != "PROCESSING" {
		t.Fatalf("stage tag = %s", registry.StatusProcessing.StageTag())
	}
}
