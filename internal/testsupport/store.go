package testsupport

import (
	"testing"

	"clipcast/internal/config"
	"clipcast/internal/registry"
)

// MustOpenStore opens a registry store for cfg and closes it on cleanup.
func MustOpenStore(t *testing.T, cfg *config.Config) *registry.Store {
	t.Helper()

	store, err := registry.Open(cfg.DatabasePath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

// NewJob inserts a submitted job with plausible defaults.
func NewJob(t *testing.T, store *registry.Store, title string) *registry.Job {
	t.Helper()

	job, err := store.NewJob(t.Context(), registry.NewJobParams{
		Title:            title,
		Description:      "test upload",
		OriginalFilename: "source.mp4",
		SourcePath:       "/tmp/does-not-matter/source.mp4",
		MediaType:        "video/mp4",
	})
	if err != nil {
		t.Fatalf("insert job: %v", err)
	}
	return job
}
