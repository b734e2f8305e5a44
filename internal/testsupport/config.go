// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"clipcast/internal/config"
)

// NewConfig returns a validated configuration rooted in a per-test temp
// directory, with directories created and fast workflow intervals.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths = config.Paths{
		UploadsDir:    filepath.Join(dir, "uploads"),
		ClipsDir:      filepath.Join(dir, "clips"),
		ThumbnailsDir: filepath.Join(dir, "thumbnails"),
		SubtitlesDir:  filepath.Join(dir, "subtitles"),
		PlansDir:      filepath.Join(dir, "content_plans"),
		LogDir:        filepath.Join(dir, "logs"),
	}
	cfg.LLM.APIKey = "test-key"
	cfg.Workflow.QueuePollIntervalSeconds = 1
	cfg.Workflow.ErrorRetryIntervalSeconds = 1

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("create test directories: %v", err)
	}
	return &cfg
}
