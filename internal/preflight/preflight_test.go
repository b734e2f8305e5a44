package preflight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clipcast/internal/config"
	"clipcast/internal/testsupport"
)

func TestRunCollectsEveryResult(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	checks := []Check{
		{Name: "passes", Run: func(ctx context.Context, cfg *config.Config) error { return nil }},
		{Name: "fails", Run: func(ctx context.Context, cfg *config.Config) error { return errors.New("boom") }},
		{Name: "also runs", Run: func(ctx context.Context, cfg *config.Config) error { return nil }},
	}

	results := Run(t.Context(), cfg, checks)
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Passed != true || results[1].Passed != false || results[2].Passed != true {
		t.Fatalf("results = %+v", results)
	}
	if results[1].Detail != "boom" {
		t.Fatalf("failure detail = %q", results[1].Detail)
	}
	if AllPassed(results) {
		t.Fatal("AllPassed with a failing check")
	}
}

func TestCheckDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := checkDirectories(t.Context(), cfg); err != nil {
		t.Fatalf("checkDirectories: %v", err)
	}
}

func TestBinaryCheckMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Media.FFmpeg = "definitely-not-a-real-binary-name"
	check := binaryCheck(func(cfg *config.Config) string { return cfg.Media.FFmpeg })
	err := check(t.Context(), cfg)
	if err == nil || !strings.Contains(err.Error(), "not found on PATH") {
		t.Fatalf("error = %v", err)
	}
}

func TestOfflineChecksSkipInference(t *testing.T) {
	for _, check := range OfflineChecks() {
		if check.Name == "inference endpoint" {
			t.Fatal("offline checks include the inference probe")
		}
	}
}
