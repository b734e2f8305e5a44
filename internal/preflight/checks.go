package preflight

import (
	"context"
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"

	"clipcast/internal/config"
	"clipcast/internal/inference"
)

// DefaultChecks covers directories, media tooling, and the inference
// endpoint.
func DefaultChecks() []Check {
	return []Check{
		{Name: "directories", Run: checkDirectories},
		{Name: "ffmpeg", Run: binaryCheck(func(cfg *config.Config) string { return cfg.Media.FFmpeg })},
		{Name: "ffprobe", Run: binaryCheck(func(cfg *config.Config) string { return cfg.Media.FFprobe })},
		{Name: "inference endpoint", Run: checkInference},
	}
}

// OfflineChecks skips the network-touching probes.
func OfflineChecks() []Check {
	return DefaultChecks()[:3]
}

func checkDirectories(ctx context.Context, cfg *config.Config) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	for _, dir := range cfg.Directories() {
		if err := unix.Access(dir, unix.W_OK); err != nil {
			return fmt.Errorf("directory %s is not writable: %w", dir, err)
		}
	}
	return nil
}

func binaryCheck(pick func(cfg *config.Config) string) func(ctx context.Context, cfg *config.Config) error {
	return func(ctx context.Context, cfg *config.Config) error {
		name := pick(cfg)
		path, err := exec.LookPath(name)
		if err != nil {
			return fmt.Errorf("%s not found on PATH: %w", name, err)
		}
		if err := unix.Access(path, unix.X_OK); err != nil {
			return fmt.Errorf("%s is not executable: %w", path, err)
		}
		return nil
	}
}

func checkInference(ctx context.Context, cfg *config.Config) error {
	client, err := inference.NewClient(cfg.LLM)
	if err != nil {
		return err
	}
	return client.HealthCheck(ctx)
}
