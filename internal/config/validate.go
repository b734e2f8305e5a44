package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the normalized configuration for values the pipeline
// cannot run with. The API key is deliberately not required here; preflight
// and the inference client report its absence so that offline commands
// (list, status, remove) keep working.
func (c *Config) Validate() error {
	var problems []string

	pathChecks := []struct {
		name  string
		value string
	}{
		{"paths.uploads_dir", c.Paths.UploadsDir},
		{"paths.clips_dir", c.Paths.ClipsDir},
		{"paths.thumbnails_dir", c.Paths.ThumbnailsDir},
		{"paths.subtitles_dir", c.Paths.SubtitlesDir},
		{"paths.plans_dir", c.Paths.PlansDir},
		{"paths.log_dir", c.Paths.LogDir},
	}
	for _, check := range pathChecks {
		if check.value == "" {
			problems = append(problems, check.name+" must be set")
		}
	}

	if c.Media.FFmpeg == "" {
		problems = append(problems, "media.ffmpeg must be set")
	}
	if c.Media.FFprobe == "" {
		problems = append(problems, "media.ffprobe must be set")
	}
	if len(c.Media.AllowedTypes) == 0 {
		problems = append(problems, "media.allowed_types must list at least one MIME type")
	}
	if c.Media.ProbeTimeoutSeconds < 0 {
		problems = append(problems, "media.probe_timeout_seconds must not be negative")
	}
	if c.Media.ExtractTimeoutSeconds < 0 {
		problems = append(problems, "media.extract_timeout_seconds must not be negative")
	}

	if c.LLM.Model == "" {
		problems = append(problems, "llm.model must be set")
	}
	if c.LLM.BaseURL == "" {
		problems = append(problems, "llm.base_url must be set")
	}
	if c.LLM.TimeoutSeconds < 0 {
		problems = append(problems, "llm.timeout_seconds must not be negative")
	}

	if c.Workflow.QueuePollIntervalSeconds < 1 {
		problems = append(problems, "workflow.queue_poll_interval_seconds must be at least 1")
	}
	if c.Workflow.ErrorRetryIntervalSeconds < 1 {
		problems = append(problems, "workflow.error_retry_interval_seconds must be at least 1")
	}
	if c.Workflow.JobWorkers < 1 {
		problems = append(problems, "workflow.job_workers must be at least 1")
	}
	if c.Workflow.ExtractWorkers < 1 {
		problems = append(problems, "workflow.extract_workers must be at least 1")
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not one of console, json", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
