package config

// DefaultAllowedTypes are the MIME types Submit accepts out of the box.
var DefaultAllowedTypes = []string{
	"video/mp4",
	"video/quicktime",
	"video/x-msvideo",
}

// Default returns the built-in configuration. Paths live under the user's
// data directory; normalize expands the ~ prefixes.
func Default() Config {
	return Config{
		Paths: Paths{
			UploadsDir:    "~/.local/share/clipcast/uploads",
			ClipsDir:      "~/.local/share/clipcast/clips",
			ThumbnailsDir: "~/.local/share/clipcast/thumbnails",
			SubtitlesDir:  "~/.local/share/clipcast/subtitles",
			PlansDir:      "~/.local/share/clipcast/content_plans",
			LogDir:        "~/.local/share/clipcast/logs",
		},
		Media: Media{
			FFmpeg:                "ffmpeg",
			FFprobe:               "ffprobe",
			AllowedTypes:          append([]string{}, DefaultAllowedTypes...),
			ProbeTimeoutSeconds:   60,
			ExtractTimeoutSeconds: 600,
		},
		LLM: LLM{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 120,
		},
		Workflow: Workflow{
			QueuePollIntervalSeconds:  5,
			ErrorRetryIntervalSeconds: 10,
			JobWorkers:                1,
			ExtractWorkers:            1,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
