package config

import (
	"os"
	"strings"
)

// EnvAPIKey overrides [llm] api_key when set, so secrets can stay out of
// the config file.
const EnvAPIKey = "CLIPCAST_LLM_API_KEY"

func (c *Config) normalize() error {
	pathFields := []*string{
		&c.Paths.UploadsDir,
		&c.Paths.ClipsDir,
		&c.Paths.ThumbnailsDir,
		&c.Paths.SubtitlesDir,
		&c.Paths.PlansDir,
		&c.Paths.LogDir,
	}
	for _, field := range pathFields {
		expanded, err := ExpandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		c.LLM.APIKey = key
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.LLM.BaseURL), "/")
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)

	c.Media.FFmpeg = strings.TrimSpace(c.Media.FFmpeg)
	c.Media.FFprobe = strings.TrimSpace(c.Media.FFprobe)

	normalized := make([]string, 0, len(c.Media.AllowedTypes))
	seen := make(map[string]struct{}, len(c.Media.AllowedTypes))
	for _, mediaType := range c.Media.AllowedTypes {
		mediaType = strings.ToLower(strings.TrimSpace(mediaType))
		if mediaType == "" {
			continue
		}
		if _, dup := seen[mediaType]; dup {
			continue
		}
		seen[mediaType] = struct{}{}
		normalized = append(normalized, mediaType)
	}
	c.Media.AllowedTypes = normalized

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
