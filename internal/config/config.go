package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Config is the full clipcast configuration tree.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Media    Media    `toml:"media"`
	LLM      LLM      `toml:"llm"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
}

// Paths holds every directory the pipeline writes to.
type Paths struct {
	UploadsDir    string `toml:"uploads_dir"`
	ClipsDir      string `toml:"clips_dir"`
	ThumbnailsDir string `toml:"thumbnails_dir"`
	SubtitlesDir  string `toml:"subtitles_dir"`
	PlansDir      string `toml:"plans_dir"`
	LogDir        string `toml:"log_dir"`
}

// Media configures the external media tooling.
type Media struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
	// AllowedTypes are the MIME types Submit accepts.
	AllowedTypes []string `toml:"allowed_types"`
	// ProbeTimeoutSeconds bounds ffprobe runs. Zero disables the deadline.
	ProbeTimeoutSeconds int `toml:"probe_timeout_seconds"`
	// ExtractTimeoutSeconds bounds each ffmpeg invocation. Zero disables
	// the deadline.
	ExtractTimeoutSeconds int `toml:"extract_timeout_seconds"`
}

// LLM configures the inference endpoint.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Workflow configures the manager and its worker pools.
type Workflow struct {
	QueuePollIntervalSeconds  int `toml:"queue_poll_interval_seconds"`
	ErrorRetryIntervalSeconds int `toml:"error_retry_interval_seconds"`
	// JobWorkers is the number of concurrent jobs in flight.
	JobWorkers int `toml:"job_workers"`
	// ExtractWorkers bounds per-job highlight extraction concurrency.
	ExtractWorkers int `toml:"extract_workers"`
}

// Logging configures output format and verbosity.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// DatabasePath returns the registry database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.LogDir, "clipcast.db")
}

// LogFilePath returns the persistent JSON log location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "clipcast.log")
}

// Directories returns every directory the configuration references.
func (c *Config) Directories() []string {
	return []string{
		c.Paths.UploadsDir,
		c.Paths.ClipsDir,
		c.Paths.ThumbnailsDir,
		c.Paths.SubtitlesDir,
		c.Paths.PlansDir,
		c.Paths.LogDir,
	}
}

// EnsureDirectories creates every configured directory.
func (c *Config) EnsureDirectories() error {
	for _, dir := range c.Directories() {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "clipcast", "config.toml"), nil
}

// Load reads the configuration from path, or from the default location when
// path is empty. A missing file yields the defaults with found=false.
func Load(path string) (cfg *Config, resolvedPath string, found bool, err error) {
	resolvedPath, err = resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	defaults := Default()
	cfg = &defaults

	data, readErr := os.ReadFile(resolvedPath)
	switch {
	case readErr == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, resolvedPath, true, fmt.Errorf("parse %s: %w", resolvedPath, err)
		}
		found = true
	case errors.Is(readErr, os.ErrNotExist):
		found = false
	default:
		return nil, resolvedPath, false, fmt.Errorf("read %s: %w", resolvedPath, readErr)
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolvedPath, found, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolvedPath, found, err
	}
	return cfg, resolvedPath, found, nil
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultConfigPath()
	}
	return ExpandPath(path)
}

// ExpandPath resolves a leading ~ against the user's home directory and
// makes the result absolute.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", path, err)
	}
	return abs, nil
}

// CreateSample writes the commented sample configuration to path, refusing
// to overwrite an existing file.
func CreateSample(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("check %s: %w", expanded, err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
