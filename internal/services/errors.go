package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for failure classification. Callers test with errors.Is.
var (
	// ErrExternalTool marks failures of external programs or services
	// (ffmpeg, ffprobe, the inference endpoint).
	ErrExternalTool = errors.New("external tool failure")

	// ErrValidation marks input or state that fails a precondition.
	ErrValidation = errors.New("validation failure")

	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration failure")

	// ErrNotFound marks lookups of entities that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrTimeout marks operations that exceeded their deadline.
	ErrTimeout = errors.New("operation timed out")

	// ErrTransient marks failures that a later attempt could clear.
	ErrTransient = errors.New("transient failure")
)

// Wrap classifies err under marker and attaches the stage/operation context
// that ends up in job error messages and logs. A nil err still produces an
// error so callers can fail on detected-but-errorless conditions.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "unspecified failure"
	}
	return strings.Join(parts, ": ")
}

// ClassificationLabel returns a short label for the marker chain of err,
// suitable for logs and job error messages.
func ClassificationLabel(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrTransient):
		return "transient"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	default:
		return "unclassified"
	}
}
