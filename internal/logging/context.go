package logging

import (
	"context"
	"log/slog"

	"clipcast/internal/services"
)

// ContextFields extracts the structured fields carried on ctx by the
// services package.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	var attrs []Attr
	if jobID, ok := services.JobIDFromContext(ctx); ok {
		attrs = append(attrs, String(FieldJobID, jobID))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		attrs = append(attrs, String(FieldStage, stage))
	}
	if requestID, ok := services.RequestIDFromContext(ctx); ok {
		attrs = append(attrs, String(FieldCorrelationID, requestID))
	}
	return attrs
}

// WithContext returns logger augmented with whatever fields ctx carries.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	attrs := ContextFields(ctx)
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(attrs)...)
}
