package logging

// Canonical structured field names. Keeping them here prevents drift between
// emitters and whatever consumes the JSON stream.
const (
	FieldComponent     = "component"
	FieldStage         = "stage"
	FieldJobID         = "job_id"
	FieldHighlightID   = "highlight_id"
	FieldCorrelationID = "correlation_id"
	FieldEventType     = "event_type"
	FieldErrorHint     = "error_hint"
	FieldAlert         = "alert"
	FieldDuration      = "duration"
	FieldPath          = "path"
)

// Common event_type values.
const (
	EventStageStarted     = "stage_started"
	EventStageCompleted   = "stage_completed"
	EventStageFailed      = "stage_failed"
	EventJobCompleted     = "job_completed"
	EventJobFailed        = "job_failed"
	EventAnalysisFallback = "analysis_fallback"
	EventCaptionFallback  = "caption_fallback"
)
