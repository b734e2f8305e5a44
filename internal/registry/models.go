package registry

import (
	"strings"
	"time"
)

// Status is the lifecycle stage of a job.
type Status string

const (
	StatusSubmitted             Status = "submitted"
	StatusProcessing            Status = "processing"
	StatusAnalyzing             Status = "analyzing"
	StatusExtractingHighlights  Status = "extracting_highlights"
	StatusGeneratingContentPlan Status = "generating_content_plan"
	StatusCompleted             Status = "completed"
	StatusError                 Status = "error"
)

// AllStatuses lists every status in lifecycle order, terminal states last.
var AllStatuses = []Status{
	StatusSubmitted,
	StatusProcessing,
	StatusAnalyzing,
	StatusExtractingHighlights,
	StatusGeneratingContentPlan,
	StatusCompleted,
	StatusError,
}

// stageOrder ranks the linear part of the lifecycle.
var stageOrder = map[Status]int{
	StatusSubmitted:             0,
	StatusProcessing:            1,
	StatusAnalyzing:             2,
	StatusExtractingHighlights:  3,
	StatusGeneratingContentPlan: 4,
	StatusCompleted:             5,
}

// ParseStatus accepts either the storage form ("extracting_highlights") or
// the presentation tag ("EXTRACTING_HIGHLIGHTS").
func ParseStatus(raw string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := stageOrder[status]
	if !ok && status != StatusError {
		return "", false
	}
	return status, true
}

// StageTag returns the upper-case presentation form used in status reports.
func (s Status) StageTag() string {
	return strings.ToUpper(string(s))
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// IsTransient reports whether the job is mid-pipeline; such a job found at
// daemon startup is orphaned.
func (s Status) IsTransient() bool {
	switch s {
	case StatusProcessing, StatusAnalyzing, StatusExtractingHighlights, StatusGeneratingContentPlan:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is allowed: one step
// forward along the stage order, or to error from any non-terminal status.
func (s Status) CanTransition(next Status) bool {
	if next == StatusError {
		return !s.IsTerminal()
	}
	from, okFrom := stageOrder[s]
	to, okTo := stageOrder[next]
	return okFrom && okTo && to == from+1
}

// Job is a submitted video making its way through the pipeline.
type Job struct {
	ID               string
	Title            string
	Description      string
	OriginalFilename string
	SourcePath       string
	MediaType        string
	Status           Status
	ErrorMessage     string
	DurationSeconds  float64
	FrameCount       int64
	// AnalysisJSON carries the candidate moments between the analyze and
	// extract stages.
	AnalysisJSON    string
	HighlightsCount int
	PlanPath        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SetFailed marks the job failed with an operator-facing message.
func (j *Job) SetFailed(message string) {
	j.Status = StatusError
	j.ErrorMessage = message
}

// Highlight is one extracted clip with its artifacts.
type Highlight struct {
	ID            string
	JobID         string
	Idx           int
	Title         string
	Description   string
	StartSeconds  float64
	EndSeconds    float64
	ClipPath      string
	ThumbnailPath string
	SubtitlePath  string
	CreatedAt     time.Time
}

// DurationSeconds returns the highlight length.
func (h *Highlight) DurationSeconds() float64 {
	return h.EndSeconds - h.StartSeconds
}

// ContentPost is one scheduled social post inside a plan.
type ContentPost struct {
	HighlightID string   `json:"highlight_id"`
	Title       string   `json:"title"`
	Caption     string   `json:"caption"`
	Platform    string   `json:"platform"`
	PostingDate string   `json:"posting_date"`
	Hashtags    []string `json:"hashtags"`
}

// ContentPlan is the posting schedule generated for a job's highlights.
type ContentPlan struct {
	JobID       string        `json:"job_id"`
	Title       string        `json:"title"`
	GeneratedAt time.Time     `json:"generated_at"`
	Posts       []ContentPost `json:"posts"`
}
