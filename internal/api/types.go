package api

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"clipcast/internal/registry"
)

// JobView is the outward representation of a job.
type JobView struct {
	ID               string
	Title            string
	Description      string
	OriginalFilename string
	SourcePath       string
	MediaType        string
	Status           string
	ErrorMessage     string
	DurationSeconds  float64
	FrameCount       int64
	HighlightsCount  int
	PlanPath         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StatusView is the minimal polling answer.
type StatusView struct {
	ID           string
	Status       string
	ErrorMessage string
}

// HighlightView is the outward representation of a highlight.
type HighlightView struct {
	ID              string
	JobID           string
	Index           int
	Title           string
	Description     string
	StartSeconds    float64
	EndSeconds      float64
	DurationSeconds float64
	ClipPath        string
	ThumbnailPath   string
	SubtitlePath    string
}

// PostView is one scheduled post inside a plan.
type PostView struct {
	HighlightID string
	Title       string
	Caption     string
	Platform    string
	PostingDate string
	Hashtags    []string
}

// PlanView is the outward representation of a content plan.
type PlanView struct {
	JobID       string
	Title       string
	GeneratedAt time.Time
	Posts       []PostView
}

var platformCaser = cases.Title(language.English)

// displayPlatform normalizes platform labels for presentation, so a model
// that answered "tiktok" or "YOUTUBE" still renders consistently.
func displayPlatform(raw string) string {
	switch raw {
	case "Instagram", "YouTube", "TikTok":
		return raw
	case "":
		return ""
	}
	switch platformCaser.String(raw) {
	case "Youtube":
		return "YouTube"
	case "Tiktok":
		return "TikTok"
	default:
		return platformCaser.String(raw)
	}
}

func fromJob(job *registry.Job) JobView {
	return JobView{
		ID:               job.ID,
		Title:            job.Title,
		Description:      job.Description,
		OriginalFilename: job.OriginalFilename,
		SourcePath:       job.SourcePath,
		MediaType:        job.MediaType,
		Status:           job.Status.StageTag(),
		ErrorMessage:     job.ErrorMessage,
		DurationSeconds:  job.DurationSeconds,
		FrameCount:       job.FrameCount,
		HighlightsCount:  job.HighlightsCount,
		PlanPath:         job.PlanPath,
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
	}
}

func fromHighlight(h *registry.Highlight) HighlightView {
	return HighlightView{
		ID:              h.ID,
		JobID:           h.JobID,
		Index:           h.Idx,
		Title:           h.Title,
		Description:     h.Description,
		StartSeconds:    h.StartSeconds,
		EndSeconds:      h.EndSeconds,
		DurationSeconds: h.DurationSeconds(),
		ClipPath:        h.ClipPath,
		ThumbnailPath:   h.ThumbnailPath,
		SubtitlePath:    h.SubtitlePath,
	}
}

func fromPlan(plan *registry.ContentPlan) PlanView {
	posts := make([]PostView, 0, len(plan.Posts))
	for _, post := range plan.Posts {
		posts = append(posts, PostView{
			HighlightID: post.HighlightID,
			Title:       post.Title,
			Caption:     post.Caption,
			Platform:    displayPlatform(post.Platform),
			PostingDate: post.PostingDate,
			Hashtags:    append([]string{}, post.Hashtags...),
		})
	}
	return PlanView{
		JobID:       plan.JobID,
		Title:       plan.Title,
		GeneratedAt: plan.GeneratedAt,
		Posts:       posts,
	}
}
