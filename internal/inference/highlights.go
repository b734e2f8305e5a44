package inference

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Moment is one candidate highlight interval.
type Moment struct {
	StartSeconds     float64 `json:"start_time"`
	EndSeconds       float64 `json:"end_time"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	EngagementReason string  `json:"engagement_reason"`
}

// Analysis is the outcome of highlight analysis. Synthesized marks results
// produced by the local fallback rather than the model.
type Analysis struct {
	Moments     []Moment `json:"moments"`
	Synthesized bool     `json:"synthesized"`
}

// AnalyzeVideo asks the model for highlight moments. Transport failures are
// returned as errors; unusable model output degrades to a synthesized
// analysis instead.
func (c *Client) AnalyzeVideo(ctx context.Context, sourcePath string, durationSeconds float64, frameCount int64) (Analysis, error) {
	user := fmt.Sprintf(analyzeUserPromptTemplate, filepath.Base(sourcePath), durationSeconds, frameCount)
	content, err := c.complete(ctx, analyzeSystemPrompt, user)
	if err != nil {
		return Analysis{}, err
	}
	return parseAnalysis(content, durationSeconds), nil
}

// parseAnalysis decodes model output into an Analysis, backfilling missing
// fields and falling back to synthesized moments when nothing usable
// decodes.
func parseAnalysis(content string, durationSeconds float64) Analysis {
	var raw []Moment
	if err := DecodeModelJSON(content, &raw); err != nil {
		return synthesizeAnalysis(durationSeconds)
	}

	moments := make([]Moment, 0, len(raw))
	for i, moment := range raw {
		backfillMoment(&moment, i)
		moments = append(moments, moment)
	}
	if len(moments) == 0 {
		return synthesizeAnalysis(durationSeconds)
	}
	return Analysis{Moments: moments}
}

// backfillMoment fills the descriptive fields a sloppy model response may
// omit. Interval sanity is the extraction stage's concern.
func backfillMoment(moment *Moment, index int) {
	if strings.TrimSpace(moment.Title) == "" {
		moment.Title = fmt.Sprintf("Highlight Moment %d", index+1)
	}
	if strings.TrimSpace(moment.Description) == "" {
		moment.Description = "An engaging moment from the video"
	}
	if strings.TrimSpace(moment.EngagementReason) == "" {
		moment.EngagementReason = "Interesting content segment"
	}
}

// synthesizeAnalysis spreads three fixed-length moments proportionally
// across the video. Deterministic so repeated failures produce identical
// results.
func synthesizeAnalysis(durationSeconds float64) Analysis {
	const count = 3
	segment := durationSeconds / count
	clipLength := segment * 0.6
	if clipLength > 30 {
		clipLength = 30
	}

	moments := make([]Moment, 0, count)
	for i := 0; i < count; i++ {
		start := float64(i) * segment
		end := start + clipLength
		if end > durationSeconds {
			end = durationSeconds
		}
		moments = append(moments, Moment{
			StartSeconds:     start,
			EndSeconds:       end,
			Title:            fmt.Sprintf("Highlight Moment %d", i+1),
			Description:      "An engaging moment from the video",
			EngagementReason: "Interesting content segment",
		})
	}
	return Analysis{Moments: moments, Synthesized: true}
}
