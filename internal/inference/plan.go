package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clipcast/internal/registry"
)

// ErrEmptyInput reports a plan request with no highlights to schedule.
var ErrEmptyInput = errors.New("no highlights to plan")

// planPlatforms is the round-robin rotation used for prompts and for
// synthesized posts.
var planPlatforms = []string{"Instagram", "YouTube", "TikTok"}

var defaultHashtags = []string{"video", "highlights", "content"}

// planItem is the wire shape of one model-produced schedule entry.
type planItem struct {
	HighlightIndex *int     `json:"highlight_index"`
	Title          string   `json:"title"`
	Caption        string   `json:"caption"`
	Platform       string   `json:"platform"`
	PostingDate    string   `json:"posting_date"`
	Hashtags       []string `json:"hashtags"`
}

// GenerateContentPlan asks the model for a posting schedule covering every
// highlight. Zero highlights fail fast with ErrEmptyInput before any model
// call. Transport failures are errors; a malformed or partial response is
// compensated per highlight with a deterministic synthesized post.
func (c *Client) GenerateContentPlan(ctx context.Context, jobID string, highlights []*registry.Highlight) (registry.ContentPlan, error) {
	if len(highlights) == 0 {
		return registry.ContentPlan{}, ErrEmptyInput
	}

	now := time.Now()
	user := fmt.Sprintf(planUserPromptTemplate, len(highlights),
		postingDate(now, 0), describeHighlights(highlights))
	content, err := c.complete(ctx, planSystemPrompt, user)
	if err != nil {
		return registry.ContentPlan{}, err
	}
	return buildPlan(jobID, highlights, content, now), nil
}

func describeHighlights(highlights []*registry.Highlight) string {
	var sb strings.Builder
	for i, h := range highlights {
		fmt.Fprintf(&sb, "%d. %q (%.1f s): %s\n", i, h.Title, h.DurationSeconds(), h.Description)
	}
	return sb.String()
}

// buildPlan merges model output with per-highlight synthesized defaults so
// every highlight ends up with exactly one post.
func buildPlan(jobID string, highlights []*registry.Highlight, content string, now time.Time) registry.ContentPlan {
	var items []planItem
	// Decode failure leaves items empty; every post falls back.
	_ = DecodeModelJSON(content, &items)

	byIndex := make(map[int]planItem, len(items))
	for _, item := range items {
		if item.HighlightIndex == nil {
			continue
		}
		idx := *item.HighlightIndex
		if idx < 0 || idx >= len(highlights) {
			continue
		}
		if _, taken := byIndex[idx]; taken {
			continue
		}
		byIndex[idx] = item
	}

	posts := make([]registry.ContentPost, 0, len(highlights))
	for i, h := range highlights {
		item, fromModel := byIndex[i]
		if !fromModel {
			posts = append(posts, synthesizedPost(h, i, now))
			continue
		}
		posts = append(posts, mergedPost(h, i, item, now))
	}

	return registry.ContentPlan{
		JobID:       jobID,
		Title:       fmt.Sprintf("Content Plan for %d Highlights", len(highlights)),
		GeneratedAt: now.UTC(),
		Posts:       posts,
	}
}

// mergedPost takes the model's item and backfills whatever it left out.
func mergedPost(h *registry.Highlight, index int, item planItem, now time.Time) registry.ContentPost {
	post := registry.ContentPost{
		HighlightID: h.ID,
		Title:       strings.TrimSpace(item.Title),
		Caption:     strings.TrimSpace(item.Caption),
		Platform:    canonicalPlatform(item.Platform),
		PostingDate: strings.TrimSpace(item.PostingDate),
		Hashtags:    cleanHashtags(item.Hashtags),
	}
	if post.Title == "" {
		post.Title = h.Title
	}
	if post.Caption == "" {
		post.Caption = "Check out this highlight!"
	}
	if post.Platform == "" {
		post.Platform = planPlatforms[index%len(planPlatforms)]
	}
	if _, err := time.Parse("2006-01-02", post.PostingDate); err != nil {
		post.PostingDate = postingDate(now, index)
	}
	if len(post.Hashtags) == 0 {
		post.Hashtags = synthesizedHashtags(index)
	}
	return post
}

// synthesizedPost is the deterministic fallback for a highlight the model
// response did not cover.
func synthesizedPost(h *registry.Highlight, index int, now time.Time) registry.ContentPost {
	return registry.ContentPost{
		HighlightID: h.ID,
		Title:       h.Title,
		Caption:     fmt.Sprintf("Check out this amazing highlight from our video! %s", h.Description),
		Platform:    planPlatforms[index%len(planPlatforms)],
		PostingDate: postingDate(now, index),
		Hashtags:    synthesizedHashtags(index),
	}
}

func synthesizedHashtags(index int) []string {
	tags := append([]string{}, defaultHashtags...)
	return append(tags, fmt.Sprintf("part%d", index+1))
}

// postingDate schedules post index at now + (index+1) days.
func postingDate(now time.Time, index int) string {
	return now.AddDate(0, 0, index+1).Format("2006-01-02")
}

func canonicalPlatform(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, platform := range planPlatforms {
		if strings.EqualFold(raw, platform) {
			return platform
		}
	}
	// Unknown platforms pass through; display casing is the API layer's
	// concern.
	return raw
}

func cleanHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
