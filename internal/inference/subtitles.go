package inference

import (
	"context"
	"fmt"
	"strings"

	"clipcast/internal/subtitles"
)

// Captions is a normalized WebVTT document for one clip. Synthesized marks
// output the model produced in an unusable form and was replaced locally.
type Captions struct {
	Document    string
	Synthesized bool
}

// GenerateSubtitles asks the model for WebVTT subtitles covering a clip and
// normalizes the response: code fences stripped, header enforced, cues
// clamped to the clip duration. Unusable subtitle output is replaced with a
// single synthesized cue covering the clip; only transport failures error.
func (c *Client) GenerateSubtitles(ctx context.Context, title, description string, clipDurationSeconds float64) (Captions, error) {
	user := fmt.Sprintf(subtitleUserPromptTemplate, clipDurationSeconds, title, description, clipDurationSeconds)
	content, err := c.complete(ctx, subtitleSystemPrompt, user)
	if err != nil {
		return Captions{}, err
	}
	return normalizeSubtitles(content, title, clipDurationSeconds), nil
}

func normalizeSubtitles(content, title string, clipDurationSeconds float64) Captions {
	content = strings.TrimSpace(stripCodeFences(content))
	if !strings.HasPrefix(content, "WEBVTT") {
		content = "WEBVTT\n\n" + content + "\n"
	}

	doc, err := subtitles.Parse(content)
	if err == nil {
		doc = doc.ClampToDuration(clipDurationSeconds)
		if doc.Validate(clipDurationSeconds) == nil {
			return Captions{Document: doc.Render()}
		}
	}
	return Captions{
		Document:    synthesizeCaptions(title, clipDurationSeconds),
		Synthesized: true,
	}
}

// synthesizeCaptions builds a one-cue document spanning the clip, used when
// the model's caption output cannot be salvaged.
func synthesizeCaptions(title string, clipDurationSeconds float64) string {
	text := strings.TrimSpace(title)
	if text == "" {
		text = "Highlight clip"
	}
	doc := subtitles.Document{Cues: []subtitles.Cue{{
		StartSeconds: 0,
		EndSeconds:   clipDurationSeconds,
		Text:         text,
	}}}
	return doc.Render()
}
