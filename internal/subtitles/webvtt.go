package subtitles

import (
	"fmt"
	"strconv"
	"strings"
)

const header = "WEBVTT"

// Cue is one timed text block.
type Cue struct {
	StartSeconds float64
	EndSeconds   float64
	Text         string
}

// Document is a parsed WebVTT file.
type Document struct {
	Cues []Cue
}

// Parse decodes a WebVTT document. The header line is required; cue
// identifiers and styling blocks are tolerated and dropped.
func Parse(content string) (Document, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), header) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return Document{}, fmt.Errorf("missing %s header", header)
	}

	var doc Document
	i := start
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}
		// NOTE and STYLE blocks run to the next blank line.
		if strings.HasPrefix(line, "NOTE") || line == "STYLE" {
			for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
				i++
			}
			continue
		}
		if !strings.Contains(line, "-->") {
			// Cue identifier; the timing line follows.
			i++
			if i >= len(lines) || !strings.Contains(lines[i], "-->") {
				return Document{}, fmt.Errorf("line %d: expected cue timing after identifier %q", i+1, line)
			}
			line = strings.TrimSpace(lines[i])
		}

		cue, err := parseTiming(line)
		if err != nil {
			return Document{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		i++

		var text []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			text = append(text, strings.TrimSpace(lines[i]))
			i++
		}
		cue.Text = strings.Join(text, "\n")
		doc.Cues = append(doc.Cues, cue)
	}
	return doc, nil
}

func parseTiming(line string) (Cue, error) {
	startRaw, endRaw, found := strings.Cut(line, "-->")
	if !found {
		return Cue{}, fmt.Errorf("not a cue timing line: %q", line)
	}
	// Cue settings may trail the end timestamp.
	endFields := strings.Fields(strings.TrimSpace(endRaw))
	if len(endFields) == 0 {
		return Cue{}, fmt.Errorf("missing end timestamp: %q", line)
	}

	start, err := ParseTimestamp(strings.TrimSpace(startRaw))
	if err != nil {
		return Cue{}, err
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return Cue{}, err
	}
	if end <= start {
		return Cue{}, fmt.Errorf("cue ends at or before its start: %q", line)
	}
	return Cue{StartSeconds: start, EndSeconds: end}, nil
}

// ParseTimestamp decodes HH:MM:SS.mmm or MM:SS.mmm into seconds.
func ParseTimestamp(raw string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("bad timestamp %q", raw)
	}

	secondsPart := parts[len(parts)-1]
	seconds, err := strconv.ParseFloat(secondsPart, 64)
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("bad timestamp %q", raw)
	}

	total := seconds
	scale := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		unit, err := strconv.ParseUint(parts[i], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("bad timestamp %q", raw)
		}
		total += float64(unit) * scale
		scale *= 60
	}
	return total, nil
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(seconds*1000 + 0.5)
	h := millis / 3_600_000
	millis %= 3_600_000
	m := millis / 60_000
	millis %= 60_000
	s := millis / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// Render encodes the document back to WebVTT text.
func (d Document) Render() string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")
	for _, cue := range d.Cues {
		sb.WriteString(FormatTimestamp(cue.StartSeconds))
		sb.WriteString(" --> ")
		sb.WriteString(FormatTimestamp(cue.EndSeconds))
		sb.WriteByte('\n')
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// ClampToDuration drops cues that start at or past the clip end and
// truncates cue ends to it.
func (d Document) ClampToDuration(durationSeconds float64) Document {
	var out Document
	for _, cue := range d.Cues {
		if cue.StartSeconds >= durationSeconds {
			continue
		}
		if cue.EndSeconds > durationSeconds {
			cue.EndSeconds = durationSeconds
		}
		if cue.EndSeconds <= cue.StartSeconds {
			continue
		}
		out.Cues = append(out.Cues, cue)
	}
	return out
}

// Validate reports structural problems for a document meant to cover a
// clip of the given duration.
func (d Document) Validate(durationSeconds float64) error {
	if len(d.Cues) == 0 {
		return fmt.Errorf("document has no cues")
	}
	for i, cue := range d.Cues {
		if cue.EndSeconds <= cue.StartSeconds {
			return fmt.Errorf("cue %d ends at or before its start", i)
		}
		if cue.EndSeconds > durationSeconds {
			return fmt.Errorf("cue %d runs past the clip end (%s > %s)",
				i, FormatTimestamp(cue.EndSeconds), FormatTimestamp(durationSeconds))
		}
		if strings.TrimSpace(cue.Text) == "" {
			return fmt.Errorf("cue %d has no text", i)
		}
	}
	return nil
}
