package inference

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeModelJSON decodes a JSON value out of raw model output. Models wrap
// payloads in code fences and prose, so the payload is located and cut out
// before decoding.
func DecodeModelJSON(payload string, target any) error {
	sanitized := sanitizeJSONPayload(payload)
	if sanitized == "" {
		return fmt.Errorf("no JSON payload in model output (%s)", summarizePayload(payload))
	}
	if err := json.Unmarshal([]byte(sanitized), target); err != nil {
		return fmt.Errorf("decode model JSON (%s): %w", summarizePayload(sanitized), err)
	}
	return nil
}

func sanitizeJSONPayload(payload string) string {
	payload = stripCodeFences(strings.TrimSpace(payload))

	objStart := strings.IndexByte(payload, '{')
	arrStart := strings.IndexByte(payload, '[')
	start := objStart
	var open, close byte = '{', '}'
	if start < 0 || (arrStart >= 0 && arrStart < start) {
		start = arrStart
		open, close = '[', ']'
	}
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(payload); i++ {
		ch := payload[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return payload[start : i+1]
			}
		}
	}
	return ""
}

func stripCodeFences(payload string) string {
	if !strings.HasPrefix(payload, "```") {
		return payload
	}
	payload = strings.TrimPrefix(payload, "```")
	if newline := strings.IndexByte(payload, '\n'); newline >= 0 {
		// Drop the language tag line ("json", ...).
		payload = payload[newline+1:]
	}
	if end := strings.LastIndex(payload, "```"); end >= 0 {
		payload = payload[:end]
	}
	return strings.TrimSpace(payload)
}

// summarizePayload produces a short loggable description of model output.
func summarizePayload(payload string) string {
	payload = strings.Join(strings.Fields(payload), " ")
	const max = 120
	if len(payload) > max {
		payload = payload[:max] + "..."
	}
	if payload == "" {
		return "empty response"
	}
	return fmt.Sprintf("starts with %q", payload)
}
