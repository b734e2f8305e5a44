// Package subtitles models WebVTT documents: parsing, rendering, clamping
// cues to a clip's duration, and validation.
package subtitles
