// Package media is the capability boundary for local video manipulation:
// probing stream metadata and extracting clips and thumbnails.
//
// The production implementation shells out to ffprobe and ffmpeg; stages
// depend on the Processor interface so tests can substitute fakes.
package media
