package media

import "context"

// Info describes a probed video source.
type Info struct {
	DurationSeconds float64
	FrameCount      int64
	VideoStreams    int
	AudioStreams    int
	FormatName      string
}

// Processor performs local media operations.
type Processor interface {
	// Probe inspects the source and returns its duration and frame count.
	Probe(ctx context.Context, sourcePath string) (Info, error)

	// ExtractClip cuts [startSeconds, endSeconds) of the source into
	// destPath, re-encoding for portable playback.
	ExtractClip(ctx context.Context, sourcePath, destPath string, startSeconds, endSeconds float64) error

	// ExtractThumbnail writes a single JPEG frame taken at atSeconds.
	ExtractThumbnail(ctx context.Context, sourcePath, destPath string, atSeconds float64) error
}
