package media

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"clipcast/internal/config"
	"clipcast/internal/fileutil"
	"clipcast/internal/services"
)

// FFmpeg implements Processor by shelling out to ffmpeg and ffprobe.
type FFmpeg struct {
	ffmpegBin      string
	ffprobeBin     string
	probeTimeout   time.Duration
	extractTimeout time.Duration
}

// NewFFmpeg builds a Processor from the media configuration.
func NewFFmpeg(cfg config.Media) *FFmpeg {
	return &FFmpeg{
		ffmpegBin:      cfg.FFmpeg,
		ffprobeBin:     cfg.FFprobe,
		probeTimeout:   time.Duration(cfg.ProbeTimeoutSeconds) * time.Second,
		extractTimeout: time.Duration(cfg.ExtractTimeoutSeconds) * time.Second,
	}
}

// FFmpegBinary returns the configured ffmpeg executable name.
func (f *FFmpeg) FFmpegBinary() string { return f.ffmpegBin }

// FFprobeBinary returns the configured ffprobe executable name.
func (f *FFmpeg) FFprobeBinary() string { return f.ffprobeBin }

func (f *FFmpeg) Probe(ctx context.Context, sourcePath string) (Info, error) {
	ctx, cancel := withTimeout(ctx, f.probeTimeout)
	defer cancel()

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration,format_name",
		"-show_entries", "stream=codec_type,r_frame_rate,nb_frames",
		"-of", "json",
		sourcePath,
	}
	cmd := exec.CommandContext(ctx, f.ffprobeBin, args...)
	output, err := cmd.Output()
	if err != nil {
		return Info{}, wrapToolError(ctx, "probe source", f.ffprobeBin, err)
	}
	info, err := parseProbeOutput(output)
	if err != nil {
		return Info{}, services.Wrap(services.ErrExternalTool, "", "probe source", "unreadable ffprobe output", err)
	}
	return info, nil
}

func (f *FFmpeg) ExtractClip(ctx context.Context, sourcePath, destPath string, startSeconds, endSeconds float64) error {
	ctx, cancel := withTimeout(ctx, f.extractTimeout)
	defer cancel()

	if err := fileutil.EnsureDir(filepath.Dir(destPath)); err != nil {
		return err
	}
	args := []string{
		"-y",
		"-ss", formatSeconds(startSeconds),
		"-to", formatSeconds(endSeconds),
		"-i", sourcePath,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-c:a", "aac",
		"-movflags", "+faststart",
		destPath,
	}
	cmd := exec.CommandContext(ctx, f.ffmpegBin, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return wrapToolError(ctx, "cut clip", f.ffmpegBin, fmt.Errorf("%w: %s", err, lastLine(output)))
	}
	return nil
}

func (f *FFmpeg) ExtractThumbnail(ctx context.Context, sourcePath, destPath string, atSeconds float64) error {
	ctx, cancel := withTimeout(ctx, f.extractTimeout)
	defer cancel()

	if err := fileutil.EnsureDir(filepath.Dir(destPath)); err != nil {
		return err
	}
	args := []string{
		"-y",
		"-ss", formatSeconds(atSeconds),
		"-i", sourcePath,
		"-frames:v", "1",
		"-q:v", "2",
		destPath,
	}
	cmd := exec.CommandContext(ctx, f.ffmpegBin, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return wrapToolError(ctx, "grab thumbnail", f.ffmpegBin, fmt.Errorf("%w: %s", err, lastLine(output)))
	}
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func wrapToolError(ctx context.Context, operation, tool string, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return services.Wrap(services.ErrTimeout, "", operation, tool+" exceeded its deadline", err)
	}
	return services.Wrap(services.ErrExternalTool, "", operation, tool+" failed", err)
}

// lastLine returns the last non-empty line of tool output, which is where
// ffmpeg puts the actual failure reason.
func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "no output"
}

// formatSeconds renders a timestamp the way ffmpeg expects it.
func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

type probeDocument struct {
	Format struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		FrameRate string `json:"r_frame_rate"`
		NbFrames  string `json:"nb_frames"`
	} `json:"streams"`
}

func parseProbeOutput(output []byte) (Info, error) {
	var doc probeDocument
	if err := json.Unmarshal(output, &doc); err != nil {
		return Info{}, fmt.Errorf("decode probe JSON: %w", err)
	}

	duration, err := strconv.ParseFloat(doc.Format.Duration, 64)
	if err != nil || duration <= 0 {
		return Info{}, fmt.Errorf("source has no usable duration (%q)", doc.Format.Duration)
	}

	info := Info{
		DurationSeconds: duration,
		FormatName:      doc.Format.FormatName,
	}
	for _, stream := range doc.Streams {
		switch stream.CodecType {
		case "video":
			info.VideoStreams++
			if info.FrameCount == 0 {
				info.FrameCount = frameCount(stream.NbFrames, stream.FrameRate, duration)
			}
		case "audio":
			info.AudioStreams++
		}
	}
	if info.VideoStreams == 0 {
		return Info{}, fmt.Errorf("source has no video stream")
	}
	return info, nil
}

// frameCount prefers the container's frame tally and falls back to
// rate * duration when the container does not carry one.
func frameCount(nbFrames, frameRate string, duration float64) int64 {
	if n, err := strconv.ParseInt(nbFrames, 10, 64); err == nil && n > 0 {
		return n
	}
	if rate := parseFrameRate(frameRate); rate > 0 {
		return int64(math.Round(rate * duration))
	}
	return 0
}

// parseFrameRate decodes ffprobe's rational form, e.g. "30000/1001".
func parseFrameRate(raw string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(raw), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
