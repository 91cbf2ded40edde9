package clips

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Slicer cuts the audio between start and end (decimal seconds) of source
// into dest.
type Slicer interface {
	Slice(ctx context.Context, source, start, end, dest string) error
}

// FFmpegSlicer extracts audio-only clips with ffmpeg. Its console output is
// captured and only surfaced in the returned error.
type FFmpegSlicer struct {
	binary string
	runner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewFFmpegSlicer returns a slicer using the given ffmpeg binary.
func NewFFmpegSlicer(binary string) *FFmpegSlicer {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &FFmpegSlicer{binary: binary, runner: combinedOutput}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *FFmpegSlicer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	s.runner = runner
}

// Slice implements Slicer.
func (s *FFmpegSlicer) Slice(ctx context.Context, source, start, end, dest string) error {
	output, err := s.runner(ctx, s.binary, BuildSliceArgs(source, start, end, dest)...)
	if err != nil {
		return fmt.Errorf("ffmpeg slice: %w: %s", err, lastLine(output))
	}
	return nil
}

// BuildSliceArgs returns the ffmpeg arguments for one clip.
func BuildSliceArgs(source, start, end, dest string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-ss", start,
		"-to", end,
		"-i", source,
		"-map", "0:a",
		"-y",
		dest,
	}
}

func combinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

func lastLine(output []byte) string {
	text := strings.TrimSpace(string(output))
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		return text[idx+1:]
	}
	return text
}
