package ffprobe_test

import (
	"context"
	"errors"
	"testing"

	"clipdeck/internal/media/ffprobe"
)

const probeJSON = `{"streams":[{"index":0,"codec_name":"h264","codec_type":"video"},
{"index":1,"codec_name":"aac","codec_type":"audio","sample_rate":"48000","channels":2}],
"format":{"filename":"lesson.mp4","duration":"62.500000","format_name":"mov,mp4"}}`

func TestRequireAudio(t *testing.T) {
	prober := ffprobe.New("")
	var gotArgs []string
	prober.WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return []byte(probeJSON), nil
	})
	result, err := prober.RequireAudio(context.Background(), "lesson.mp4")
	if err != nil {
		t.Fatalf("RequireAudio: %v", err)
	}
	if gotArgs[0] != "ffprobe" || gotArgs[len(gotArgs)-1] != "lesson.mp4" {
		t.Fatalf("unexpected invocation %q", gotArgs)
	}
	stream, ok := result.FirstAudio()
	if !ok || stream.Index != 1 || stream.Channels != 2 {
		t.Fatalf("unexpected audio stream %+v", stream)
	}
	if result.AudioStreamCount() != 1 || result.DurationSeconds() != 62.5 {
		t.Fatalf("unexpected helpers: count=%d duration=%v", result.AudioStreamCount(), result.DurationSeconds())
	}
}

func TestRequireAudioRejectsSilentSource(t *testing.T) {
	prober := ffprobe.New("ffprobe")
	prober.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte(`{"streams":[{"index":0,"codec_type":"video"}],"format":{"duration":"bad"}}`), nil
	})
	result, err := prober.RequireAudio(context.Background(), "video.mkv")
	if !errors.Is(err, ffprobe.ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("invalid duration should read as 0, got %v", result.DurationSeconds())
	}
}

func TestInspectReportsToolFailure(t *testing.T) {
	prober := ffprobe.New("ffprobe")
	prober.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("No such file"), errors.New("exit status 1")
	})
	if _, err := prober.Inspect(context.Background(), "missing.mp3"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := prober.Inspect(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
