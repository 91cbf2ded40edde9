package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"clipdeck/internal/config"
	"clipdeck/internal/transcript"
)

// Transcriber turns an audio or video file into a word-timestamped transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, source, language string) (transcript.Transcript, error)
}

type commandRunner func(ctx context.Context, name string, args ...string) error

// Service runs the configured recognizer.
type Service struct {
	cfg          config.Transcription
	ffmpegBinary string
	workRoot     string
	run          commandRunner
}

// New builds a Service from the transcription settings.
func New(cfg config.Transcription, ffmpegBinary string) *Service {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = FFmpegCommand
	}
	return &Service{cfg: cfg, ffmpegBinary: ffmpegBinary, run: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.run = runner
}

// WithWorkRoot sets the parent directory for scratch files. The system
// temp directory is used when unset.
func (s *Service) WithWorkRoot(dir string) {
	s.workRoot = dir
}

// Engine returns the configured engine name.
func (s *Service) Engine() string {
	if s.cfg.Engine == "" {
		return config.EngineWhisper
	}
	return s.cfg.Engine
}

// Model returns the configured model name.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// Transcribe extracts the audio of source, runs the recognizer, and decodes
// its JSON output. Scratch files are removed before returning.
func (s *Service) Transcribe(ctx context.Context, source, language string) (transcript.Transcript, error) {
	if strings.TrimSpace(source) == "" {
		return transcript.Transcript{}, fmt.Errorf("transcribe: source path required")
	}
	workDir, err := os.MkdirTemp(s.workRoot, "clipdeck-transcribe-")
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("transcribe: create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	wav := filepath.Join(workDir, "audio.wav")
	if err := s.run(ctx, s.ffmpegBinary, BuildExtractArgs(source, wav)...); err != nil {
		return transcript.Transcript{}, fmt.Errorf("transcribe: extract audio: %w", err)
	}

	var (
		binary string
		args   []string
	)
	switch s.Engine() {
	case config.EngineWhisperX:
		binary = orDefault(s.cfg.UVXBinary, UVXCommand)
		args = s.whisperXArgs(wav, workDir, language)
	default:
		binary = orDefault(s.cfg.WhisperBinary, WhisperCommand)
		args = s.whisperArgs(wav, workDir, language)
	}
	if err := s.run(ctx, binary, args...); err != nil {
		return transcript.Transcript{}, fmt.Errorf("transcribe: %s: %w", s.Engine(), err)
	}

	out, err := transcript.Load(filepath.Join(workDir, "audio.json"))
	if err != nil {
		return transcript.Transcript{}, fmt.Errorf("transcribe: read %s output: %w", s.Engine(), err)
	}
	if out.Language == "" {
		out.Language = language
	}
	return out, nil
}

// BuildExtractArgs returns the ffmpeg arguments that produce a mono 16 kHz
// WAV from the first audio stream of source.
func BuildExtractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

func (s *Service) whisperArgs(source, outputDir, language string) []string {
	args := []string{
		source,
		"--model", s.Model(),
		"--word_timestamps", "True",
		"--output_format", "json",
		"--output_dir", outputDir,
		"--verbose", "False",
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--fp16", "False")
	}
	return args
}

func (s *Service) whisperXArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 40)
	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}
	args = append(args,
		"whisperx",
		source,
		"--model", s.Model(),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", "json",
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
		"--vad_onset", VADOnset,
		"--vad_offset", VADOffset,
		"--beam_size", BeamSize,
		"--best_of", BestOf,
		"--temperature", Temperature,
		"--patience", Patience,
	)

	vadMethod := s.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HuggingFace != "" {
		args = append(args, "--hf_token", s.cfg.HuggingFace)
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
