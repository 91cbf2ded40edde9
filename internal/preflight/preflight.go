package preflight

import (
	"context"
	"strings"

	"clipdeck/internal/config"
	"clipdeck/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks every configured directory.
func RunAll(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Clip directory", cfg.Paths.AudioSaveDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}
	if cfg.Paths.CardsDir != "" && cfg.Paths.CardsDir != cfg.Paths.AudioSaveDir {
		results = append(results, CheckDirectoryAccess("Cards directory", cfg.Paths.CardsDir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

const (
	checkWhisper = "whisper"
	checkUVX     = "uvx"
)

// IsTranscriptionCheck reports whether the named check covers the speech
// recognizer, which a run with a supplied transcript never invokes.
func IsTranscriptionCheck(name string) bool {
	return name == checkWhisper || name == checkUVX
}

// Requirements lists the programs the configured engines invoke. remote
// marks yt-dlp as required rather than optional.
func Requirements(cfg *config.Config, remote bool) []deps.Requirement {
	reqs := []deps.Requirement{
		{Name: "FFmpeg", Command: cfg.Clips.FFmpegBinary, Description: "Required for audio extraction and clip slicing"},
		{Name: "FFprobe", Command: cfg.Clips.FFprobeBinary, Description: "Required for source inspection"},
		{Name: "yt-dlp", Command: cfg.Download.Binary, Description: "Required for URL sources", Optional: !remote},
	}
	switch cfg.Transcription.Engine {
	case config.EngineWhisperX:
		reqs = append(reqs, deps.Requirement{Name: checkUVX, Command: cfg.Transcription.UVXBinary, Description: "Runs WhisperX transcription"})
	default:
		reqs = append(reqs, deps.Requirement{Name: checkWhisper, Command: cfg.Transcription.WhisperBinary, Description: "Runs Whisper transcription"})
	}
	if cfg.Sentences.Splitter == config.SplitterCommand && len(cfg.Sentences.Command) > 0 {
		reqs = append(reqs, deps.Requirement{Name: "Sentence splitter", Command: cfg.Sentences.Command[0], Description: "External sentence segmentation"})
	}
	if cfg.Translation.Engine == config.TranslatorArgos {
		reqs = append(reqs,
			deps.Requirement{Name: "argos-translate", Command: cfg.Translation.ArgosBinary, Description: "Offline translation"},
			deps.Requirement{Name: "argospm", Command: cfg.Translation.ArgosPMBinary, Description: "Installs argos language packages"},
		)
	}
	return reqs
}

// SystemDeps resolves Requirements on PATH and reports them as results.
// Optional programs that are missing still pass.
func SystemDeps(cfg *config.Config, remote bool) []Result {
	if cfg == nil {
		return nil
	}
	statuses := deps.CheckBinaries(Requirements(cfg, remote))
	results := make([]Result, 0, len(statuses))
	for _, s := range statuses {
		r := Result{Name: s.Name, Passed: s.Available || s.Optional}
		switch {
		case s.Available:
			r.Detail = s.Path
		case s.Optional:
			r.Detail = strings.TrimSpace(s.Detail + " (optional)")
		default:
			r.Detail = s.Detail
		}
		results = append(results, r)
	}
	return results
}
