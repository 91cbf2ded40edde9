package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"clipdeck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a finalized config whose directories live under a
// per-test temp dir. The translation cache is disabled and a single worker
// is used so tests are deterministic unless an option says otherwise.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.AudioSaveDir = filepath.Join(base, "out")
	cfgVal.Paths.CardsDir = filepath.Join(base, "cards")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Translation.CacheEnabled = false
	cfgVal.Translation.APIKey = ""
	cfgVal.Transcription.HuggingFace = ""

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Finalize(); err != nil {
		t.Fatalf("finalize test config: %v", err)
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithBuffer sets the alignment buffer in seconds.
func WithBuffer(seconds float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Alignment.BufferSeconds = seconds
	}
}

// WithOverlapPolicy sets the alignment overlap policy.
func WithOverlapPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Alignment.OverlapPolicy = policy
	}
}

// WithTags sets the deck tags written to the cards header.
func WithTags(tags string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cards.Tags = tags
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default clipdeck external
// binaries are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "whisper", "argos-translate", "argospm"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.AudioSaveDir)
}
