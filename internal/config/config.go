package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	AudioSaveDir string `toml:"audio_save_dir"`
	CardsDir     string `toml:"cards_dir"`
	StateDir     string `toml:"state_dir"`
}

// Languages holds the source (spoken) and target (translation) languages.
type Languages struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

// Alignment contains sentence-to-word alignment settings.
type Alignment struct {
	BufferSeconds float64 `toml:"buffer_seconds"`
	OverlapPolicy string  `toml:"overlap_policy"`
}

// Transcription configures the speech-recognition engine.
type Transcription struct {
	Engine        string `toml:"engine"`
	Model         string `toml:"model"`
	CUDAEnabled   bool   `toml:"cuda_enabled"`
	VADMethod     string `toml:"vad_method"`
	HuggingFace   string `toml:"hf_token"`
	WhisperBinary string `toml:"whisper_binary"`
	UVXBinary     string `toml:"uvx_binary"`
}

// Sentences configures the sentence splitter.
type Sentences struct {
	Splitter string   `toml:"splitter"`
	Command  []string `toml:"command"`
}

// Translation configures the translation engine and its batch behaviour.
type Translation struct {
	Engine          string `toml:"engine"`
	Workers         int    `toml:"workers"`
	RateLimitPerMin int    `toml:"rate_limit_per_min"`
	MaxAttempts     int    `toml:"max_attempts"`
	CacheEnabled    bool   `toml:"cache_enabled"`
	ArgosBinary     string `toml:"argos_binary"`
	ArgosPMBinary   string `toml:"argospm_binary"`
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	Model           string `toml:"model"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Clips configures per-sentence audio extraction.
type Clips struct {
	Workers       int    `toml:"workers"`
	Extension     string `toml:"extension"`
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Cards configures the flashcard import file.
type Cards struct {
	Tags string `toml:"tags"`
}

// Download configures remote media retrieval.
type Download struct {
	Binary string `toml:"binary"`
	Format string `toml:"format"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format         string            `toml:"format"`
	Level          string            `toml:"level"`
	StageOverrides map[string]string `toml:"stage_overrides"`
}

// Config encapsulates all configuration values for clipdeck.
//
// Configuration sections by subsystem:
//   - Paths: clip output, card output, and state directories
//   - Languages: spoken and translation languages
//   - Alignment: buffer applied around each sentence and overlap handling
//   - Transcription: whisper / whisperx settings
//   - Sentences: Punkt, rule-based or external splitter
//   - Translation: argos / OpenAI-compatible engine, pool, and cache
//   - Clips: ffmpeg slicing settings
//   - Cards: deck tags
//   - Download: yt-dlp settings for remote sources
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Languages     Languages     `toml:"languages"`
	Alignment     Alignment     `toml:"alignment"`
	Transcription Transcription `toml:"transcription"`
	Sentences     Sentences     `toml:"sentences"`
	Translation   Translation   `toml:"translation"`
	Clips         Clips         `toml:"clips"`
	Cards         Cards         `toml:"cards"`
	Download      Download      `toml:"download"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Finalize normalizes and validates a config assembled in code (tests and CLI
// overrides) using the same rules as Load.
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipdeck.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.AudioSaveDir, c.Paths.CardsDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the sqlite database holding the translation cache and run history.
func (c *Config) StorePath() string {
	return filepath.Join(c.Paths.StateDir, "clipdeck.db")
}

// LockPath returns the advisory lock file guarding the clip output directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.AudioSaveDir, ".clipdeck.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration text.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
