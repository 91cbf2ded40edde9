package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLanguages(); err != nil {
		return err
	}
	c.normalizeAlignment()
	c.normalizeTranscription()
	c.normalizeSentences()
	c.normalizeTranslation()
	c.normalizeClips()
	c.normalizeDownload()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.AudioSaveDir) == "" {
		c.Paths.AudioSaveDir = defaultAudioSaveDir
	}
	if c.Paths.AudioSaveDir, err = expandPath(c.Paths.AudioSaveDir); err != nil {
		return fmt.Errorf("paths.audio_save_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CardsDir) == "" {
		c.Paths.CardsDir = defaultCardsDir
	}
	if c.Paths.CardsDir, err = expandPath(c.Paths.CardsDir); err != nil {
		return fmt.Errorf("paths.cards_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLanguages() error {
	var err error
	if c.Languages.Input, err = NormalizeLanguage(c.Languages.Input); err != nil {
		return fmt.Errorf("languages.input: %w", err)
	}
	if c.Languages.Output, err = NormalizeLanguage(c.Languages.Output); err != nil {
		return fmt.Errorf("languages.output: %w", err)
	}
	return nil
}

// NormalizeLanguage canonicalises a language code ("ES", "spa", "es-MX") to
// the two-letter base code the recognition and translation engines expect.
func NormalizeLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("language code is empty")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", code, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

func (c *Config) normalizeAlignment() {
	c.Alignment.OverlapPolicy = strings.ToLower(strings.TrimSpace(c.Alignment.OverlapPolicy))
	if c.Alignment.OverlapPolicy == "" {
		c.Alignment.OverlapPolicy = defaultOverlapPolicy
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Engine = strings.ToLower(strings.TrimSpace(c.Transcription.Engine))
	if c.Transcription.Engine == "" {
		c.Transcription.Engine = defaultTranscriptionEngine
	}
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultWhisperModel
	}
	c.Transcription.VADMethod = strings.ToLower(strings.TrimSpace(c.Transcription.VADMethod))
	if c.Transcription.VADMethod == "" {
		c.Transcription.VADMethod = defaultVADMethod
	}
	c.Transcription.HuggingFace = strings.TrimSpace(c.Transcription.HuggingFace)
	if c.Transcription.HuggingFace == "" {
		if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.Transcription.HuggingFace = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			c.Transcription.HuggingFace = strings.TrimSpace(value)
		}
	}
	c.Transcription.WhisperBinary = orDefault(c.Transcription.WhisperBinary, defaultWhisperBinary)
	c.Transcription.UVXBinary = orDefault(c.Transcription.UVXBinary, defaultUVXBinary)
}

func (c *Config) normalizeSentences() {
	c.Sentences.Splitter = strings.ToLower(strings.TrimSpace(c.Sentences.Splitter))
	if c.Sentences.Splitter == "" {
		c.Sentences.Splitter = defaultSplitter
	}
	command := make([]string, 0, len(c.Sentences.Command))
	for _, arg := range c.Sentences.Command {
		if arg = strings.TrimSpace(arg); arg != "" {
			command = append(command, arg)
		}
	}
	c.Sentences.Command = command
}

func (c *Config) normalizeTranslation() {
	c.Translation.Engine = strings.ToLower(strings.TrimSpace(c.Translation.Engine))
	if c.Translation.Engine == "" {
		c.Translation.Engine = defaultTranslationEngine
	}
	c.Translation.ArgosBinary = orDefault(c.Translation.ArgosBinary, defaultArgosBinary)
	c.Translation.ArgosPMBinary = orDefault(c.Translation.ArgosPMBinary, defaultArgosPMBinary)
	c.Translation.BaseURL = orDefault(c.Translation.BaseURL, defaultOpenAIBaseURL)
	c.Translation.Model = orDefault(c.Translation.Model, defaultOpenAIModel)
	c.Translation.APIKey = strings.TrimSpace(c.Translation.APIKey)
	if c.Translation.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Translation.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = defaultOpenAITimeoutSeconds
	}
}

func (c *Config) normalizeClips() {
	c.Clips.Extension = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Clips.Extension)), ".")
	if c.Clips.Extension == "" {
		c.Clips.Extension = defaultClipExtension
	}
	c.Clips.FFmpegBinary = orDefault(c.Clips.FFmpegBinary, defaultFFmpegBinary)
	c.Clips.FFprobeBinary = orDefault(c.Clips.FFprobeBinary, defaultFFprobeBinary)
}

func (c *Config) normalizeDownload() {
	c.Download.Binary = orDefault(c.Download.Binary, defaultDownloadBinary)
	c.Download.Format = orDefault(c.Download.Format, defaultDownloadFormat)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}
