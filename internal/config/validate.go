package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLanguages(); err != nil {
		return err
	}
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateSentences(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateClips(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLanguages() error {
	if c.Languages.Input == "" || c.Languages.Output == "" {
		return errors.New("languages.input and languages.output must be set")
	}
	if c.Languages.Input == c.Languages.Output {
		return fmt.Errorf("languages.input and languages.output must differ (both %q)", c.Languages.Input)
	}
	return nil
}

func (c *Config) validateAlignment() error {
	if c.Alignment.BufferSeconds < 0 {
		return errors.New("alignment.buffer_seconds must be >= 0")
	}
	switch c.Alignment.OverlapPolicy {
	case OverlapAllow, OverlapClamp, OverlapReject:
	default:
		return fmt.Errorf("alignment.overlap_policy must be one of allow, clamp, reject (got %q)", c.Alignment.OverlapPolicy)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Engine {
	case EngineWhisper, EngineWhisperX:
	default:
		return fmt.Errorf("transcription.engine must be whisper or whisperx (got %q)", c.Transcription.Engine)
	}
	if c.Transcription.Engine == EngineWhisperX {
		switch c.Transcription.VADMethod {
		case "silero", "pyannote":
		default:
			return fmt.Errorf("transcription.vad_method must be silero or pyannote (got %q)", c.Transcription.VADMethod)
		}
		if c.Transcription.VADMethod == "pyannote" && c.Transcription.HuggingFace == "" {
			return errors.New("transcription.hf_token is required for the pyannote VAD (or set HF_TOKEN)")
		}
	}
	return nil
}

func (c *Config) validateSentences() error {
	switch c.Sentences.Splitter {
	case SplitterPunkt, SplitterRules:
	case SplitterCommand:
		if len(c.Sentences.Command) == 0 {
			return errors.New("sentences.command must be set when sentences.splitter is command")
		}
	default:
		return fmt.Errorf("sentences.splitter must be punkt, rules or command (got %q)", c.Sentences.Splitter)
	}
	return nil
}

func (c *Config) validateTranslation() error {
	switch c.Translation.Engine {
	case TranslatorArgos:
	case TranslatorOpenAI:
		if c.Translation.APIKey == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = defaultConfigPath
			}
			return fmt.Errorf("translation.api_key is required for the openai engine. Set OPENAI_API_KEY or edit %s (create with 'clipdeck config init')", defaultPath)
		}
	default:
		return fmt.Errorf("translation.engine must be argos or openai (got %q)", c.Translation.Engine)
	}
	if c.Translation.Workers <= 0 {
		return errors.New("translation.workers must be positive")
	}
	if c.Translation.MaxAttempts <= 0 {
		return errors.New("translation.max_attempts must be positive")
	}
	if c.Translation.RateLimitPerMin < 0 {
		return errors.New("translation.rate_limit_per_min must be >= 0")
	}
	return nil
}

func (c *Config) validateClips() error {
	if c.Clips.Workers <= 0 {
		return errors.New("clips.workers must be positive")
	}
	if strings.ContainsAny(c.Clips.Extension, `/\ `) {
		return fmt.Errorf("clips.extension %q must be a bare extension", c.Clips.Extension)
	}
	return nil
}
