package config

const (
	defaultConfigPath            = "~/.config/clipdeck/config.toml"
	defaultAudioSaveDir          = "./out"
	defaultCardsDir              = "."
	defaultStateDir              = "~/.local/share/clipdeck"
	defaultInputLanguage         = "es"
	defaultOutputLanguage        = "en"
	defaultBufferSeconds         = 0.35
	defaultOverlapPolicy         = OverlapAllow
	defaultTranscriptionEngine   = EngineWhisper
	defaultWhisperModel          = "small"
	defaultWhisperBinary         = "whisper"
	defaultUVXBinary             = "uvx"
	defaultVADMethod             = "silero"
	defaultSplitter              = SplitterPunkt
	defaultTranslationEngine     = TranslatorArgos
	defaultTranslationWorkers    = 4
	defaultTranslationRateLimit  = 0
	defaultTranslationAttempts   = 3
	defaultArgosBinary           = "argos-translate"
	defaultArgosPMBinary         = "argospm"
	defaultOpenAIBaseURL         = "https://api.openai.com/v1"
	defaultOpenAIModel           = "gpt-4o-mini"
	defaultOpenAITimeoutSeconds  = 60
	defaultClipWorkers           = 4
	defaultClipExtension         = "mp4"
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultDownloadBinary        = "yt-dlp"
	defaultDownloadFormat        = "bestaudio"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultTranslationCacheState = true
)

// Overlap policies for adjacent buffered sentences.
const (
	OverlapAllow  = "allow"
	OverlapClamp  = "clamp"
	OverlapReject = "reject"
)

// Transcription engines.
const (
	EngineWhisper  = "whisper"
	EngineWhisperX = "whisperx"
)

// Sentence splitters.
const (
	SplitterPunkt   = "punkt"
	SplitterRules   = "rules"
	SplitterCommand = "command"
)

// Translation engines.
const (
	TranslatorArgos  = "argos"
	TranslatorOpenAI = "openai"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AudioSaveDir: defaultAudioSaveDir,
			CardsDir:     defaultCardsDir,
			StateDir:     defaultStateDir,
		},
		Languages: Languages{
			Input:  defaultInputLanguage,
			Output: defaultOutputLanguage,
		},
		Alignment: Alignment{
			BufferSeconds: defaultBufferSeconds,
			OverlapPolicy: defaultOverlapPolicy,
		},
		Transcription: Transcription{
			Engine:        defaultTranscriptionEngine,
			Model:         defaultWhisperModel,
			VADMethod:     defaultVADMethod,
			WhisperBinary: defaultWhisperBinary,
			UVXBinary:     defaultUVXBinary,
		},
		Sentences: Sentences{
			Splitter: defaultSplitter,
		},
		Translation: Translation{
			Engine:          defaultTranslationEngine,
			Workers:         defaultTranslationWorkers,
			RateLimitPerMin: defaultTranslationRateLimit,
			MaxAttempts:     defaultTranslationAttempts,
			CacheEnabled:    defaultTranslationCacheState,
			ArgosBinary:     defaultArgosBinary,
			ArgosPMBinary:   defaultArgosPMBinary,
			BaseURL:         defaultOpenAIBaseURL,
			Model:           defaultOpenAIModel,
			TimeoutSeconds:  defaultOpenAITimeoutSeconds,
		},
		Clips: Clips{
			Workers:       defaultClipWorkers,
			Extension:     defaultClipExtension,
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Download: Download{
			Binary: defaultDownloadBinary,
			Format: defaultDownloadFormat,
		},
		Logging: Logging{
			Format:         defaultLogFormat,
			Level:          defaultLogLevel,
			StageOverrides: map[string]string{},
		},
	}
}
