package translate

import (
	"fmt"
	"log/slog"

	"clipdeck/internal/config"
)

// New builds the configured engine, wrapped in a CachedEngine when cache is
// non-nil and caching is enabled.
func New(cfg config.Translation, cache Cache, logger *slog.Logger) (Engine, error) {
	var engine Engine
	switch cfg.Engine {
	case config.TranslatorArgos, "":
		engine = NewArgosEngine(cfg.ArgosBinary, cfg.ArgosPMBinary)
	case config.TranslatorOpenAI:
		engine = NewOpenAIEngine(OpenAIConfig{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			Model:          cfg.Model,
			TimeoutSeconds: cfg.TimeoutSeconds,
		})
	default:
		return nil, fmt.Errorf("unknown translation engine %q", cfg.Engine)
	}
	if cache != nil && cfg.CacheEnabled {
		engine = NewCachedEngine(engine, cache, logger)
	}
	return engine, nil
}

// OptionsFromConfig maps the translation settings onto batch options.
func OptionsFromConfig(cfg config.Translation, logger *slog.Logger) Options {
	return Options{
		Workers:         cfg.Workers,
		RateLimitPerMin: cfg.RateLimitPerMin,
		MaxAttempts:     cfg.MaxAttempts,
		Logger:          logger,
	}
}
