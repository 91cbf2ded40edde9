package translate

import (
	"context"
	"log/slog"

	"clipdeck/internal/logging"
	"clipdeck/internal/store"
)

// Cache is the persistence used by CachedEngine.
type Cache interface {
	LookupTranslation(ctx context.Context, key store.TranslationKey) (string, bool, error)
	PutTranslation(ctx context.Context, key store.TranslationKey, translated string) error
}

// CachedEngine serves repeat sentences from a Cache. Cache errors are logged
// and never fail a translation.
type CachedEngine struct {
	inner  Engine
	cache  Cache
	logger *slog.Logger
}

// NewCachedEngine wraps inner with cache.
func NewCachedEngine(inner Engine, cache Cache, logger *slog.Logger) *CachedEngine {
	return &CachedEngine{inner: inner, cache: cache, logger: logging.NewComponentLogger(logger, "translate_cache")}
}

// Name implements Engine.
func (c *CachedEngine) Name() string { return c.inner.Name() }

// Setup implements Engine.
func (c *CachedEngine) Setup(ctx context.Context, from, to string) error {
	return c.inner.Setup(ctx, from, to)
}

// Translate implements Engine.
func (c *CachedEngine) Translate(ctx context.Context, text, from, to string) (string, error) {
	key := store.TranslationKey{Engine: c.inner.Name(), SourceLang: from, TargetLang: to, Text: text}
	if cached, ok, err := c.cache.LookupTranslation(ctx, key); err != nil {
		c.logger.Debug("translation cache lookup failed", logging.Error(err))
	} else if ok {
		return cached, nil
	}

	translated, err := c.inner.Translate(ctx, text, from, to)
	if err != nil {
		return "", err
	}
	cleaned, err := cleanOutput(translated)
	if err != nil {
		return "", err
	}
	if err := c.cache.PutTranslation(ctx, key, cleaned); err != nil {
		c.logger.Debug("translation cache store failed", logging.Error(err))
	}
	return cleaned, nil
}

// Close implements Engine.
func (c *CachedEngine) Close() error { return c.inner.Close() }
