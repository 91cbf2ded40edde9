package translate

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"clipdeck/internal/logging"
)

const (
	defaultBaseDelay = time.Second
	defaultMaxDelay  = 30 * time.Second
)

// Options tunes TranslateAll.
type Options struct {
	Workers         int
	RateLimitPerMin int
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	Logger          *slog.Logger
}

func (o Options) normalized() Options {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 1
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = defaultBaseDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = defaultMaxDelay
	}
	if o.MaxDelay < o.BaseDelay {
		o.MaxDelay = o.BaseDelay
	}
	return o
}

// TranslateAll translates texts with engine and returns the results in input
// order. The first sentence to exhaust its attempts cancels the batch and is
// returned as an *Error.
func TranslateAll(ctx context.Context, engine Engine, texts []string, from, to string, opts Options) ([]string, error) {
	opts = opts.normalized()
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "translate"))

	limit := rate.Inf
	if opts.RateLimitPerMin > 0 {
		limit = rate.Limit(float64(opts.RateLimitPerMin) / 60.0)
	}
	limiter := rate.NewLimiter(limit, 1)

	out := make([]string, len(texts))
	started := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, text := range texts {
		g.Go(func() error {
			translated, err := translateWithRetry(gctx, engine, limiter, logger, i, text, from, to, opts)
			if err != nil {
				return err
			}
			out[i] = translated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("translation finished",
		logging.String("engine", engine.Name()),
		logging.Int("sentences", len(texts)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return out, nil
}

func translateWithRetry(ctx context.Context, engine Engine, limiter *rate.Limiter, logger *slog.Logger, index int, text, from, to string, opts Options) (string, error) {
	var lastErr error
	attempt := 0
	for attempt < opts.MaxAttempts {
		attempt++
		if err := limiter.Wait(ctx); err != nil {
			return "", &Error{Index: index, Attempts: attempt - 1, Err: err}
		}
		translated, err := engine.Translate(ctx, text, from, to)
		if err == nil {
			translated, err = cleanOutput(translated)
		}
		if err == nil {
			return translated, nil
		}
		lastErr = err
		if !IsRetriable(err) || attempt >= opts.MaxAttempts {
			break
		}

		delay := backoff(opts.BaseDelay, opts.MaxDelay, attempt)
		logger.Debug("translation attempt failed, retrying",
			logging.Int("index", index),
			logging.Int("attempt", attempt),
			logging.Duration("backoff", delay),
			logging.Error(err),
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", &Error{Index: index, Attempts: attempt, Err: ctx.Err()}
		case <-timer.C:
		}
	}
	logging.ErrorWithContext(logger, "translation failed", "translation_failed",
		logging.Int("index", index),
		logging.Int("attempts", attempt),
		logging.Error(lastErr),
		logging.String(logging.FieldErrorHint, "check the translation engine installation or lower rate_limit_per_min"),
	)
	return "", &Error{Index: index, Attempts: attempt, Err: lastErr}
}

// backoff doubles base for each completed attempt, capped at maxDelay.
func backoff(base, maxDelay time.Duration, attempt int) time.Duration {
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}
