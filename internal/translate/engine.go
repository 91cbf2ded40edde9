package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Engine translates single sentences between two languages.
type Engine interface {
	// Name identifies the engine in logs and cache keys.
	Name() string
	// Setup prepares the language pair (downloading models if needed).
	Setup(ctx context.Context, from, to string) error
	// Translate returns the translation of text.
	Translate(ctx context.Context, text, from, to string) (string, error)
	// Close releases engine resources.
	Close() error
}

// Error reports a sentence that could not be translated.
type Error struct {
	Index    int
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("translate sentence %d: failed after %d attempt(s): %v", e.Index, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrEmptyTranslation is returned when an engine produces no text.
var ErrEmptyTranslation = errors.New("engine returned an empty translation")

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsRetriable reports whether a failed attempt may succeed if repeated.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var perm *permanentError
	return !errors.As(err, &perm)
}

func cleanOutput(raw string) (string, error) {
	out := strings.TrimSpace(raw)
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}
