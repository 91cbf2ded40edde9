package services_test

import (
	"errors"
	"strings"
	"testing"

	"clipdeck/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "clips", "slice", "ffmpeg failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"clips", "slice", "ffmpeg failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, " ", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestOutcomeMapping(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "align", "match", "divergent", nil)
	if got := services.Outcome(validationErr); got != services.OutcomeInvalidInput {
		t.Fatalf("expected invalid input for validation error, got %s", got)
	}

	toolErr := services.Wrap(services.ErrExternalTool, "translate", "argos", "exit 1", errors.New("io"))
	if got := services.Outcome(toolErr); got != services.OutcomeToolFailure {
		t.Fatalf("expected tool failure, got %s", got)
	}

	if got := services.Outcome(errors.New("other")); got != services.OutcomeFailed {
		t.Fatalf("expected failed for unmarked error, got %s", got)
	}
}
