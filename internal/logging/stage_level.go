package logging

import (
	"context"
	"log/slog"
)

// stageLevelHandler drops records below its floor before they reach the shared
// handler. The shared handler runs at the most verbose level any stage
// override asks for, so each logger carries its own floor.
type stageLevelHandler struct {
	inner slog.Handler
	floor slog.Level
}

// withFloor caps inner at floor. An existing floor is replaced rather than
// stacked, so a stage override can also lower the root level.
func withFloor(inner slog.Handler, floor slog.Level) slog.Handler {
	if inner == nil {
		return NoopHandler{}
	}
	if capped, ok := inner.(*stageLevelHandler); ok {
		inner = capped.inner
	}
	return &stageLevelHandler{inner: inner, floor: floor}
}

func (h *stageLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.floor && h.inner.Enabled(ctx, level)
}

func (h *stageLevelHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.floor {
		return nil
	}
	return h.inner.Handle(ctx, record)
}

func (h *stageLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stageLevelHandler{inner: h.inner.WithAttrs(attrs), floor: h.floor}
}

func (h *stageLevelHandler) WithGroup(name string) slog.Handler {
	return &stageLevelHandler{inner: h.inner.WithGroup(name), floor: h.floor}
}
