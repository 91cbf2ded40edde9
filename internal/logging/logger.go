package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"clipdeck/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	Development bool
	// StageOverrides maps a stage name to a minimum level that replaces Level
	// for loggers obtained through ForStage.
	StageOverrides map[string]string
}

// Logger bundles the root slog logger with the per-stage level overrides it
// was built with.
type Logger struct {
	*slog.Logger
	overrides map[string]slog.Level
}

// New constructs a logger using the provided options. Output defaults to
// stderr so stdout stays reserved for command output.
func New(opts Options) (*Logger, error) {
	level := parseLevel(opts.Level)
	overrides := make(map[string]slog.Level, len(opts.StageOverrides))
	floor := level
	for stage, value := range opts.StageOverrides {
		stage = strings.TrimSpace(stage)
		if stage == "" {
			continue
		}
		lvl := parseLevel(value)
		overrides[stage] = lvl
		if lvl < floor {
			floor = lvl
		}
	}
	// The shared handler runs at the most verbose level any stage needs; the
	// root logger is then capped back to the configured level.
	levelVar := new(slog.LevelVar)
	levelVar.Set(floor)

	outputWriter, err := openWriters(defaultSlice(opts.OutputPaths, []string{"stderr"}))
	if err != nil {
		return nil, err
	}

	addSource := opts.Development || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(outputWriter, levelVar, addSource)
	case "console":
		handler = newPrettyHandler(outputWriter, levelVar, addSource)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return &Logger{
		Logger:    slog.New(withFloor(handler, level)),
		overrides: overrides,
	}, nil
}

// NewFromConfig creates a logger using application config defaults.
func NewFromConfig(cfg *config.Config) (*Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console"})
	}
	return New(Options{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		StageOverrides: cfg.Logging.StageOverrides,
	})
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return &Logger{Logger: NewNop()}
}

// ForStage returns a logger stamped with the stage name, honouring any level
// override configured for that stage.
func (l *Logger) ForStage(stage string) *slog.Logger {
	if l == nil || l.Logger == nil {
		return NewNop()
	}
	logger := l.Logger
	if lvl, ok := l.overrides[stage]; ok {
		logger = slog.New(withFloor(logger.Handler(), lvl))
	}
	return logger.With(String(FieldStage, stage))
}

// ParseLevel converts a textual level into a slog level; unknown values map to info.
func ParseLevel(level string) slog.Level {
	return parseLevel(level)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}

func defaultSlice(value []string, fallback []string) []string {
	if len(value) == 0 {
		cp := make([]string, len(fallback))
		copy(cp, fallback)
		return cp
	}
	cp := make([]string, len(value))
	copy(cp, value)
	return cp
}

func openWriters(outputPaths []string) (io.Writer, error) {
	seen := map[string]struct{}{}
	var writers []io.Writer

	for _, path := range outputPaths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := ensureLogDir(trimmed); err != nil {
				return nil, err
			}
			file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", trimmed, err)
			}
			writers = append(writers, file)
		}
	}

	if len(writers) == 0 {
		return os.Stderr, nil
	}
	if len(writers) == 1 {
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
