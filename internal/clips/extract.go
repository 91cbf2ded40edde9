package clips

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"clipdeck/internal/logging"
)

// ExtractionError records why a single clip could not be produced.
type ExtractionError struct {
	Index    int
	FileName string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("clip %d (%s): %v", e.Index, e.FileName, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Result is the outcome for one spec. FileName is empty when Err is set.
type Result struct {
	Spec     Spec
	FileName string
	Err      error
}

// OK reports whether the clip was written.
func (r Result) OK() bool { return r.Err == nil }

// Extractor runs a Slicer over clip specs with bounded parallelism.
type Extractor struct {
	slicer  Slicer
	workers int
	logger  *slog.Logger
}

// NewExtractor returns an extractor with at most workers concurrent slices.
func NewExtractor(slicer Slicer, workers int, logger *slog.Logger) *Extractor {
	if workers <= 0 {
		workers = 1
	}
	return &Extractor{
		slicer:  slicer,
		workers: workers,
		logger:  logging.NewComponentLogger(logger, "clips"),
	}
}

// Extract cuts every planned clip from source into outDir, creating outDir if needed.
// The returned slice has one entry per clip in plan order. The error is only
// non-nil when outDir cannot be created; per-clip failures are reported in
// the results.
func (e *Extractor) Extract(ctx context.Context, source, outDir string, specs []Spec) ([]Result, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create clip directory %q: %w", outDir, err)
	}
	logger := logging.WithContext(ctx, e.logger)
	started := time.Now()

	results := make([]Result, len(specs))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, spec := range specs {
		g.Go(func() error {
			results[i] = e.extractOne(ctx, logger, source, outDir, spec)
			return nil
		})
	}
	_ = g.Wait()

	failed := len(Failed(results))
	logger.Info("clip extraction finished",
		logging.Int("clips", len(specs)-failed),
		logging.Int("clips_failed", failed),
		logging.Duration("elapsed", time.Since(started)),
	)
	return results, nil
}

func (e *Extractor) extractOne(ctx context.Context, logger *slog.Logger, source, outDir string, spec Spec) Result {
	result := Result{Spec: spec}
	if err := ctx.Err(); err != nil {
		result.Err = &ExtractionError{Index: spec.Index, FileName: spec.OutputFileName, Err: err}
		return result
	}
	dest := filepath.Join(outDir, spec.OutputFileName)
	if err := e.slicer.Slice(ctx, source, spec.StartLabel, spec.EndLabel, dest); err != nil {
		result.Err = &ExtractionError{Index: spec.Index, FileName: spec.OutputFileName, Err: err}
		logging.WarnWithContext(logger, "clip extraction failed", "clip_failed",
			logging.Int("index", spec.Index),
			logging.String("clip", spec.OutputFileName),
			logging.String("start", spec.StartLabel),
			logging.String("end", spec.EndLabel),
			logging.Error(err),
			logging.String(logging.FieldImpact, "card is written without audio"),
			logging.String(logging.FieldErrorHint, "re-run after checking the source media with ffprobe"),
		)
		return result
	}
	logger.Debug("clip written",
		logging.Int("index", spec.Index),
		logging.String("clip", spec.OutputFileName),
	)
	result.FileName = spec.OutputFileName
	return result
}

// Failed returns the indexes of results that carry an error.
func Failed(results []Result) []int {
	var idx []int
	for _, r := range results {
		if r.Err != nil {
			idx = append(idx, r.Spec.Index)
		}
	}
	return idx
}

// FileNames returns the written file name for every result, using the empty
// string for failed clips.
func FileNames(results []Result) []string {
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.FileName
	}
	return names
}
