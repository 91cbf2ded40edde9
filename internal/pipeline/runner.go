package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"clipdeck/internal/align"
	"clipdeck/internal/cards"
	"clipdeck/internal/clips"
	"clipdeck/internal/config"
	"clipdeck/internal/fetch"
	"clipdeck/internal/logging"
	"clipdeck/internal/media/ffprobe"
	"clipdeck/internal/sentences"
	"clipdeck/internal/services"
	"clipdeck/internal/store"
	"clipdeck/internal/transcribe"
	"clipdeck/internal/transcript"
	"clipdeck/internal/translate"
)

// ErrLocked is returned when another run holds the clip directory lock.
var ErrLocked = errors.New("clip directory is locked by another run")

// Resolver turns a run source into a local file.
type Resolver interface {
	Resolve(ctx context.Context, source string) (*fetch.Source, error)
}

// Prober validates that a file carries audio.
type Prober interface {
	RequireAudio(ctx context.Context, path string) (ffprobe.Result, error)
}

// History records finished runs.
type History interface {
	RecordRun(ctx context.Context, run store.Run) error
}

// Dependencies are the collaborators a Runner drives. Store may be nil.
type Dependencies struct {
	Resolver    Resolver
	Prober      Prober
	Transcriber transcribe.Transcriber
	Splitter    sentences.Splitter
	Translator  translate.Engine
	Slicer      clips.Slicer
	History     History
}

// Request holds per-run inputs that override configuration.
type Request struct {
	// Source is a local media path or an http(s) URL.
	Source string
	// TranscriptPath loads an existing transcript instead of transcribing.
	TranscriptPath string
	// SaveTranscriptPath writes the fresh transcript as JSON.
	SaveTranscriptPath string
	// CardsPath overrides {cards_dir}/{base}.txt.
	CardsPath string
	// Tags overrides cards.tags when non-empty.
	Tags string
}

// Runner executes pipeline runs.
type Runner struct {
	cfg    *config.Config
	deps   Dependencies
	logger *logging.Logger
	now    func() time.Time
}

// New returns a runner for cfg.
func New(cfg *config.Config, deps Dependencies, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{cfg: cfg, deps: deps, logger: logger, now: time.Now}
}

// NewFromConfig wires the production collaborators. history may be nil; when
// it is a *store.Store it also backs the translation cache.
func NewFromConfig(cfg *config.Config, history *store.Store, logger *logging.Logger) (*Runner, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	splitter, err := sentences.New(cfg.Sentences, cfg.Languages.Input)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, StageSplit, "build splitter", "", err)
	}
	var cache translate.Cache
	if history != nil {
		cache = history
	}
	engine, err := translate.New(cfg.Translation, cache, logger.ForStage(StageTranslate))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, StageTranslate, "build engine", "", err)
	}
	deps := Dependencies{
		Resolver:    fetch.New(cfg.Download.Binary, cfg.Download.Format),
		Prober:      ffprobe.New(cfg.Clips.FFprobeBinary),
		Transcriber: transcribe.New(cfg.Transcription, cfg.Clips.FFmpegBinary),
		Splitter:    splitter,
		Translator:  engine,
		Slicer:      clips.NewFFmpegSlicer(cfg.Clips.FFmpegBinary),
	}
	if history != nil {
		deps.History = history
	}
	return New(cfg, deps, logger), nil
}

// Close releases the translation engine.
func (r *Runner) Close() error {
	if r.deps.Translator == nil {
		return nil
	}
	return r.deps.Translator.Close()
}

// Run processes req and returns its report. The report is non-nil even when
// an error is returned.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Source:    strings.TrimSpace(req.Source),
		ClipDir:   r.cfg.Paths.AudioSaveDir,
		StartedAt: r.now(),
	}
	ctx = services.WithRunID(ctx, report.RunID)
	ctx = services.WithSource(ctx, report.Source)
	logger := logging.WithContext(ctx, r.logger.Logger)

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("clip_dir", report.ClipDir),
		logging.String("input_language", r.cfg.Languages.Input),
		logging.String("output_language", r.cfg.Languages.Output),
	)

	err := r.execute(ctx, req, report)
	report.FinishedAt = r.now()
	report.Err = err
	switch {
	case err != nil:
		report.Outcome = services.Outcome(err)
	case report.Warnings():
		report.Outcome = services.OutcomePartial
	default:
		report.Outcome = services.OutcomeSuccess
	}
	r.recordHistory(ctx, logger, report)

	if err != nil {
		logging.ErrorWithContext(logger, "run failed", "run_failed",
			logging.String("outcome", report.Outcome),
			logging.Duration("elapsed", report.Elapsed()),
			logging.Error(err),
		)
		return report, err
	}
	logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("outcome", report.Outcome),
		logging.String("cards_file", report.CardsPath),
		logging.Int("sentences", report.Sentences),
		logging.Int("clips", report.ClipsWritten),
		logging.Int("clips_failed", len(report.ClipFailures)),
		logging.Duration("elapsed", report.Elapsed()),
	)
	return report, nil
}

func (r *Runner) execute(ctx context.Context, req Request, report *Report) error {
	var src *fetch.Source
	if err := r.stage(ctx, report, StageFetch, func(ctx context.Context, _ *slog.Logger) error {
		var err error
		src, err = r.deps.Resolver.Resolve(ctx, report.Source)
		if err != nil {
			marker := services.ErrExternalTool
			if errors.Is(err, fetch.ErrSourceNotFound) {
				marker = services.ErrNotFound
			}
			return services.Wrap(marker, StageFetch, "resolve source", "", err)
		}
		return nil
	}); err != nil {
		return err
	}
	defer func() {
		if err := src.Release(); err != nil {
			r.logger.Warn("failed to remove downloaded source", logging.Error(err))
		}
	}()
	report.MediaPath = src.Path
	report.BaseName = clips.BaseName(src.Path)

	if err := r.stage(ctx, report, StageProbe, func(ctx context.Context, _ *slog.Logger) error {
		if _, err := r.deps.Prober.RequireAudio(ctx, src.Path); err != nil {
			marker := services.ErrExternalTool
			if errors.Is(err, ffprobe.ErrNoAudio) {
				marker = services.ErrValidation
			}
			return services.Wrap(marker, StageProbe, "inspect source", "", err)
		}
		return nil
	}); err != nil {
		return err
	}

	unlock, err := r.lockClipDir()
	if err != nil {
		return err
	}
	defer unlock()

	var doc transcript.Transcript
	if err := r.stage(ctx, report, StageTranscribe, func(ctx context.Context, logger *slog.Logger) error {
		var err error
		doc, err = r.loadOrTranscribe(ctx, logger, req, src.Path)
		return err
	}); err != nil {
		return err
	}

	var words []transcript.WordToken
	if err := r.stage(ctx, report, StageFlatten, func(context.Context, *slog.Logger) error {
		var err error
		words, err = transcript.Flatten(doc)
		if err != nil {
			return services.Wrap(services.ErrValidation, StageFlatten, "flatten words", "", err)
		}
		report.Words = len(words)
		return nil
	}); err != nil {
		return err
	}

	var texts []string
	if err := r.stage(ctx, report, StageSplit, func(ctx context.Context, _ *slog.Logger) error {
		var err error
		texts, err = r.deps.Splitter.Split(ctx, transcript.Reconstruct(words))
		if err != nil {
			return services.Wrap(services.ErrExternalTool, StageSplit, "split sentences", "", err)
		}
		return nil
	}); err != nil {
		return err
	}

	var aligned []align.Sentence
	if err := r.stage(ctx, report, StageAlign, func(_ context.Context, logger *slog.Logger) error {
		var err error
		aligned, err = r.alignSentences(logger, words, texts, report)
		return err
	}); err != nil {
		return err
	}

	var translations []string
	if err := r.stage(ctx, report, StageTranslate, func(ctx context.Context, logger *slog.Logger) error {
		var err error
		translations, err = r.translate(ctx, logger, aligned)
		return err
	}); err != nil {
		return err
	}
	report.TranslationEngine = r.deps.Translator.Name()

	var files []string
	if err := r.stage(ctx, report, StageClips, func(ctx context.Context, logger *slog.Logger) error {
		specs := clips.Plan(aligned, report.BaseName, r.cfg.Clips.Extension)
		results, err := clips.NewExtractor(r.deps.Slicer, r.cfg.Clips.Workers, logger).Extract(ctx, src.Path, report.ClipDir, specs)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, StageClips, "prepare clip directory", "", err)
		}
		for _, res := range results {
			if res.Err != nil {
				report.ClipFailures = append(report.ClipFailures, ClipFailure{
					Index:    res.Spec.Index,
					FileName: res.Spec.OutputFileName,
					Error:    res.Err.Error(),
				})
				continue
			}
			report.ClipsWritten++
		}
		files = clips.FileNames(results)
		return nil
	}); err != nil {
		return err
	}

	return r.stage(ctx, report, StageCards, func(_ context.Context, logger *slog.Logger) error {
		return r.writeCards(logger, req, report, aligned, translations, files)
	})
}

// stage runs fn with a stage-scoped context and logger and records its timing.
func (r *Runner) stage(ctx context.Context, report *Report, name string, fn func(context.Context, *slog.Logger) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stageCtx := services.WithStage(ctx, name)
	logger := logging.WithContext(stageCtx, r.logger.ForStage(name))
	logger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))

	started := r.now()
	err := fn(stageCtx, logger)
	elapsed := r.now().Sub(started)
	report.Stages = append(report.Stages, StageTiming{Name: name, Elapsed: elapsed})
	if err != nil {
		return err
	}
	logger.Debug("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", elapsed),
	)
	return nil
}

func (r *Runner) lockClipDir() (func(), error) {
	path := r.cfg.LockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, StageClips, "create clip directory", "", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, StageClips, "acquire lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, StageClips, "acquire lock", path, ErrLocked)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release clip directory lock", logging.Error(err))
		}
	}, nil
}

func (r *Runner) loadOrTranscribe(ctx context.Context, logger *slog.Logger, req Request, media string) (transcript.Transcript, error) {
	if path := strings.TrimSpace(req.TranscriptPath); path != "" {
		doc, err := transcript.Load(path)
		if err != nil {
			marker := services.ErrValidation
			if errors.Is(err, os.ErrNotExist) {
				marker = services.ErrNotFound
			}
			return transcript.Transcript{}, services.Wrap(marker, StageTranscribe, "load transcript", path, err)
		}
		logger.Info("transcript loaded",
			logging.String("transcript_file", path),
			logging.Int("words", doc.WordCount()),
		)
		return doc, nil
	}

	started := r.now()
	doc, err := r.deps.Transcriber.Transcribe(ctx, media, r.cfg.Languages.Input)
	if err != nil {
		return transcript.Transcript{}, services.Wrap(services.ErrExternalTool, StageTranscribe, "run recognizer", "", err)
	}
	logger.Info("transcription finished",
		logging.String("engine", r.cfg.Transcription.Engine),
		logging.String("model", r.cfg.Transcription.Model),
		logging.Int("words", doc.WordCount()),
		logging.Duration("elapsed", r.now().Sub(started)),
	)
	if path := strings.TrimSpace(req.SaveTranscriptPath); path != "" {
		if err := transcript.Save(path, doc); err != nil {
			return transcript.Transcript{}, services.Wrap(services.ErrConfiguration, StageTranscribe, "save transcript", path, err)
		}
		logger.Info("transcript saved", logging.String("transcript_file", path))
	}
	return doc, nil
}

func (r *Runner) alignSentences(logger *slog.Logger, words []transcript.WordToken, texts []string, report *Report) ([]align.Sentence, error) {
	aligned, err := align.Align(words, texts, r.cfg.Alignment.BufferSeconds)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, StageAlign, "align sentences", "", err)
	}
	policy, err := align.ParsePolicy(r.cfg.Alignment.OverlapPolicy)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, StageAlign, "overlap policy", "", err)
	}
	resolved, overlaps, err := align.ResolveOverlaps(aligned, policy)
	report.Overlaps = overlaps
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, StageAlign, "resolve overlaps", "", err)
	}
	report.Sentences = len(resolved)
	if overlaps > 0 {
		logger.Info("overlapping clip intervals",
			logging.Args(logging.DecisionAttrs("overlap_policy", string(policy), fmt.Sprintf("%d adjacent pairs overlap", overlaps))...)...,
		)
	}
	logger.Info("sentences aligned",
		logging.Int("sentences", len(resolved)),
		logging.Int("words", len(words)),
		logging.Float64("buffer_seconds", r.cfg.Alignment.BufferSeconds),
	)
	return resolved, nil
}

func (r *Runner) translate(ctx context.Context, logger *slog.Logger, aligned []align.Sentence) ([]string, error) {
	from, to := r.cfg.Languages.Input, r.cfg.Languages.Output
	if err := r.deps.Translator.Setup(ctx, from, to); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, StageTranslate, "setup engine", from+"->"+to, err)
	}
	texts := make([]string, len(aligned))
	for i, s := range aligned {
		texts[i] = s.Text
	}
	translations, err := translate.TranslateAll(ctx, r.deps.Translator, texts, from, to, translate.OptionsFromConfig(r.cfg.Translation, logger))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, StageTranslate, "translate sentences", "", err)
	}
	return translations, nil
}

func (r *Runner) writeCards(logger *slog.Logger, req Request, report *Report, aligned []align.Sentence, translations, files []string) error {
	path := strings.TrimSpace(req.CardsPath)
	if path == "" {
		path = filepath.Join(r.cfg.Paths.CardsDir, report.BaseName+".txt")
	}
	tags := r.cfg.Cards.Tags
	if strings.TrimSpace(req.Tags) != "" {
		tags = req.Tags
	}
	records, err := cards.Export(path, tags, aligned, translations, files)
	if err != nil {
		var mismatch *cards.LengthMismatchError
		if errors.As(err, &mismatch) {
			return services.Wrap(services.ErrValidation, StageCards, "assemble records", "", err)
		}
		return services.Wrap(services.ErrConfiguration, StageCards, "write cards", path, err)
	}
	report.CardsPath = path
	report.UnsafeRecords = cards.UnsafeRecords(records)
	if len(report.UnsafeRecords) > 0 {
		logging.WarnWithContext(logger, "card text contains field separators", "unsafe_card_text",
			logging.Any("records", report.UnsafeRecords),
			logging.String(logging.FieldImpact, "affected notes import with shifted fields"),
			logging.String(logging.FieldErrorHint, "edit the listed lines before importing"),
		)
	}
	logger.Info("cards written",
		logging.String("cards_file", path),
		logging.Int("cards", len(records)),
	)
	return nil
}

func (r *Runner) recordHistory(ctx context.Context, logger *slog.Logger, report *Report) {
	if r.deps.History == nil {
		return
	}
	run := store.Run{
		ID:            report.RunID,
		Source:        report.Source,
		BaseName:      report.BaseName,
		CardsPath:     report.CardsPath,
		Outcome:       report.Outcome,
		Sentences:     report.Sentences,
		ClipsFailed:   len(report.ClipFailures),
		Overlaps:      report.Overlaps,
		UnsafeRecords: len(report.UnsafeRecords),
		StartedAt:     report.StartedAt,
		FinishedAt:    report.FinishedAt,
	}
	if report.Err != nil {
		run.ErrorMessage = report.Err.Error()
	}
	// Record even when ctx was cancelled so interrupted runs show up in history.
	if err := r.deps.History.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		logging.WarnWithContext(logger, "failed to record run history", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run is missing from clipdeck history"),
		)
	}
}
