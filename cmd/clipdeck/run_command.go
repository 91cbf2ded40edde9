package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipdeck/internal/config"
	"clipdeck/internal/fetch"
	"clipdeck/internal/logging"
	"clipdeck/internal/pipeline"
	"clipdeck/internal/preflight"
)

type runOptions struct {
	inputLanguage  string
	outputLanguage string
	audioSaveDir   string
	transcriptPath string
	saveTranscript string
	buffer         float64
	overlapPolicy  string
	tags           string
	cardsFile      string
	skipChecks     bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <file-or-url>",
		Short: "Split a recording into sentence clips and write a flashcard import file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyRunOverrides(*base, cmd, opts)
			if err != nil {
				return err
			}

			source := strings.TrimSpace(args[0])
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if !opts.skipChecks {
				results := runPreflight(cmd, cfg, source, opts.transcriptPath != "")
				if failed := preflight.Failed(results); len(failed) > 0 {
					writeLines(out, renderSectionHeader("Preflight", colorize))
					writeLines(out, preflightLines(failed, colorize))
					return fmt.Errorf("preflight failed: %d check(s) did not pass", len(failed))
				}
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			history, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer history.Close()

			runner, err := pipeline.NewFromConfig(cfg, history, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := runner.Close(); err != nil {
					logger.Warn("failed to close translation engine", logging.Error(err))
				}
			}()

			report, runErr := runner.Run(cmd.Context(), pipeline.Request{
				Source:             source,
				TranscriptPath:     opts.transcriptPath,
				SaveTranscriptPath: opts.saveTranscript,
				CardsPath:          opts.cardsFile,
				Tags:               opts.tags,
			})
			writeLines(out, reportLines(report, colorize))
			return runErr
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.inputLanguage, "input-language", "i", "", "Language spoken in the recording (overrides languages.input)")
	flags.StringVarP(&opts.outputLanguage, "output-language", "o", "", "Language to translate into (overrides languages.output)")
	flags.StringVarP(&opts.audioSaveDir, "audio-save-dir", "s", "", "Directory for sentence clips (overrides paths.audio_save_dir)")
	flags.StringVarP(&opts.transcriptPath, "json-transcribe-file", "j", "", "Use an existing transcript JSON instead of transcribing")
	flags.StringVarP(&opts.saveTranscript, "save-json-file", "w", "", "Write the fresh transcript JSON to this path")
	flags.Float64VarP(&opts.buffer, "audio-buffer", "b", -1, "Seconds of padding around each clip (overrides alignment.buffer_seconds)")
	flags.StringVar(&opts.overlapPolicy, "overlap-policy", "", "allow, clamp, or reject overlapping clips")
	flags.StringVar(&opts.tags, "tags", "", "Deck tags written to the cards header (overrides cards.tags)")
	flags.StringVar(&opts.cardsFile, "cards-file", "", "Cards output path (default {cards_dir}/{name}.txt)")
	flags.BoolVar(&opts.skipChecks, "skip-checks", false, "Skip the external tool and directory checks")
	return cmd
}

// applyRunOverrides copies cfg, applies the flags that were set, and
// re-validates the result.
func applyRunOverrides(cfg config.Config, cmd *cobra.Command, opts runOptions) (*config.Config, error) {
	if v := strings.TrimSpace(opts.inputLanguage); v != "" {
		cfg.Languages.Input = v
	}
	if v := strings.TrimSpace(opts.outputLanguage); v != "" {
		cfg.Languages.Output = v
	}
	if v := strings.TrimSpace(opts.audioSaveDir); v != "" {
		cfg.Paths.AudioSaveDir = v
	}
	if cmd.Flags().Changed("audio-buffer") {
		if opts.buffer < 0 {
			return nil, errors.New("--audio-buffer must be >= 0")
		}
		cfg.Alignment.BufferSeconds = opts.buffer
	}
	if v := strings.TrimSpace(opts.overlapPolicy); v != "" {
		cfg.Alignment.OverlapPolicy = v
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// runPreflight checks directories and external programs. Transcription
// programs are skipped when a transcript file is supplied.
func runPreflight(cmd *cobra.Command, cfg *config.Config, source string, haveTranscript bool) []preflight.Result {
	results := preflight.RunAll(cmd.Context(), cfg)
	for _, r := range preflight.SystemDeps(cfg, fetch.IsRemote(source)) {
		if haveTranscript && preflight.IsTranscriptionCheck(r.Name) {
			continue
		}
		results = append(results, r)
	}
	return results
}

func preflightLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		kind := statusOK
		if !r.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
	return lines
}
