package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clipdeck/internal/config"
	"clipdeck/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var remote bool
	var skipAPI bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories, external tools, and the translation endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			dirs := preflight.RunAll(cmd.Context(), cfg)
			tools := preflight.SystemDeps(cfg, remote)
			var api []preflight.Result
			if cfg.Translation.Engine == config.TranslatorOpenAI && !skipAPI {
				api = append(api, preflight.CheckTranslationAPI(cmd.Context(), cfg.Translation, cfg.Languages.Input, cfg.Languages.Output))
			}

			writeLines(out, renderSectionHeader("Configuration", colorize))
			if ctx.configPath != "" {
				writeLines(out, []string{renderValueLine("Config file", ctx.configPath)})
			}
			writeLines(out, []string{
				renderValueLine("Languages", cfg.Languages.Input+" -> "+cfg.Languages.Output),
				renderValueLine("Transcription", cfg.Transcription.Engine+" ("+cfg.Transcription.Model+")"),
				renderValueLine("Translation", cfg.Translation.Engine),
				renderValueLine("Translation cache", yesNo(cfg.Translation.CacheEnabled)),
			})
			fmt.Fprintln(out)
			writeLines(out, renderSectionHeader("Directories", colorize))
			writeLines(out, preflightLines(dirs, colorize))
			fmt.Fprintln(out)
			writeLines(out, renderSectionHeader("Dependencies", colorize))
			writeLines(out, dependencyLines(tools, colorize))
			if len(api) > 0 {
				fmt.Fprintln(out)
				writeLines(out, renderSectionHeader("Translation API", colorize))
				writeLines(out, preflightLines(api, colorize))
			}

			all := append(append(dirs, tools...), api...)
			if failed := preflight.Failed(all); len(failed) > 0 {
				names := make([]string, len(failed))
				for i, f := range failed {
					names[i] = f.Name
				}
				return fmt.Errorf("%d check(s) failed: %s", len(failed), strings.Join(names, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Require yt-dlp for URL sources")
	cmd.Flags().BoolVar(&skipAPI, "skip-api", false, "Skip the translation endpoint request")
	return cmd
}

// dependencyLines renders a summary line followed by one line per program.
func dependencyLines(results []preflight.Result, colorize bool) []string {
	missing := len(preflight.Failed(results))
	summaryKind := statusOK
	summary := fmt.Sprintf("%d of %d available", len(results)-missing, len(results))
	if missing > 0 {
		summaryKind = statusError
		summary = fmt.Sprintf("%d required missing", missing)
	}
	lines := []string{renderStatusLine("Summary", summaryKind, summary, colorize)}
	return append(lines, preflightLines(results, colorize)...)
}
