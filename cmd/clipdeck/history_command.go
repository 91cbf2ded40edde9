package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipdeck/internal/store"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List past runs or show one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if len(args) == 1 {
				run, err := db.GetRun(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found", args[0])
				}
				if asJSON {
					return writeRunsJSON(cmd.OutOrStdout(), []store.Run{*run})
				}
				writeLines(cmd.OutOrStdout(), runDetailLines(*run, shouldColorize(cmd.OutOrStdout())))
				return nil
			}

			if limit < 0 {
				return errors.New("--limit must be >= 0")
			}
			runs, err := db.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeRunsJSON(cmd.OutOrStdout(), runs)
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Source", "Outcome", "Sentences", "Failed clips", "Duration"},
				historyRows(runs),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per run instead of a table")
	return cmd
}

const historyStampLayout = "2006-01-02 15:04"

// runJSON is the --json view of a recorded run. Times are RFC 3339 in UTC
// and the duration is in seconds so scripts can sum it.
type runJSON struct {
	ID              string  `json:"id"`
	Source          string  `json:"source"`
	BaseName        string  `json:"base_name,omitempty"`
	CardsPath       string  `json:"cards_path,omitempty"`
	Outcome         string  `json:"outcome"`
	Error           string  `json:"error,omitempty"`
	Sentences       int     `json:"sentences"`
	ClipsFailed     int     `json:"clips_failed"`
	Overlaps        int     `json:"overlaps"`
	UnsafeRecords   int     `json:"unsafe_records"`
	StartedAt       string  `json:"started_at"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// writeRunsJSON prints one JSON object per run, one per line.
func writeRunsJSON(w io.Writer, runs []store.Run) error {
	enc := json.NewEncoder(w)
	for _, run := range runs {
		if err := enc.Encode(runJSON{
			ID:              run.ID,
			Source:          run.Source,
			BaseName:        run.BaseName,
			CardsPath:       run.CardsPath,
			Outcome:         run.Outcome,
			Error:           run.ErrorMessage,
			Sentences:       run.Sentences,
			ClipsFailed:     run.ClipsFailed,
			Overlaps:        run.Overlaps,
			UnsafeRecords:   run.UnsafeRecords,
			StartedAt:       run.StartedAt.UTC().Format(time.RFC3339),
			DurationSeconds: run.Duration().Seconds(),
		}); err != nil {
			return err
		}
	}
	return nil
}

func historyRows(runs []store.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format(historyStampLayout),
			sourceLabel(run),
			run.Outcome,
			strconv.Itoa(run.Sentences),
			strconv.Itoa(run.ClipsFailed),
			formatElapsed(run.Duration()),
		})
	}
	return rows
}

func runDetailLines(run store.Run, colorize bool) []string {
	lines := renderSectionHeader("Run "+run.ID, colorize)
	lines = append(lines,
		renderStatusLine("Outcome", outcomeKind(run.Outcome), run.Outcome, colorize),
		renderValueLine("Source", run.Source),
		renderValueLine("Started", run.StartedAt.Local().Format(historyStampLayout)),
		renderValueLine("Duration", formatElapsed(run.Duration())),
		renderValueLine("Sentences", strconv.Itoa(run.Sentences)),
		renderValueLine("Failed clips", strconv.Itoa(run.ClipsFailed)),
		renderValueLine("Overlaps", strconv.Itoa(run.Overlaps)),
		renderValueLine("Unsafe cards", strconv.Itoa(run.UnsafeRecords)),
	)
	if run.CardsPath != "" {
		lines = append(lines, renderValueLine("Cards file", run.CardsPath))
	}
	if run.ErrorMessage != "" {
		lines = append(lines, renderStatusLine("Error", statusError, run.ErrorMessage, colorize))
	}
	return lines
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sourceLabel(run store.Run) string {
	if run.BaseName != "" {
		return run.BaseName
	}
	if run.Source == "" {
		return "-"
	}
	return filepath.Base(run.Source)
}
