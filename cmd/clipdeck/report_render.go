package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"clipdeck/internal/pipeline"
	"clipdeck/internal/services"
)

// reportLines renders a run report as status lines followed by the stage
// timing table. Failed runs list the stages they reached.
func reportLines(report *pipeline.Report, colorize bool) []string {
	if report == nil {
		return nil
	}
	lines := renderSectionHeader("clipdeck run", colorize)
	lines = append(lines, renderStatusLine("Outcome", outcomeKind(report.Outcome), report.Outcome, colorize))
	lines = append(lines, renderValueLine("Run", report.RunID))
	lines = append(lines, renderValueLine("Source", report.Source))
	if report.CardsPath != "" {
		lines = append(lines, renderValueLine("Cards file", report.CardsPath))
	}
	if report.ClipDir != "" {
		lines = append(lines, renderValueLine("Clip directory", report.ClipDir))
	}
	if report.Sentences > 0 {
		lines = append(lines, renderValueLine("Sentences", fmt.Sprintf("%d (%d words)", report.Sentences, report.Words)))
	}
	if report.TranslationEngine != "" {
		lines = append(lines, renderValueLine("Translation", report.TranslationEngine))
	}
	if report.ClipsWritten > 0 || len(report.ClipFailures) > 0 {
		kind := statusOK
		if len(report.ClipFailures) > 0 {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine("Clips", kind,
			fmt.Sprintf("%d written, %d failed", report.ClipsWritten, len(report.ClipFailures)), colorize))
	}
	if report.Overlaps > 0 {
		lines = append(lines, renderStatusLine("Overlaps", statusInfo,
			fmt.Sprintf("%d adjacent clips overlap", report.Overlaps), colorize))
	}
	if len(report.UnsafeRecords) > 0 {
		lines = append(lines, renderStatusLine("Card text", statusWarn,
			"separators in cards "+joinCardNumbers(report.UnsafeRecords), colorize))
	}
	for _, failure := range report.ClipFailures {
		lines = append(lines, fmt.Sprintf("%s  - %s: %s", statusIndent, failure.FileName, failure.Error))
	}
	if report.Err != nil {
		lines = append(lines, renderStatusLine("Error", statusError, report.Err.Error(), colorize))
	}
	lines = append(lines, renderValueLine("Elapsed", formatElapsed(report.Elapsed())))

	if len(report.Stages) > 0 {
		rows := make([][]string, 0, len(report.Stages))
		for _, st := range report.Stages {
			rows = append(rows, []string{st.Name, formatElapsed(st.Elapsed)})
		}
		lines = append(lines, renderTable([]string{"Stage", "Elapsed"}, rows, []columnAlignment{alignLeft, alignRight}))
	}
	return lines
}

func outcomeKind(outcome string) statusKind {
	switch outcome {
	case services.OutcomeSuccess:
		return statusOK
	case services.OutcomePartial:
		return statusWarn
	case "":
		return statusInfo
	default:
		return statusError
	}
}

func formatElapsed(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}

// joinCardNumbers lists record indexes as 1-based card numbers.
func joinCardNumbers(indexes []int) string {
	parts := make([]string, len(indexes))
	for i, v := range indexes {
		parts[i] = strconv.Itoa(v + 1)
	}
	return strings.Join(parts, ", ")
}
