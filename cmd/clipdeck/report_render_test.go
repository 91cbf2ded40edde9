package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"clipdeck/internal/pipeline"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Clips", statusWarn, "1 written, 1 failed", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Clips:", "[WARN] 1 written, 1 failed")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Outcome", statusOK, "success", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestReportLines(t *testing.T) {
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	report := &pipeline.Report{
		RunID:         "run-1",
		Source:        "lesson.es.mp3",
		CardsPath:     "/cards/lesson.txt",
		Sentences:     3,
		Words:         11,
		ClipsWritten:  2,
		ClipFailures:  []pipeline.ClipFailure{{Index: 2, FileName: "lesson-2-clip.mp4", Error: "ffmpeg exploded"}},
		UnsafeRecords: []int{0, 2},
		Stages: []pipeline.StageTiming{
			{Name: pipeline.StageAlign, Elapsed: 3 * time.Millisecond},
			{Name: pipeline.StageClips, Elapsed: 2 * time.Second},
		},
		Outcome:    "partial",
		StartedAt:  started,
		FinishedAt: started.Add(5 * time.Second),
	}
	out := strings.Join(reportLines(report, false), "\n")
	for _, want := range []string{
		"[WARN] partial",
		"3 (11 words)",
		"2 written, 1 failed",
		"lesson-2-clip.mp4: ffmpeg exploded",
		"separators in cards 1, 3",
		"5s",
		"align",
		"3ms",
	} {
		requireContains(t, out, want)
	}
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("partial run should not render errors:\n%s", out)
	}
}

func TestReportLinesForFailedRun(t *testing.T) {
	report := &pipeline.Report{
		RunID:   "run-2",
		Source:  "bad.mp3",
		Outcome: "invalid_input",
		Err:     errors.New("align: alignment mismatch at word 0"),
	}
	out := strings.Join(reportLines(report, false), "\n")
	requireContains(t, out, "[ERROR] invalid_input")
	requireContains(t, out, "[ERROR] align: alignment mismatch at word 0")
	if strings.Contains(out, "Cards file") {
		t.Fatalf("failed run has no cards file:\n%s", out)
	}
}
