package pipeline

import (
	"time"
)

// Stage names, also used as logging.FieldStage values.
const (
	StageFetch      = "fetch"
	StageProbe      = "probe"
	StageTranscribe = "transcribe"
	StageFlatten    = "flatten"
	StageSplit      = "split"
	StageAlign      = "align"
	StageTranslate  = "translate"
	StageClips      = "clips"
	StageCards      = "cards"
)

// StageTiming records how long a stage took.
type StageTiming struct {
	Name    string
	Elapsed time.Duration
}

// ClipFailure describes a clip that could not be written.
type ClipFailure struct {
	Index    int
	FileName string
	Error    string
}

// Report summarizes a run. Fields are filled as stages complete, so a
// failed run still reports what it reached.
type Report struct {
	RunID             string
	Source            string
	MediaPath         string
	BaseName          string
	ClipDir           string
	CardsPath         string
	TranslationEngine string
	Words             int
	Sentences         int
	Overlaps          int
	ClipsWritten      int
	ClipFailures      []ClipFailure
	UnsafeRecords     []int
	Stages            []StageTiming
	Outcome           string
	Err               error
	StartedAt         time.Time
	FinishedAt        time.Time
}

// Elapsed returns the run duration.
func (r *Report) Elapsed() time.Duration {
	if r == nil || r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Warnings reports whether the run completed with skipped clips or unsafe records.
func (r *Report) Warnings() bool {
	return r != nil && (len(r.ClipFailures) > 0 || len(r.UnsafeRecords) > 0)
}
