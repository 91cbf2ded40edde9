package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID            string
	Source        string
	BaseName      string
	CardsPath     string
	Outcome       string
	ErrorMessage  string
	Sentences     int
	ClipsFailed   int
	Overlaps      int
	UnsafeRecords int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Duration returns the wall-clock time of the run.
func (r Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

const runColumns = "id, source, base_name, cards_path, outcome, error_message, sentences, clips_failed, overlaps, unsafe_records, started_at, finished_at"

// RecordRun inserts a run. Recording the same id twice is an error.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Source,
		run.BaseName,
		nullableString(run.CardsPath),
		run.Outcome,
		nullableString(run.ErrorMessage),
		run.Sentences,
		run.ClipsFailed,
		run.Overlaps,
		run.UnsafeRecords,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run by id; it returns (nil, nil) when absent.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run        Run
		cardsPath  sql.NullString
		errMessage sql.NullString
		startedRaw string
		finishRaw  string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Source,
		&run.BaseName,
		&cardsPath,
		&run.Outcome,
		&errMessage,
		&run.Sentences,
		&run.ClipsFailed,
		&run.Overlaps,
		&run.UnsafeRecords,
		&startedRaw,
		&finishRaw,
	); err != nil {
		return Run{}, err
	}
	run.CardsPath = cardsPath.String
	run.ErrorMessage = errMessage.String
	run.StartedAt = parseTime(startedRaw)
	run.FinishedAt = parseTime(finishRaw)
	return run, nil
}
