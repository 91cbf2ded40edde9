package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TranslationKey identifies one cached translation.
type TranslationKey struct {
	Engine     string
	SourceLang string
	TargetLang string
	Text       string
}

// CacheStats summarizes the translation cache.
type CacheStats struct {
	Entries int
	Hits    int
	Engines map[string]int
}

// LookupTranslation returns a cached translation and whether it was found.
// A hit increments the entry's hit counter.
func (s *Store) LookupTranslation(ctx context.Context, key TranslationKey) (string, bool, error) {
	ctx = ensureContext(ctx)
	var translated string
	err := s.db.QueryRowContext(ctx,
		`SELECT translated FROM translations
         WHERE engine = ? AND source_lang = ? AND target_lang = ? AND source_text = ?`,
		key.Engine, key.SourceLang, key.TargetLang, key.Text,
	).Scan(&translated)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup translation: %w", err)
	}
	if _, err := s.execWithRetry(ctx,
		`UPDATE translations SET hits = hits + 1
         WHERE engine = ? AND source_lang = ? AND target_lang = ? AND source_text = ?`,
		key.Engine, key.SourceLang, key.TargetLang, key.Text,
	); err != nil {
		return "", false, fmt.Errorf("record cache hit: %w", err)
	}
	return translated, true, nil
}

// PutTranslation stores or replaces a translation.
func (s *Store) PutTranslation(ctx context.Context, key TranslationKey, translated string) error {
	_, err := s.execWithRetry(ctx,
		`INSERT INTO translations (engine, source_lang, target_lang, source_text, translated, created_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT (engine, source_lang, target_lang, source_text)
         DO UPDATE SET translated = excluded.translated, created_at = excluded.created_at`,
		key.Engine, key.SourceLang, key.TargetLang, key.Text, translated,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store translation: %w", err)
	}
	return nil
}

// CacheStats reports entry and hit totals.
func (s *Store) CacheStats(ctx context.Context) (CacheStats, error) {
	ctx = ensureContext(ctx)
	stats := CacheStats{Engines: map[string]int{}}
	rows, err := s.db.QueryContext(ctx,
		`SELECT engine, COUNT(*), COALESCE(SUM(hits), 0) FROM translations GROUP BY engine`)
	if err != nil {
		return stats, fmt.Errorf("cache stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			engine  string
			entries int
			hits    int
		)
		if err := rows.Scan(&engine, &entries, &hits); err != nil {
			return stats, fmt.Errorf("scan cache stats: %w", err)
		}
		stats.Engines[engine] = entries
		stats.Entries += entries
		stats.Hits += hits
	}
	return stats, rows.Err()
}

// ClearCache deletes cached translations, optionally for one engine only,
// and returns the number of removed rows.
func (s *Store) ClearCache(ctx context.Context, engine string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if engine == "" {
		res, err = s.execWithRetry(ctx, `DELETE FROM translations`)
	} else {
		res, err = s.execWithRetry(ctx, `DELETE FROM translations WHERE engine = ?`, engine)
	}
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
