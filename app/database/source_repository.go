package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var _ SourceRepository = (*SourceRepo)(nil)

const sourceColumns = `url, name, region_code, category, last_fetched_at, last_success_at,
	last_error, last_item_count, last_duration_ms, success_count, failure_count,
	feed_title, feed_language, updated_at`

// SourceRepo stores per-source fetch health. Timestamps are Unix
// milliseconds.
type SourceRepo struct {
	db  *DB
	now func() time.Time
}

func NewSourceRepository(db *DB) *SourceRepo {
	return &SourceRepo{db: db, now: time.Now}
}

// UpsertSource registers a source or refreshes its descriptive fields,
// leaving its fetch history untouched.
func (r *SourceRepo) UpsertSource(url, name, regionCode, category string) error {
	_, err := r.db.Exec(`
		INSERT INTO sources (url, name, region_code, category, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			name = excluded.name,
			region_code = excluded.region_code,
			category = excluded.category,
			updated_at = excluded.updated_at
	`, url, name, regionCode, category, r.now().UnixMilli())

	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}

	return nil
}

// RecordFetch stores the outcome of one fetch and bumps the success or
// failure counter. The last success time survives failed fetches.
func (r *SourceRepo) RecordFetch(outcome FetchOutcome) error {
	if outcome.URL == "" {
		return fmt.Errorf("source URL is required")
	}

	fetchedAt := outcome.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = r.now()
	}

	var lastSuccessAt sql.NullInt64
	successes, failures := 0, 0
	itemCount := outcome.ItemCount
	if outcome.Error == "" {
		lastSuccessAt = sql.NullInt64{Int64: fetchedAt.UnixMilli(), Valid: true}
		successes = 1
	} else {
		failures = 1
		itemCount = 0
	}

	_, err := r.db.Exec(`
		INSERT INTO sources (`+sourceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			name = excluded.name,
			region_code = excluded.region_code,
			category = excluded.category,
			last_fetched_at = excluded.last_fetched_at,
			last_success_at = COALESCE(excluded.last_success_at, sources.last_success_at),
			last_error = excluded.last_error,
			last_item_count = excluded.last_item_count,
			last_duration_ms = excluded.last_duration_ms,
			success_count = sources.success_count + excluded.success_count,
			failure_count = sources.failure_count + excluded.failure_count,
			feed_title = COALESCE(NULLIF(excluded.feed_title, ''), sources.feed_title),
			feed_language = COALESCE(NULLIF(excluded.feed_language, ''), sources.feed_language),
			updated_at = excluded.updated_at
	`, outcome.URL, outcome.Name, outcome.RegionCode, outcome.Category,
		fetchedAt.UnixMilli(), lastSuccessAt, outcome.Error, itemCount,
		outcome.Duration.Milliseconds(), successes, failures,
		outcome.FeedTitle, outcome.FeedLanguage, r.now().UnixMilli())

	if err != nil {
		return fmt.Errorf("failed to record fetch: %w", err)
	}

	return nil
}

// GetSource returns nil without error when the source is unknown.
func (r *SourceRepo) GetSource(url string) (*SourceHealth, error) {
	row := r.db.QueryRow(`SELECT `+sourceColumns+` FROM sources WHERE url = ?`, url)

	source, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return source, nil
}

func (r *SourceRepo) ListSources() ([]SourceHealth, error) {
	rows, err := r.db.Query(`SELECT ` + sourceColumns + ` FROM sources ORDER BY region_code, name, url`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	return collectSources(rows)
}

// GetStaleSources returns sources never fetched or last fetched before the
// given time, oldest first.
func (r *SourceRepo) GetStaleSources(before time.Time) ([]SourceHealth, error) {
	rows, err := r.db.Query(`
		SELECT `+sourceColumns+` FROM sources
		WHERE last_fetched_at IS NULL OR last_fetched_at < ?
		ORDER BY COALESCE(last_fetched_at, 0), url
	`, before.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to get stale sources: %w", err)
	}
	defer rows.Close()

	return collectSources(rows)
}

func (r *SourceRepo) GetStats() (*Stats, error) {
	var stats Stats
	var lastFetchedAt sql.NullInt64

	err := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN last_fetched_at IS NOT NULL AND last_error = '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN last_fetched_at IS NOT NULL AND last_error <> '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN last_fetched_at IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(success_count + failure_count), 0),
			COALESCE(SUM(failure_count), 0),
			MAX(last_fetched_at)
		FROM sources
	`).Scan(&stats.TotalSources, &stats.HealthySources, &stats.FailingSources, &stats.NeverFetched,
		&stats.TotalFetches, &stats.TotalFailures, &lastFetchedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to get source stats: %w", err)
	}

	stats.LastFetchedAt = fromMillis(lastFetchedAt)
	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*SourceHealth, error) {
	var source SourceHealth
	var lastFetchedAt, lastSuccessAt sql.NullInt64
	var durationMs, updatedAt int64

	err := row.Scan(&source.URL, &source.Name, &source.RegionCode, &source.Category,
		&lastFetchedAt, &lastSuccessAt, &source.LastError, &source.LastItemCount,
		&durationMs, &source.SuccessCount, &source.FailureCount,
		&source.FeedTitle, &source.FeedLanguage, &updatedAt)
	if err != nil {
		return nil, err
	}

	source.LastFetchedAt = fromMillis(lastFetchedAt)
	source.LastSuccessAt = fromMillis(lastSuccessAt)
	source.LastDuration = time.Duration(durationMs) * time.Millisecond
	source.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return &source, nil
}

func collectSources(rows *sql.Rows) ([]SourceHealth, error) {
	var result []SourceHealth
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		result = append(result, *source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sources: %w", err)
	}

	return result, nil
}

func fromMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64).UTC()
	return &t
}
