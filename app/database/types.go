package database

import (
	"time"
)

// FetchOutcome is the result of one attempt to fetch a source.
type FetchOutcome struct {
	URL        string
	Name       string
	RegionCode string
	Category   string
	FetchedAt  time.Time
	ItemCount  int
	Duration   time.Duration
	Error      string // Empty on success

	// Channel metadata reported by the feed itself. Empty values keep
	// whatever was stored before.
	FeedTitle    string
	FeedLanguage string
}

// SourceHealth is the stored fetch history of one source.
type SourceHealth struct {
	URL           string
	Name          string
	RegionCode    string
	Category      string
	LastFetchedAt *time.Time
	LastSuccessAt *time.Time
	LastError     string
	LastItemCount int
	LastDuration  time.Duration
	SuccessCount  int
	FailureCount  int
	FeedTitle     string
	FeedLanguage  string
	UpdatedAt     time.Time
}

// Healthy reports whether the most recent fetch succeeded.
func (h SourceHealth) Healthy() bool {
	return h.LastFetchedAt != nil && h.LastError == ""
}

type Stats struct {
	TotalSources   int
	HealthySources int
	FailingSources int
	NeverFetched   int
	TotalFetches   int
	TotalFailures  int
	LastFetchedAt  *time.Time
}
