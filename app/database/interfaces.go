package database

import (
	"time"
)

type SourceRepository interface {
	UpsertSource(url, name, regionCode, category string) error
	RecordFetch(outcome FetchOutcome) error

	GetSource(url string) (*SourceHealth, error)
	ListSources() ([]SourceHealth, error)
	GetStats() (*Stats, error)
	GetStaleSources(before time.Time) ([]SourceHealth, error)
}
