package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/sources"
)

// ProbeSourceTask fetches a source nobody has requested recently and records
// the outcome. A failed fetch is a valid outcome, not a task failure; only
// storage errors are retried.
type ProbeSourceTask struct {
	Task
	Source     sources.Source
	fetcher    SourceFetcher
	sourceRepo database.SourceRepository
}

func NewProbeSourceTask(src sources.Source, fetcher SourceFetcher, sourceRepo database.SourceRepository) *ProbeSourceTask {
	return &ProbeSourceTask{
		Task:       NewTask(TaskTypeProbeSource, src.Name),
		Source:     src,
		fetcher:    fetcher,
		sourceRepo: sourceRepo,
	}
}

func (t *ProbeSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result := t.fetcher.Fetch(ctx, t.Source)

	if err := t.sourceRepo.RecordFetch(outcomeFromResult(result, time.Now())); err != nil {
		return fmt.Errorf("failed to record probe outcome: %w", err)
	}

	slog.Info("Task completed",
		"type", "ProbeSource",
		"source", t.Source.Name,
		"ok", result.OK(),
		"items", len(result.Items),
		"duration", t.GetDuration())

	return nil
}

func outcomeFromResult(result feed.Result, fetchedAt time.Time) database.FetchOutcome {
	outcome := database.FetchOutcome{
		URL:        result.Source.URL,
		Name:       result.Source.Name,
		RegionCode: result.Source.RegionCode,
		Category:   result.Source.Category,
		FetchedAt:  fetchedAt,
		ItemCount:  len(result.Items),
		Duration:   result.Duration,
	}
	if result.Err != nil {
		outcome.Error = result.Err.Error()
	}
	if result.Metadata != nil {
		outcome.FeedTitle = result.Metadata.Title
		outcome.FeedLanguage = result.Metadata.Language
	}
	return outcome
}
