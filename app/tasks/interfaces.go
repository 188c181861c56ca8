package tasks

import (
	"context"

	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/sources"
)

// TaskSchedulerInterface runs background tasks and receives the fetch
// outcomes the aggregator reports.
//
//	scheduler := NewScheduler(registry, sourceRepo, fetcher, SchedulerConfig{...})
//	scheduler.Start()
//	defer scheduler.Stop()
//	aggregator := news.NewAggregator(registry, fetcher, classifier, assembler, scheduler)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	RecordOutcomes(results []feed.Result)
}

type SourceFetcher interface {
	Fetch(ctx context.Context, src sources.Source) feed.Result
}
