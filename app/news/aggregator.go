package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/sources"
)

type FetcherInterface interface {
	FetchAll(ctx context.Context, srcs []sources.Source) []feed.Result
}

// OutcomeRecorder receives the per-source fetch results of every run. It
// must not block.
type OutcomeRecorder interface {
	RecordOutcomes(results []feed.Result)
}

var _ FetcherInterface = (*feed.Fetcher)(nil)

// Aggregator runs the whole pipeline for one request: resolve sources,
// fetch them in parallel, classify every item, then filter, annotate and
// sort. It holds no per-request state and is safe for concurrent use.
type Aggregator struct {
	registry   *sources.Registry
	fetcher    FetcherInterface
	classifier *Classifier
	assembler  *Assembler
	recorder   OutcomeRecorder
	now        func() time.Time
}

func NewAggregator(registry *sources.Registry, fetcher FetcherInterface, classifier *Classifier,
	assembler *Assembler, recorder OutcomeRecorder) *Aggregator {
	return &Aggregator{
		registry:   registry,
		fetcher:    fetcher,
		classifier: classifier,
		assembler:  assembler,
		recorder:   recorder,
		now:        time.Now,
	}
}

func (a *Aggregator) Run(ctx context.Context, q Query) (*Result, error) {
	if a.registry == nil || a.fetcher == nil || a.classifier == nil || a.assembler == nil {
		return nil, fmt.Errorf("aggregator is not fully configured")
	}

	q = q.Normalize()
	start := a.now()

	srcs := a.registry.Sources(q.Region)
	region, _ := a.registry.Region(q.Region)

	results := a.fetcher.FetchAll(ctx, srcs)
	if a.recorder != nil {
		if recorded := recordable(ctx, results); len(recorded) > 0 {
			a.recorder.RecordOutcomes(recorded)
		}
	}

	ok := feed.Successful(results)
	candidates := make([]Candidate, 0, len(ok)*feed.DefaultMaxItems)
	for _, result := range ok {
		for _, item := range result.Items {
			candidates = append(candidates, Candidate{
				Item:       item,
				Source:     result.Source,
				Categories: a.classifier.Classify(item.Title, item.SnippetText, result.Source.Category),
			})
		}
	}

	now := a.now()
	articles := a.assembler.Assemble(candidates, q, region, now)

	slog.Info("News aggregated",
		"query", q.Q,
		"category", q.Category,
		"region", q.Region,
		"sources", len(srcs),
		"failed", len(srcs)-len(ok),
		"candidates", len(candidates),
		"articles", len(articles),
		"duration", now.Sub(start))

	return &Result{
		Articles:  articles,
		UpdatedAt: now.UTC(),
	}, nil
}

// recordable keeps only successful outcomes once ctx is done: failures after
// a client disconnect say nothing about the source.
func recordable(ctx context.Context, results []feed.Result) []feed.Result {
	if ctx.Err() == nil {
		return results
	}
	return feed.Successful(results)
}
