package api

import (
	"context"
	"time"

	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/news"
	"github.com/lysyi3m/news-comb/app/sources"
	"github.com/lysyi3m/news-comb/app/summary"
)

type AggregatorInterface interface {
	Run(ctx context.Context, q news.Query) (*news.Result, error)
}

type GeneratorInterface interface {
	Run(selfLink string, q news.Query, result *news.Result) (string, error)
}

type SummarizerInterface interface {
	Run(ctx context.Context, req summary.Request) (*summary.Response, error)
}

var (
	_ AggregatorInterface = (*news.Aggregator)(nil)
	_ GeneratorInterface  = (*news.Generator)(nil)
	_ SummarizerInterface = (*summary.Service)(nil)
)

type StreamConfig struct {
	Heartbeat time.Duration
	Interval  time.Duration // How often breaking news is looked up
	Lifetime  time.Duration
}

type Handler struct {
	registry   *sources.Registry
	aggregator AggregatorInterface
	generator  GeneratorInterface
	summarizer SummarizerInterface
	sourceRepo database.SourceRepository
	stream     StreamConfig
	version    string
}

const (
	EventReady     = "ready"
	EventHeartbeat = "heartbeat"
	EventBreaking  = "breaking"
)

// StreamEvent is the payload of every server-sent event.
type StreamEvent struct {
	Type    string        `json:"type"`
	TS      int64         `json:"ts,omitempty"` // Unix milliseconds
	Article *news.Article `json:"article,omitempty"`
}

type RegionInfo struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Sources int    `json:"sources"`
}

type SourceInfo struct {
	URL           string     `json:"url"`
	Name          string     `json:"name"`
	RegionCode    string     `json:"region_code,omitempty"`
	Category      string     `json:"category,omitempty"`
	Healthy       bool       `json:"healthy"`
	LastFetchedAt *time.Time `json:"last_fetched_at"`
	LastSuccessAt *time.Time `json:"last_success_at"`
	LastError     string     `json:"last_error,omitempty"`
	LastItemCount int        `json:"last_item_count"`
	LastDuration  string     `json:"last_duration"`
	SuccessCount  int        `json:"success_count"`
	FailureCount  int        `json:"failure_count"`
	FeedTitle     string     `json:"feed_title,omitempty"`
	FeedLanguage  string     `json:"feed_language,omitempty"`
}

func newSourceInfo(h database.SourceHealth) SourceInfo {
	return SourceInfo{
		URL:           h.URL,
		Name:          h.Name,
		RegionCode:    h.RegionCode,
		Category:      h.Category,
		Healthy:       h.Healthy(),
		LastFetchedAt: h.LastFetchedAt,
		LastSuccessAt: h.LastSuccessAt,
		LastError:     h.LastError,
		LastItemCount: h.LastItemCount,
		LastDuration:  h.LastDuration.String(),
		SuccessCount:  h.SuccessCount,
		FailureCount:  h.FailureCount,
		FeedTitle:     h.FeedTitle,
		FeedLanguage:  h.FeedLanguage,
	}
}
