package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/news-comb/app/sources"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxItems = 20

	maxFeedSize = 10 << 20
)

type FetcherConfig struct {
	UserAgent   string
	Timeout     time.Duration // Per feed
	MaxItems    int           // Items kept from each feed
	Concurrency int           // Feeds fetched at once
}

type Fetcher struct {
	httpClient *http.Client
	parser     *Parser
	config     FetcherConfig
}

func NewFetcher(httpClient *http.Client, parser *Parser, config FetcherConfig) *Fetcher {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxItems <= 0 {
		config.MaxItems = DefaultMaxItems
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Fetcher{
		httpClient: httpClient,
		parser:     parser,
		config:     config,
	}
}

// FetchAll fetches every source concurrently and waits for all of them to
// settle. One failing source never affects the others; the returned slice
// holds one Result per source, in source order.
func (f *Fetcher) FetchAll(ctx context.Context, srcs []sources.Source) []Result {
	results := make([]Result, len(srcs))

	var g errgroup.Group
	g.SetLimit(f.config.Concurrency)

	for i, src := range srcs {
		g.Go(func() error {
			results[i] = f.Fetch(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Fetch retrieves and parses a single source within the configured timeout.
func (f *Fetcher) Fetch(ctx context.Context, src sources.Source) Result {
	start := time.Now()
	result := Result{Source: src}

	data, err := f.fetchFeed(ctx, src.URL)
	if err == nil {
		result.Metadata, result.Items, err = f.parser.Run(data, src.Name, f.config.MaxItems)
	}
	result.Duration = time.Since(start)

	if err != nil {
		result.Err = err
		slog.Warn("Feed fetch failed", "source", src.Name, "url", src.URL, "duration", result.Duration, "error", err)
		return result
	}

	slog.Debug("Feed fetched", "source", src.Name, "items", len(result.Items), "duration", result.Duration)
	return result
}

func (f *Fetcher) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml;q=0.9, */*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
