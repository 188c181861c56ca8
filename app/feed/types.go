package feed

import (
	"time"

	"github.com/lysyi3m/news-comb/app/sources"
)

// RawItem is the fixed shape every parsed feed entry is normalized into,
// whatever format or optional fields the feed used.
type RawItem struct {
	Title       string
	Link        string
	PublishedAt *time.Time
	SnippetText string // Plain text, from description or content
	FullText    string // HTML allowed, from content:encoded or description
	ImageURL    string
	SourceName  string
}

type Metadata struct {
	Title    string
	Link     string
	Language string
}

// Result is the outcome of fetching one source. Exactly one is produced
// per source, whether the fetch succeeded or not.
type Result struct {
	Source   sources.Source
	Metadata *Metadata
	Items    []RawItem
	Err      error
	Duration time.Duration
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Successful keeps the results whose fetch succeeded, preserving order.
func Successful(results []Result) []Result {
	ok := make([]Result, 0, len(results))
	for _, r := range results {
		if r.OK() {
			ok = append(ok, r)
		}
	}
	return ok
}
