package summary

import (
	"context"
	"errors"
)

var ErrInvalidRequest = errors.New("title and content are required")

type Request struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
	Link    string `json:"link,omitempty"` // Article page, used to expand a short snippet
}

type Response struct {
	Success     bool   `json:"success"`
	Summary     string `json:"summary"`
	IsFallback  bool   `json:"isFallback"`
	WordCount   int    `json:"wordCount"`
	ReadingTime int    `json:"readingTime"` // Minutes
	Error       string `json:"error,omitempty"`
}

// Generator produces a summary for one article, typically through a
// language model.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ContentExtractor returns the readable text of the article at link.
type ContentExtractor interface {
	Fetch(ctx context.Context, link string) (string, error)
}

var _ ContentExtractor = (*Extractor)(nil)
