package summary

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultTimeout = 20 * time.Second
	wordsPerMinute = 200

	// Content shorter than this is treated as a feed snippet and expanded
	// from the article page when a link is given.
	expandBelowLen = 400
)

// Service answers summary requests. It tries the generator first when one
// is configured and falls back to Fallback on any failure.
type Service struct {
	generator Generator
	extractor ContentExtractor
	timeout   time.Duration
}

// NewService creates a summary service. generator may be nil.
func NewService(generator Generator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		generator: generator,
		timeout:   timeout,
	}
}

// WithExtractor enables expanding short content from the article link.
func (s *Service) WithExtractor(extractor ContentExtractor) *Service {
	s.extractor = extractor
	return s
}

// Run returns ErrInvalidRequest when the title or content is blank. Every
// other failure is reported inside the response.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrInvalidRequest
	}

	req = s.expand(ctx, req)

	if s.generator == nil {
		return newResponse(Fallback(req.Title, req.Content), true, ""), nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.generator.Generate(timeoutCtx, req)
	if err != nil {
		slog.Warn("Summary generation failed, using fallback",
			"title", truncateRunes(req.Title, 50),
			"duration", time.Since(start),
			"error", err)
		return newResponse(Fallback(req.Title, req.Content), true, err.Error()), nil
	}

	slog.Debug("Summary generated", "title", truncateRunes(req.Title, 50), "duration", time.Since(start))
	return newResponse(text, false, ""), nil
}

// expand replaces snippet-sized content with the extracted article text.
// Any extraction failure keeps the content the client sent.
func (s *Service) expand(ctx context.Context, req Request) Request {
	if s.extractor == nil || req.Link == "" || utf8.RuneCountInString(req.Content) >= expandBelowLen {
		return req
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.extractor.Fetch(timeoutCtx, req.Link)
	if err != nil {
		slog.Warn("Article extraction failed, using provided content", "link", req.Link, "error", err)
		return req
	}

	if utf8.RuneCountInString(text) > utf8.RuneCountInString(req.Content) {
		req.Content = text
	}
	return req
}

func newResponse(text string, isFallback bool, errMsg string) *Response {
	words := len(strings.Fields(text))
	return &Response{
		Success:     true,
		Summary:     text,
		IsFallback:  isFallback,
		WordCount:   words,
		ReadingTime: (words + wordsPerMinute - 1) / wordsPerMinute,
		Error:       errMsg,
	}
}
