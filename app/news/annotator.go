package news

import (
	"cmp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lysyi3m/news-comb/app/feed"
)

const (
	DefaultBreakingWindow   = 15 * time.Minute
	DefaultSummarySentences = 3
	minSentenceLength       = 30
)

type Annotation struct {
	Sentiment  Sentiment
	Summary    string
	IsBreaking bool
}

type Annotator struct {
	scorer         *SentimentScorer
	breakingWindow time.Duration
}

func NewAnnotator(scorer *SentimentScorer, breakingWindow time.Duration) *Annotator {
	return &Annotator{
		scorer:         scorer,
		breakingWindow: breakingWindow,
	}
}

// Annotate scores sentiment over the title and snippet, builds an extractive
// summary from the richest text available and flags breaking news relative
// to now.
func (a *Annotator) Annotate(title, body, fullBody string, publishedAt *time.Time, now time.Time) Annotation {
	return Annotation{
		Sentiment:  a.scorer.Score(title + ". " + body),
		Summary:    Summarize(cmp.Or(fullBody, body), DefaultSummarySentences),
		IsBreaking: a.IsBreaking(publishedAt, now),
	}
}

// IsBreaking reports whether an article was published less than the breaking
// window before now. Undated articles are never breaking.
func (a *Annotator) IsBreaking(publishedAt *time.Time, now time.Time) bool {
	if publishedAt == nil {
		return false
	}
	return now.Sub(*publishedAt) < a.breakingWindow
}

// Summarize strips markup from text and joins the first maxSentences
// sentences longer than 30 characters. Shorter fragments such as bylines
// are skipped.
func Summarize(text string, maxSentences int) string {
	clean := feed.PlainText(text)

	picked := make([]string, 0, maxSentences)
	for _, sentence := range splitSentences(clean) {
		if len(picked) == maxSentences {
			break
		}
		if utf8.RuneCountInString(sentence) > minSentenceLength {
			picked = append(picked, sentence)
		}
	}
	return strings.Join(picked, " ")
}
