package news

import (
	"strings"
	"time"

	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/sources"
)

// AllCategories disables the category filter.
const AllCategories = "all"

// Article is one item of the aggregated listing.
type Article struct {
	Title          string     `json:"title"`
	Link           string     `json:"link"`
	ContentSnippet string     `json:"contentSnippet"`
	PubDate        *time.Time `json:"pubDate,omitempty"`
	Source         string     `json:"source"`
	Image          *string    `json:"image"`
	Categories     []string   `json:"category"`
	Sentiment      Sentiment  `json:"sentiment"`
	Summary        string     `json:"summary"`
	IsBreaking     bool       `json:"isBreaking"`
	StateCode      *string    `json:"stateCode"`
}

type Result struct {
	Articles  []Article `json:"articles"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Candidate is a classified feed item awaiting filtering and annotation.
type Candidate struct {
	Item       feed.RawItem
	Source     sources.Source
	Categories []string
}

type Query struct {
	Q        string
	Category string
	Region   string
}

// Normalize applies defaults: empty category and region mean "all",
// categories are lower-case and region codes upper-case.
func (q Query) Normalize() Query {
	q.Q = strings.TrimSpace(q.Q)

	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	if q.Category == "" {
		q.Category = AllCategories
	}

	q.Region = strings.TrimSpace(q.Region)
	if q.Region == "" || strings.EqualFold(q.Region, sources.AllRegions) {
		q.Region = sources.AllRegions
	} else {
		q.Region = strings.ToUpper(q.Region)
	}
	return q
}
