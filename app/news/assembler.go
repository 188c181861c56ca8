package news

import (
	"slices"
	"time"

	"github.com/lysyi3m/news-comb/app/sources"
)

type Assembler struct {
	regionFilter *RegionFilter
	annotator    *Annotator
}

func NewAssembler(regionFilter *RegionFilter, annotator *Annotator) *Assembler {
	return &Assembler{
		regionFilter: regionFilter,
		annotator:    annotator,
	}
}

// Assemble keeps the candidates that pass the query, category and region
// filters, annotates them and returns them newest first. Candidates sharing
// a link are kept once, first occurrence wins.
func (a *Assembler) Assemble(candidates []Candidate, q Query, region *sources.Region, now time.Time) []Article {
	articles := make([]Article, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		if !a.Matches(c, q, region) {
			continue
		}
		if c.Item.Link != "" {
			if seen[c.Item.Link] {
				continue
			}
			seen[c.Item.Link] = true
		}
		articles = append(articles, a.buildArticle(c, now))
	}

	SortByRecency(articles)
	return articles
}

func (a *Assembler) Matches(c Candidate, q Query, region *sources.Region) bool {
	return matchesQuery(c, q.Q) &&
		matchesCategory(c, q.Category) &&
		a.regionFilter.IsRelevant(c.Item.Title, c.Item.SnippetText, c.Source.RegionCode, region)
}

func matchesQuery(c Candidate, q string) bool {
	if q == "" {
		return true
	}
	return containsFold(c.Item.Title, q) || containsFold(c.Item.SnippetText, q)
}

func matchesCategory(c Candidate, category string) bool {
	if category == "" || category == AllCategories {
		return true
	}
	return slices.Contains(c.Categories, category)
}

func (a *Assembler) buildArticle(c Candidate, now time.Time) Article {
	item := c.Item
	annotation := a.annotator.Annotate(item.Title, item.SnippetText, item.FullText, item.PublishedAt, now)

	article := Article{
		Title:          item.Title,
		Link:           item.Link,
		ContentSnippet: item.SnippetText,
		Source:         item.SourceName,
		Categories:     c.Categories,
		Sentiment:      annotation.Sentiment,
		Summary:        annotation.Summary,
		IsBreaking:     annotation.IsBreaking,
	}

	if article.Categories == nil {
		article.Categories = []string{}
	}
	if article.Source == "" {
		article.Source = c.Source.Name
	}
	if item.PublishedAt != nil {
		published := item.PublishedAt.UTC()
		article.PubDate = &published
	}
	if item.ImageURL != "" {
		image := item.ImageURL
		article.Image = &image
	}
	if c.Source.RegionCode != "" {
		code := c.Source.RegionCode
		article.StateCode = &code
	}

	return article
}

// SortByRecency orders articles newest first. Undated articles sort as if
// published at the Unix epoch. The sort is stable.
func SortByRecency(articles []Article) {
	epoch := time.Unix(0, 0)
	publishedAt := func(a Article) time.Time {
		if a.PubDate == nil {
			return epoch
		}
		return *a.PubDate
	}

	slices.SortStableFunc(articles, func(x, y Article) int {
		return publishedAt(y).Compare(publishedAt(x))
	})
}
