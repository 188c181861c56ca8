package news

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/lysyi3m/news-comb/app/sources"
)

const (
	DefaultMinMatches          = 2
	DefaultStrongKeywordLength = 10
	DefaultMaxCategories       = 3
)

type ClassifierConfig struct {
	MinMatches          int // Keyword matches that accept a category on their own
	StrongKeywordLength int // A lone match on a keyword longer than this still accepts
	MaxCategories       int
}

type keywordMatcher struct {
	keyword string
	pattern *regexp.Regexp
}

type compiledCategory struct {
	name     string
	keywords []keywordMatcher
	fallback *regexp.Regexp
}

// Classifier tags articles with categories by keyword matching. It is
// immutable after construction and safe for concurrent use.
type Classifier struct {
	categories []compiledCategory
	config     ClassifierConfig
}

func NewClassifier(categories []sources.Category, config ClassifierConfig) (*Classifier, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("at least one category is required")
	}
	if config.MinMatches <= 0 {
		config.MinMatches = DefaultMinMatches
	}
	if config.StrongKeywordLength <= 0 {
		config.StrongKeywordLength = DefaultStrongKeywordLength
	}
	if config.MaxCategories <= 0 {
		config.MaxCategories = DefaultMaxCategories
	}

	compiled := make([]compiledCategory, 0, len(categories))
	for _, category := range categories {
		cc := compiledCategory{
			name:     category.Name,
			fallback: anyWordPattern(category.Fallback),
		}
		for _, keyword := range category.Keywords {
			cc.keywords = append(cc.keywords, keywordMatcher{
				keyword: keyword,
				pattern: wordPattern(keyword),
			})
		}
		compiled = append(compiled, cc)
	}

	return &Classifier{
		categories: compiled,
		config:     config,
	}, nil
}

type rankedCategory struct {
	name  string
	score int
}

// Classify returns up to MaxCategories categories for an article, most
// relevant first. The source category is always a candidate and counts as
// one extra match for its category. When nothing is accepted, categories
// whose fallback terms appear in the title are returned instead.
func (c *Classifier) Classify(title, body, sourceCategory string) []string {
	content := title + " " + body

	var ranked []rankedCategory
	if sourceCategory != "" {
		ranked = append(ranked, rankedCategory{name: sourceCategory, score: 1})
	}

	for _, category := range c.categories {
		matches := c.matchKeywords(category, content)
		if !c.accepts(matches) {
			continue
		}

		idx := slices.IndexFunc(ranked, func(r rankedCategory) bool { return r.name == category.name })
		if idx >= 0 {
			ranked[idx].score += len(matches)
		} else {
			ranked = append(ranked, rankedCategory{name: category.name, score: len(matches)})
		}
	}

	slices.SortStableFunc(ranked, func(a, b rankedCategory) int {
		return b.score - a.score
	})
	if len(ranked) > c.config.MaxCategories {
		ranked = ranked[:c.config.MaxCategories]
	}

	result := make([]string, 0, len(ranked))
	for _, r := range ranked {
		result = append(result, r.name)
	}

	if len(result) == 0 {
		result = c.fallback(title)
	}

	return result
}

func (c *Classifier) matchKeywords(category compiledCategory, content string) []string {
	var matches []string
	for _, kw := range category.keywords {
		if kw.pattern.MatchString(content) {
			matches = append(matches, kw.keyword)
		}
	}
	return matches
}

func (c *Classifier) accepts(matches []string) bool {
	if len(matches) >= c.config.MinMatches {
		return true
	}
	return len(matches) == 1 && len(matches[0]) > c.config.StrongKeywordLength
}

func (c *Classifier) fallback(title string) []string {
	result := []string{}
	for _, category := range c.categories {
		if len(result) == c.config.MaxCategories {
			break
		}
		if category.fallback != nil && category.fallback.MatchString(title) {
			result = append(result, category.name)
		}
	}
	return result
}
