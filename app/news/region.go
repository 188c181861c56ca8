package news

import (
	"regexp"
	"strings"

	"github.com/lysyi3m/news-comb/app/sources"
)

type regionMatcher struct {
	name  string
	terms *regexp.Regexp // Keywords and city names
}

// RegionFilter decides whether an article concerns a region. Patterns for
// every known region are compiled up front; the filter is read-only after
// construction.
type RegionFilter struct {
	matchers map[string]*regionMatcher
}

func NewRegionFilter(regions []*sources.Region) *RegionFilter {
	f := &RegionFilter{matchers: make(map[string]*regionMatcher, len(regions))}
	for _, region := range regions {
		f.matchers[region.Code] = compileRegion(region)
	}
	return f
}

func compileRegion(region *sources.Region) *regionMatcher {
	terms := make([]string, 0, len(region.Keywords)+len(region.Cities))
	terms = append(terms, region.Keywords...)
	terms = append(terms, region.Cities...)
	return &regionMatcher{
		name:  region.Name,
		terms: anyWordPattern(terms),
	}
}

// IsRelevant reports whether an article belongs in a region-filtered
// listing. A nil region means no filtering. Articles from the region's own
// sources are always relevant. Anything else must mention the region name,
// one of its keywords or one of its cities.
func (f *RegionFilter) IsRelevant(title, body, sourceRegion string, region *sources.Region) bool {
	if region == nil {
		return true
	}
	if sourceRegion != "" && strings.EqualFold(sourceRegion, region.Code) {
		return true
	}

	matcher, ok := f.matchers[region.Code]
	if !ok {
		matcher = compileRegion(region)
	}

	content := title + " " + body

	if matcher.name != "" && containsFold(content, matcher.name) {
		return true
	}
	return matcher.terms != nil && matcher.terms.MatchString(content)
}
