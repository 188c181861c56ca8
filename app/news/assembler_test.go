package news

import (
	"testing"
	"time"

	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/sources"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func minutesAgo(m int) *time.Time {
	ts := testNow.Add(-time.Duration(m) * time.Minute)
	return &ts
}

func newTestAssembler() *Assembler {
	return NewAssembler(NewRegionFilter(nil), NewAnnotator(NewSentimentScorer(), DefaultBreakingWindow))
}

func candidate(title, link string, publishedAt *time.Time, categories ...string) Candidate {
	return Candidate{
		Item: feed.RawItem{
			Title:       title,
			Link:        link,
			PublishedAt: publishedAt,
			SnippetText: title + " snippet",
			SourceName:  "Test Source",
		},
		Source:     sources.Source{Name: "Test Source", URL: "https://example.com/feed"},
		Categories: categories,
	}
}

func titles(articles []Article) []string {
	result := make([]string, len(articles))
	for i, a := range articles {
		result[i] = a.Title
	}
	return result
}

func TestAssembleSortsNewestFirst(t *testing.T) {
	assembler := newTestAssembler()
	candidates := []Candidate{
		candidate("Old", "https://example.com/old", minutesAgo(600)),
		candidate("Undated", "https://example.com/undated", nil),
		candidate("New", "https://example.com/new", minutesAgo(1)),
		candidate("Middle", "https://example.com/middle", minutesAgo(60)),
	}

	articles := assembler.Assemble(candidates, Query{}.Normalize(), nil, testNow)

	expected := []string{"New", "Middle", "Old", "Undated"}
	got := titles(articles)
	if len(got) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Position %d: expected %s, got %s", i, expected[i], got[i])
		}
	}
}

func TestAssembleFilters(t *testing.T) {
	assembler := newTestAssembler()
	candidates := []Candidate{
		candidate("Cricket World Cup Final Today", "https://example.com/a", minutesAgo(5), "sports"),
		candidate("New Smartphone Launched", "https://example.com/b", minutesAgo(2880)),
		candidate("Election results announced", "https://example.com/c", minutesAgo(30), "politics", "sports"),
	}

	tests := []struct {
		name     string
		query    Query
		expected []string
	}{
		{"no filters", Query{}, []string{"Cricket World Cup Final Today", "Election results announced", "New Smartphone Launched"}},
		{"category", Query{Category: "sports"}, []string{"Cricket World Cup Final Today", "Election results announced"}},
		{"category upper case", Query{Category: "POLITICS"}, []string{"Election results announced"}},
		{"query in title", Query{Q: "cricket"}, []string{"Cricket World Cup Final Today"}},
		{"query in snippet", Query{Q: "SMARTPHONE LAUNCHED SNIPPET"}, []string{"New Smartphone Launched"}},
		{"query and category", Query{Q: "election", Category: "sports"}, []string{"Election results announced"}},
		{"no match", Query{Q: "monsoon"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(assembler.Assemble(candidates, tt.query.Normalize(), nil, testNow))
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("Position %d: expected %s, got %s", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestAssembleRegion(t *testing.T) {
	region := &sources.Region{Code: "TN", Name: "Tamil Nadu", Cities: []string{"chennai"}}
	assembler := NewAssembler(NewRegionFilter([]*sources.Region{region}),
		NewAnnotator(NewSentimentScorer(), DefaultBreakingWindow))

	regional := candidate("Budget session begins", "https://example.com/r", minutesAgo(10))
	regional.Source.RegionCode = "TN"

	candidates := []Candidate{
		regional,
		candidate("Chennai metro extended", "https://example.com/c", minutesAgo(20)),
		candidate("Delhi air quality worsens", "https://example.com/d", minutesAgo(30)),
	}

	articles := assembler.Assemble(candidates, Query{Region: "TN"}.Normalize(), region, testNow)
	if len(articles) != 2 {
		t.Fatalf("Expected 2 articles, got %v", titles(articles))
	}
	if articles[0].StateCode == nil || *articles[0].StateCode != "TN" {
		t.Errorf("Expected stateCode TN on regional article, got %v", articles[0].StateCode)
	}
	if articles[1].StateCode != nil {
		t.Errorf("Expected nil stateCode on national article, got %v", *articles[1].StateCode)
	}
}

func TestAssembleDeduplicatesByLink(t *testing.T) {
	assembler := newTestAssembler()
	candidates := []Candidate{
		candidate("First copy", "https://example.com/same", minutesAgo(5), "politics"),
		candidate("Second copy", "https://example.com/same", minutesAgo(5), "sports"),
		candidate("No link one", "", minutesAgo(10)),
		candidate("No link two", "", minutesAgo(10)),
	}

	articles := assembler.Assemble(candidates, Query{}.Normalize(), nil, testNow)
	if len(articles) != 3 {
		t.Fatalf("Expected 3 articles, got %v", titles(articles))
	}
	if articles[0].Title != "First copy" {
		t.Errorf("Expected first occurrence to win, got %s", articles[0].Title)
	}
}

func TestAssembleBuildsArticle(t *testing.T) {
	assembler := newTestAssembler()

	local := time.Date(2024, 6, 1, 17, 25, 0, 0, time.FixedZone("IST", 5*3600+1800))
	c := candidate("Team celebrate great win", "https://example.com/win", &local)
	c.Item.ImageURL = "https://example.com/win.jpg"
	c.Item.SourceName = ""
	c.Item.FullText = "<p>The team celebrated a famous victory at the stadium.</p>"

	articles := assembler.Assemble([]Candidate{c}, Query{}.Normalize(), nil, testNow)
	if len(articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(articles))
	}
	article := articles[0]

	if article.PubDate == nil || article.PubDate.Location() != time.UTC {
		t.Errorf("Expected UTC pubDate, got %v", article.PubDate)
	}
	if !article.IsBreaking {
		t.Error("Expected article published 5 minutes ago to be breaking")
	}
	if article.Image == nil || *article.Image != "https://example.com/win.jpg" {
		t.Errorf("Expected image URL, got %v", article.Image)
	}
	if article.Source != "Test Source" {
		t.Errorf("Expected source name from registry, got %s", article.Source)
	}
	if article.Categories == nil {
		t.Error("Expected non-nil categories")
	}
	if article.Summary != "The team celebrated a famous victory at the stadium." {
		t.Errorf("Unexpected summary: %q", article.Summary)
	}
	if article.Sentiment.Label != LabelPositive {
		t.Errorf("Expected positive sentiment, got %s", article.Sentiment.Label)
	}
}

func TestQueryNormalize(t *testing.T) {
	q := Query{Q: "  cricket ", Category: " Sports", Region: "tn"}.Normalize()
	if q.Q != "cricket" || q.Category != "sports" || q.Region != "TN" {
		t.Errorf("Unexpected normalized query: %+v", q)
	}

	q = Query{Region: "ALL"}.Normalize()
	if q.Category != AllCategories || q.Region != sources.AllRegions {
		t.Errorf("Expected defaults, got %+v", q)
	}
}
