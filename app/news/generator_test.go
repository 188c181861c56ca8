package news

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator("1.2.3")

	published := time.Date(2024, 6, 1, 11, 55, 0, 0, time.UTC)
	image := "https://example.com/photo.png?w=640"
	state := "TN"

	result := &Result{
		UpdatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Articles: []Article{
			{
				Title:          "Cricket & Football Today",
				Link:           "https://example.com/a",
				ContentSnippet: "Snippet A",
				PubDate:        &published,
				Source:         "Wire",
				Image:          &image,
				Categories:     []string{"sports", "politics"},
				Summary:        "Summary A <with markup>",
				StateCode:      &state,
			},
			{
				Title:          "Undated story",
				Link:           "urn:story:b",
				ContentSnippet: "Snippet B",
				Categories:     []string{},
			},
		},
	}

	q := Query{Q: "cricket", Category: "sports", Region: "TN"}
	rss, err := generator.Run("http://localhost:8080/news.rss?category=sports", q, result)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("RSS should contain XML declaration")
	}
	if !strings.Contains(rss, `<title>News Comb - sports - TN - &#34;cricket&#34;</title>`) {
		t.Error("RSS should contain channel title describing the filters")
	}
	if !strings.Contains(rss, `<atom:link href="http://localhost:8080/news.rss?category=sports" rel="self" type="application/rss+xml" />`) {
		t.Error("RSS should contain self link")
	}
	if !strings.Contains(rss, "<generator>News-Comb/1.2.3</generator>") {
		t.Error("RSS should contain generator with version")
	}
	if !strings.Contains(rss, "<title>Cricket &amp; Football Today</title>") {
		t.Error("Item title should be escaped")
	}
	if !strings.Contains(rss, `<guid isPermaLink="true">https://example.com/a</guid>`) {
		t.Error("URL guid should be a permalink")
	}
	if !strings.Contains(rss, `<guid isPermaLink="false">urn:story:b</guid>`) {
		t.Error("Non-URL guid should not be a permalink")
	}
	if !strings.Contains(rss, "<description>Summary A &lt;with markup&gt;</description>") {
		t.Error("Description should prefer the escaped summary")
	}
	if !strings.Contains(rss, "<description>Snippet B</description>") {
		t.Error("Description should fall back to the snippet")
	}
	if !strings.Contains(rss, "<pubDate>Sat, 01 Jun 2024 11:55:00 +0000</pubDate>") {
		t.Error("Item should contain RFC1123Z pubDate")
	}
	if strings.Count(rss, "<pubDate>") != 1 {
		t.Error("Undated items should not have a pubDate")
	}
	if !strings.Contains(rss, "<category>sports</category>") || !strings.Contains(rss, "<category>politics</category>") {
		t.Error("Item should list its categories")
	}
	if !strings.Contains(rss, `type="image/png"`) {
		t.Error("Enclosure type should be derived from the image path")
	}

	var doc struct {
		Channel struct {
			Items []struct {
				Title string `xml:"title"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal([]byte(rss), &doc); err != nil {
		t.Fatalf("Generated RSS is not well-formed XML: %v", err)
	}
	if len(doc.Channel.Items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(doc.Channel.Items))
	}
}

func TestGenerateRSSDefaultTitle(t *testing.T) {
	generator := NewGenerator("dev")

	rss, err := generator.Run("", Query{}.Normalize(), &Result{Articles: []Article{}})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(rss, "<title>News Comb</title>") {
		t.Error("Unfiltered listing should use the plain channel title")
	}
	if strings.Contains(rss, "atom:link href") {
		t.Error("Self link should be omitted when unknown")
	}
	if strings.Contains(rss, "<item>") {
		t.Error("Empty result should have no items")
	}
}

func TestGenerateRSSNilResult(t *testing.T) {
	if _, err := NewGenerator("dev").Run("", Query{}, nil); err == nil {
		t.Error("Expected error for nil result")
	}
}
