package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses RSS, Atom or JSON feed data and normalizes up to maxItems
// entries into RawItems attributed to sourceName. maxItems <= 0 keeps all.
func (p *Parser) Run(data []byte, sourceName string, maxItems int) (*Metadata, []RawItem, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:    feed.Title,
		Link:     feed.Link,
		Language: feed.Language,
	}

	entries := feed.Items
	if maxItems > 0 && len(entries) > maxItems {
		entries = entries[:maxItems]
	}

	name := cmp.Or(sourceName, feed.Title)
	items := make([]RawItem, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		items = append(items, p.normalizeItem(entry, name))
	}

	return metadata, items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item, sourceName string) RawItem {
	normalized := RawItem{
		Title:      strings.TrimSpace(item.Title),
		Link:       strings.TrimSpace(item.Link),
		SourceName: sourceName,
	}

	switch {
	case item.PublishedParsed != nil:
		published := *item.PublishedParsed
		normalized.PublishedAt = &published
	case item.UpdatedParsed != nil:
		updated := *item.UpdatedParsed
		normalized.PublishedAt = &updated
	}

	// gofeed maps content:encoded (RSS) and <content> (Atom) to Content.
	normalized.SnippetText = PlainText(cmp.Or(item.Description, item.Content))
	normalized.FullText = cmp.Or(item.Content, item.Description)
	normalized.ImageURL = p.extractImage(item)

	return normalized
}

func (p *Parser) extractImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, enclosure := range item.Enclosures {
		if enclosure != nil && enclosure.URL != "" && strings.HasPrefix(enclosure.Type, "image/") {
			return enclosure.URL
		}
	}

	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}
	for _, name := range []string{"content", "thumbnail"} {
		for _, ext := range media[name] {
			if url := ext.Attrs["url"]; url != "" {
				return url
			}
		}
	}

	return ""
}
