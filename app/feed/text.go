package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
}

// PlainText converts an HTML fragment into plain text. Every text node is
// separated by a space so adjacent block elements do not run together,
// entities are decoded and whitespace is collapsed.
func PlainText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return CollapseSpace(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return CollapseSpace(html)
	}

	var parts []string
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, s *goquery.Selection) {
			name := goquery.NodeName(s)
			switch {
			case name == "#text":
				parts = append(parts, s.Text())
			case skippedElements[name]:
			default:
				walk(s)
			}
		})
	}
	walk(doc.Selection)

	return CollapseSpace(strings.Join(parts, " "))
}

// CollapseSpace replaces every whitespace run with a single space and trims.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
