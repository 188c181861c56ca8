package news

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// fold returns a caseless form of s for substring comparisons. A new Caser
// is created per call because Casers are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}

func containsFold(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}

// wordPattern matches term case-insensitively as a whole word, so "art"
// does not match inside "smart".
func wordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

// anyWordPattern matches any of the terms as a whole word. Nil when terms is empty.
func anyWordPattern(terms []string) *regexp.Regexp {
	if len(terms) == 0 {
		return nil
	}
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = regexp.QuoteMeta(term)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// splitSentences splits text after '.', '?' or '!' when followed by
// whitespace. The terminator stays with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '?', '!':
			if i+1 < len(text) && isSpace(text[i+1]) {
				sentences = append(sentences, text[start:i+1])
				j := i + 1
				for j < len(text) && isSpace(text[j]) {
					j++
				}
				start = j
				i = j - 1
			}
		}
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}
