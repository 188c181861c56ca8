package summary

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	fallbackSentences      = 3
	fallbackMinSentenceLen = 20
	fallbackLongLen        = 100
	fallbackCutLen         = 200
	fallbackShortLen       = 50
)

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// Fallback builds a summary without a model: the first three sentences of
// the content that are longer than 20 characters. Long results are cut to
// 200 characters; when the content yields too little, a generic line built
// from the title is returned instead.
func Fallback(title, content string) string {
	picked := make([]string, 0, fallbackSentences)
	for _, piece := range sentenceBreak.Split(content, -1) {
		if len(picked) == fallbackSentences {
			break
		}
		piece = strings.TrimSpace(piece)
		if utf8.RuneCountInString(piece) > fallbackMinSentenceLen {
			picked = append(picked, piece)
		}
	}

	summary := strings.Join(picked, ". ")
	length := utf8.RuneCountInString(summary)

	if length > fallbackLongLen {
		return truncateRunes(summary, fallbackCutLen) + "..."
	}
	if length < fallbackShortLen {
		return title + " - This article provides important information about current events. " +
			"Please read the full article for complete details and context."
	}
	return summary
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
