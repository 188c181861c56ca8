package news

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

//go:embed data/lexicon.tsv
var defaultLexicon string

const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"
)

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "none": true, "nobody": true,
	"nothing": true, "neither": true, "nor": true, "cannot": true,
	"don't": true, "doesn't": true, "didn't": true, "isn't": true, "aren't": true,
	"wasn't": true, "weren't": true, "won't": true, "wouldn't": true, "can't": true,
	"couldn't": true, "shouldn't": true, "hasn't": true, "haven't": true, "hadn't": true,
}

type Sentiment struct {
	Score       int     `json:"score"`
	Comparative float64 `json:"comparative"`
	Label       string  `json:"label"`
}

// SentimentScorer is a lexicon polarity scorer: each token or phrase
// contributes its valence, flipped when directly preceded by a negator.
type SentimentScorer struct {
	lexicon   map[string]int
	maxPhrase int
}

func NewSentimentScorer() *SentimentScorer {
	scorer, err := LoadLexicon(strings.NewReader(defaultLexicon))
	if err != nil {
		panic(fmt.Sprintf("embedded sentiment lexicon is invalid: %v", err))
	}
	return scorer
}

// LoadLexicon reads "entry<TAB>valence" lines, the AFINN file format. An
// entry may be a phrase of several words. Blank lines and lines starting
// with '#' are ignored.
func LoadLexicon(r io.Reader) (*SentimentScorer, error) {
	scorer := &SentimentScorer{lexicon: make(map[string]int), maxPhrase: 1}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sep := strings.LastIndexAny(line, " \t")
		if sep < 0 {
			return nil, fmt.Errorf("line %d: expected entry and valence", lineNo)
		}
		valence, err := strconv.Atoi(line[sep+1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid valence: %w", lineNo, err)
		}
		words := tokenize(line[:sep])
		if len(words) == 0 {
			return nil, fmt.Errorf("line %d: empty entry", lineNo)
		}

		scorer.lexicon[strings.Join(words, " ")] = valence
		scorer.maxPhrase = max(scorer.maxPhrase, len(words))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}

	return scorer, nil
}

func (s *SentimentScorer) Score(text string) Sentiment {
	tokens := tokenize(text)

	score := 0
	for i := 0; i < len(tokens); {
		valence, n := s.lookup(tokens[i:])
		if n == 0 {
			i++
			continue
		}
		if i > 0 && negators[tokens[i-1]] {
			valence = -valence
		}
		score += valence
		i += n
	}

	result := Sentiment{Score: score, Label: Label(score)}
	if len(tokens) > 0 {
		result.Comparative = float64(score) / float64(len(tokens))
	}
	return result
}

// lookup matches the longest lexicon entry at the start of tokens and
// returns its valence and length in tokens, or 0 tokens when none matches.
func (s *SentimentScorer) lookup(tokens []string) (int, int) {
	for n := min(s.maxPhrase, len(tokens)); n > 0; n-- {
		if valence, ok := s.lexicon[strings.Join(tokens[:n], " ")]; ok {
			return valence, n
		}
	}
	return 0, 0
}

// Label maps a score to a polarity. Scores in [-1, 1] are neutral.
func Label(score int) string {
	switch {
	case score > 1:
		return LabelPositive
	case score < -1:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

func tokenize(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), "’", "'")
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
}
