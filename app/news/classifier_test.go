package news

import (
	"reflect"
	"testing"

	"github.com/lysyi3m/news-comb/app/sources"
)

func testCategories() []sources.Category {
	return []sources.Category{
		{
			Name:     "sports",
			Keywords: []string{"cricket", "football", "match", "team", "world cup", "premier league"},
			Fallback: []string{"cricket", "football", "match"},
		},
		{
			Name:     "culture",
			Keywords: []string{"art", "museum", "exhibition"},
		},
		{
			Name:     "politics",
			Keywords: []string{"election", "minister", "parliament"},
			Fallback: []string{"election", "government"},
		},
	}
}

func newTestClassifier(t *testing.T, config ClassifierConfig) *Classifier {
	t.Helper()
	classifier, err := NewClassifier(testCategories(), config)
	if err != nil {
		t.Fatalf("Failed to create classifier: %v", err)
	}
	return classifier
}

func TestClassifyWordBoundary(t *testing.T) {
	classifier := newTestClassifier(t, ClassifierConfig{})

	// "art" inside "smart" must not count, leaving a single short match.
	result := classifier.Classify("A smart museum opens", "", "")
	if len(result) != 0 {
		t.Errorf("Expected no categories, got %v", result)
	}

	result = classifier.Classify("Art on show at the museum", "", "")
	if !reflect.DeepEqual(result, []string{"culture"}) {
		t.Errorf("Expected [culture], got %v", result)
	}
}

func TestClassifyThreshold(t *testing.T) {
	classifier := newTestClassifier(t, ClassifierConfig{})

	tests := []struct {
		name     string
		title    string
		body     string
		expected []string
	}{
		{"single short keyword rejected", "Minister visits village", "", []string{}},
		{"two keywords accepted", "Minister speaks in parliament", "", []string{"politics"}},
		{"single strong keyword accepted", "Premier League resumes", "", []string{"sports"}},
		{"keywords across title and body", "Cricket", "The team travels tomorrow", []string{"sports"}},
		{"case insensitive", "CRICKET TEAM", "", []string{"sports"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.Classify(tt.title, tt.body, "")
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestClassifySourcePriorAndRanking(t *testing.T) {
	classifier := newTestClassifier(t, ClassifierConfig{})

	// Three sports matches outrank the single prior on politics.
	result := classifier.Classify("Cricket team wins the match", "", "politics")
	if !reflect.DeepEqual(result, []string{"sports", "politics"}) {
		t.Errorf("Expected [sports politics], got %v", result)
	}

	// Prior plus two politics matches outranks two sports matches.
	result = classifier.Classify("Minister at parliament cricket match", "", "politics")
	if !reflect.DeepEqual(result, []string{"politics", "sports"}) {
		t.Errorf("Expected [politics sports], got %v", result)
	}

	// Source category is kept even without keyword support.
	result = classifier.Classify("Weather update", "", "politics")
	if !reflect.DeepEqual(result, []string{"politics"}) {
		t.Errorf("Expected [politics], got %v", result)
	}
}

func TestClassifyTruncatesToMaxCategories(t *testing.T) {
	classifier := newTestClassifier(t, ClassifierConfig{MaxCategories: 2})

	result := classifier.Classify(
		"Cricket team art museum minister parliament exhibition", "", "")
	if len(result) != 2 {
		t.Fatalf("Expected 2 categories, got %v", result)
	}
	if result[0] != "culture" {
		t.Errorf("Expected culture first with three matches, got %v", result)
	}
}

func TestClassifyFallback(t *testing.T) {
	classifier := newTestClassifier(t, ClassifierConfig{})

	result := classifier.Classify("Football fans gather", "", "")
	if !reflect.DeepEqual(result, []string{"sports"}) {
		t.Errorf("Expected fallback [sports], got %v", result)
	}

	result = classifier.Classify("Government football plan", "", "")
	if !reflect.DeepEqual(result, []string{"sports", "politics"}) {
		t.Errorf("Expected fallback [sports politics], got %v", result)
	}

	// Fallback only looks at the title.
	result = classifier.Classify("Evening news", "football highlights", "")
	if len(result) != 0 {
		t.Errorf("Expected no categories from body-only fallback terms, got %v", result)
	}

	// Fallback never overrides a non-empty result.
	result = classifier.Classify("Football fans gather", "", "culture")
	if !reflect.DeepEqual(result, []string{"culture"}) {
		t.Errorf("Expected [culture], got %v", result)
	}
}

func TestClassifyFallbackRespectsMaxCategories(t *testing.T) {
	classifier := newTestClassifier(t, ClassifierConfig{MaxCategories: 1})

	result := classifier.Classify("Government football plan", "", "")
	if !reflect.DeepEqual(result, []string{"sports"}) {
		t.Errorf("Expected fallback capped to [sports], got %v", result)
	}
}

func TestClassifyDefaultStrongKeywordLength(t *testing.T) {
	classifier := newTestClassifier(t, ClassifierConfig{})

	if classifier.config.StrongKeywordLength != DefaultStrongKeywordLength {
		t.Errorf("Expected strong keyword length %d, got %d", DefaultStrongKeywordLength, classifier.config.StrongKeywordLength)
	}

	result := classifier.Classify("Evening bulletin", "football results", "")
	if len(result) != 0 {
		t.Errorf("Expected lone short keyword to be rejected, got %v", result)
	}

	result = classifier.Classify("Premier League resumes", "", "")
	if !reflect.DeepEqual(result, []string{"sports"}) {
		t.Errorf("Expected lone long keyword to be accepted, got %v", result)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	classifier := newTestClassifier(t, ClassifierConfig{})

	first := classifier.Classify("Minister opens art exhibition at museum before election", "cricket team", "sports")
	for i := 0; i < 20; i++ {
		again := classifier.Classify("Minister opens art exhibition at museum before election", "cricket team", "sports")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Expected identical results, got %v and %v", first, again)
		}
	}
}

func TestClassifyConfigurableThreshold(t *testing.T) {
	classifier := newTestClassifier(t, ClassifierConfig{MinMatches: 3, StrongKeywordLength: 20})

	result := classifier.Classify("Minister speaks in parliament", "", "")
	if len(result) != 0 {
		t.Errorf("Expected two matches to be rejected with MinMatches=3, got %v", result)
	}

	result = classifier.Classify("Premier League resumes", "", "")
	if len(result) != 0 {
		t.Errorf("Expected 14 character keyword to be rejected with StrongKeywordLength=20, got %v", result)
	}
}

func TestClassifyDefaultTaxonomy(t *testing.T) {
	registry, err := sources.LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	classifier, err := NewClassifier(registry.Categories(), ClassifierConfig{})
	if err != nil {
		t.Fatal(err)
	}

	result := classifier.Classify("Cricket World Cup Final Today", "", "")
	if len(result) == 0 || result[0] != "sports" {
		t.Errorf("Expected sports first, got %v", result)
	}

	result = classifier.Classify("New Smartphone Launched", "", "")
	if len(result) != 0 {
		t.Errorf("Expected no categories for a single short keyword, got %v", result)
	}
}

func TestNewClassifierRequiresCategories(t *testing.T) {
	if _, err := NewClassifier(nil, ClassifierConfig{}); err == nil {
		t.Error("Expected error for empty taxonomy")
	}
}
