package skills

import (
	"context"
	"reflect"
	"testing"
)

func TestKeywordExtractor(t *testing.T) {
	extractor := NewKeywordExtractor()

	text := "We need a Data Analyst fluent in Python and SQL, with Tableau dashboards experience."

	found, err := extractor.ExtractSkills(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"python", "sql", "tableau"} {
		if !found.Has(want) {
			t.Fatalf("expected %q in %v", want, found.Values())
		}
	}
}

func TestKeywordExtractorDeterministicOrder(t *testing.T) {
	extractor := NewKeywordExtractor("python", "sql", "tableau")

	text := "tableau then sql then python, mentioned in reverse"

	first, err := extractor.ExtractSkills(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// extraction order follows the vocabulary, not the text
	if !reflect.DeepEqual(first.Values(), []string{"python", "sql", "tableau"}) {
		t.Fatalf("unexpected extraction order: %v", first.Values())
	}

	second, _ := extractor.ExtractSkills(context.Background(), text)
	if !reflect.DeepEqual(first.Values(), second.Values()) {
		t.Fatalf("extraction is not deterministic: %v vs %v", first.Values(), second.Values())
	}
}

func TestKeywordExtractorEmptyText(t *testing.T) {
	extractor := NewKeywordExtractor()

	found, err := extractor.ExtractSkills(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if found.Len() != 0 {
		t.Fatalf("expected empty result, got %v", found.Values())
	}
}

func TestKeywordExtractorCancelledContext(t *testing.T) {
	extractor := NewKeywordExtractor()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := extractor.ExtractSkills(ctx, "python and sql"); err == nil {
		t.Fatalf("expected context error")
	}
}
