package gemini

import (
	"context"
	"testing"
)

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), "   ", "gemini-2.5-flash"); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestGeneratorOptions(t *testing.T) {
	g := &Generator{temperature: defaultTemperature, maxTokens: defaultMaxTokens}

	WithTemperature(0.2)(g)
	WithMaxOutputTokens(128)(g)

	if g.temperature != 0.2 {
		t.Fatalf("temperature option not applied: %v", g.temperature)
	}
	if g.maxTokens != 128 {
		t.Fatalf("max tokens option not applied: %v", g.maxTokens)
	}

	// zero values keep the defaults
	WithTemperature(0)(g)
	WithMaxOutputTokens(0)(g)

	if g.temperature != 0.2 || g.maxTokens != 128 {
		t.Fatalf("zero option values must not override: %v %v", g.temperature, g.maxTokens)
	}
}

func TestGenerateContentUninitialized(t *testing.T) {
	var g *Generator

	if _, err := g.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected error for uninitialized generator")
	}

	if g.Model() != "" {
		t.Fatalf("nil generator should have no model")
	}
}

func TestGenerateContentEmptyPrompt(t *testing.T) {
	g := &Generator{client: nil}

	if _, err := g.GenerateContent(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
}
