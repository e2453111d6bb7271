package skills

import (
	"context"
	"strings"
)

// Vocabulary is the curated skill list matched against posting text. Slice
// order defines extraction order, so results are deterministic across runs.
var Vocabulary = []string{
	// Data science & machine learning
	"predictive modeling", "regression", "classification", "clustering", "nlp",
	"time-series analysis", "time series", "network analysis", "neural networks",
	"deep learning", "feature engineering", "hyperparameter tuning", "etl pipelines",
	"etl", "ml", "machine learning",

	// Programming & tools
	"python", "pandas", "numpy", "scikit-learn", "sklearn", "tensorflow", "sql",
	"jupyter", "tableau", "git", "github copilot", "copilot", "mcp",

	// Data extraction & processing
	"api integration", "restful api", "rest api", "web scraping", "data cleaning",
	"data preprocessing", "data enrichment",

	// Statistical analysis
	"hypothesis testing", "a/b testing", "ab testing", "statistical inference",
	"probability distributions", "bayesian methods", "bayesian",

	// Business intelligence
	"kpi development", "kpi", "data visualization", "business impact analysis",
	"risk assessment",

	// Soft skills often mentioned in job descriptions
	"problem-solving", "problem solving", "cross-functional collaboration",
	"distributed team", "stakeholder communication", "pitching", "presenting",
	"communication", "collaboration", "teamwork",
}

// KeywordExtractor extracts skills by substring-matching a vocabulary
// against the lowercased posting text. It is fully local and deterministic.
type KeywordExtractor struct {
	vocabulary []string
}

// NewKeywordExtractor returns an extractor over the given vocabulary, or the
// built-in one when none is provided.
func NewKeywordExtractor(vocabulary ...string) *KeywordExtractor {
	if len(vocabulary) == 0 {
		vocabulary = Vocabulary
	}
	return &KeywordExtractor{vocabulary: vocabulary}
}

// ExtractSkills returns the vocabulary entries mentioned in text, in
// vocabulary order.
func (e *KeywordExtractor) ExtractSkills(ctx context.Context, text string) (*Set, error) {
	found := NewSet()
	if text == "" {
		return found, nil
	}

	lowered := strings.ToLower(text)
	for _, skill := range e.vocabulary {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.Contains(lowered, skill) {
			found.Add(skill)
		}
	}

	return found, nil
}
