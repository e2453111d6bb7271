package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekshubina/ai-job-agent/internal/job"
	"github.com/ekshubina/ai-job-agent/internal/letters"
	"github.com/ekshubina/ai-job-agent/internal/profile"
	"github.com/ekshubina/ai-job-agent/internal/store"
)

// fakeGenerator mimics a sampling backend: it echoes the anchor so the
// composer extracts a continuation, and can fail for chosen companies.
type fakeGenerator struct {
	failFor string
	calls   int
}

func (f *fakeGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.calls++
	if f.failFor != "" && strings.Contains(prompt, f.failFor) {
		return "", errors.New("generation backend exploded")
	}
	return prompt + " this role fits my background.\n\nIgnored trailer.", nil
}

func (f *fakeGenerator) Model() string { return "fake-model" }

func seedScored(t *testing.T, st *store.Store, n int) []*job.Scored {
	t.Helper()

	items := make([]*job.Scored, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, &job.Scored{
			Posting: &job.Posting{
				ID:       fmt.Sprintf("p%d", i+1),
				Title:    fmt.Sprintf("Analyst %d", i+1),
				Company:  fmt.Sprintf("Company%d", i+1),
				Location: "Remote",
				JobURL:   fmt.Sprintf("https://example.com/p%d", i+1),
			},
			ExtractedSkills: []string{"python", "sql"},
			MatchPercentage: float64(100 - i*10),
		})
	}

	_, err := st.Append(store.Scored, items)
	require.NoError(t, err)

	return items
}

func newLettersStage(st *store.Store, generator *fakeGenerator, topN int) *LettersStage {
	composer := letters.NewComposer(generator, zap.NewNop())
	return NewLettersStage(st, composer, profile.NewStatic("python", "sql", "tableau"), topN, 0, zap.NewNop())
}

func TestLettersTopThreeOfFive(t *testing.T) {
	st, err := store.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	seedScored(t, st, 5)

	generator := &fakeGenerator{}
	stage := newLettersStage(st, generator, 3)

	outcome, err := stage.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, outcome.Produced)
	require.Equal(t, 3, generator.calls)

	docs, err := st.Documents(outcome.Artifact)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	for i, doc := range docs {
		require.True(t, strings.HasPrefix(doc.Name, fmt.Sprintf("letter_%d_", i+1)), doc.Name)
		require.Contains(t, string(doc.Body), "this role fits my background.")
		require.Contains(t, string(doc.Body), "Best regards,")
		require.NotContains(t, string(doc.Body), "Ignored trailer")
	}

	// head of the ranked collection comes first
	require.Contains(t, docs[0].Name, "Analyst_1")
}

func TestLettersFewerRecordsThanTopN(t *testing.T) {
	st, err := store.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	seedScored(t, st, 2)

	stage := newLettersStage(st, &fakeGenerator{}, 3)

	outcome, err := stage.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, outcome.Produced)

	docs, err := st.Documents(outcome.Artifact)
	require.NoError(t, err)
	require.Len(t, docs, 2)
}

func TestLettersGenerationFailureIsIsolated(t *testing.T) {
	st, err := store.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	seedScored(t, st, 3)

	generator := &fakeGenerator{failFor: "Company2"}
	stage := newLettersStage(st, generator, 3)

	outcome, err := stage.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, outcome.Produced)
	require.Equal(t, 1, outcome.Skipped)
	require.Equal(t, 3, generator.calls)

	docs, err := st.Documents(outcome.Artifact)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, doc := range docs {
		require.NotContains(t, doc.Name, "Company2")
	}
}

func TestLettersWithoutScoredArtifact(t *testing.T) {
	st, err := store.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	stage := newLettersStage(st, &fakeGenerator{}, 3)

	_, err = stage.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "annotation stage first")
}

func TestLettersWithoutProfile(t *testing.T) {
	st, err := store.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	seedScored(t, st, 3)

	composer := letters.NewComposer(&fakeGenerator{}, zap.NewNop())
	stage := NewLettersStage(st, composer, profile.NewStatic(), 3, 0, zap.NewNop())

	_, err = stage.Run(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, profile.ErrNoProfile)
}

func TestLettersDefaultTopN(t *testing.T) {
	st, err := store.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	seedScored(t, st, 5)

	stage := newLettersStage(st, &fakeGenerator{}, 0)

	outcome, err := stage.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, DefaultTopN, outcome.Produced)
}
