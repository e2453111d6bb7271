package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekshubina/ai-job-agent/internal/job"
	"github.com/ekshubina/ai-job-agent/internal/letters"
	"github.com/ekshubina/ai-job-agent/internal/profile"
	"github.com/ekshubina/ai-job-agent/internal/store"
)

const DefaultTopN = 3

// LettersStage writes an application letter for each of the top ranked
// scored postings.
type LettersStage struct {
	store    *store.Store
	composer *letters.Composer
	profiles profile.Provider
	topN     int
	timeout  time.Duration
	logger   *zap.Logger
}

// NewLettersStage wires the stage. topN bounds the number of letters per
// run; values below one fall back to DefaultTopN. timeout bounds each
// generation call; zero disables the bound.
func NewLettersStage(st *store.Store, composer *letters.Composer, profiles profile.Provider, topN int, timeout time.Duration, logger *zap.Logger) *LettersStage {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LettersStage{
		store:    st,
		composer: composer,
		profiles: profiles,
		topN:     topN,
		timeout:  timeout,
		logger:   logger,
	}
}

func (l *LettersStage) Name() string { return "letters" }

func (l *LettersStage) Run(ctx context.Context) (*Outcome, error) {
	scoredArtifact, err := l.store.Latest(store.Scored)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no scored postings: run the annotation stage first")
		}
		return nil, err
	}

	var items []*job.Scored
	if err := l.store.Read(scoredArtifact, &items); err != nil {
		return nil, err
	}

	if l.profiles == nil {
		return nil, fmt.Errorf("skill profile is required to personalize letters")
	}
	prof, err := l.profiles.Load(ctx)
	if err != nil {
		if errors.Is(err, profile.ErrNoProfile) {
			return nil, fmt.Errorf("skill profile is required to personalize letters: %w", err)
		}
		return nil, err
	}

	// The scored artifact is pre-sorted; the head is the best match.
	scored := &job.ScoredPostings{Items: items}
	selected := scored.Top(l.topN)

	l.logger.Info("generating letters",
		zap.String("artifact", scoredArtifact.Name),
		zap.Int("selected", len(selected)),
		zap.Int("top_n", l.topN),
	)

	docs := make([]store.Document, 0, len(selected))
	skipped := 0

	for i, item := range selected {
		rank := i + 1

		body, err := l.compose(ctx, item, prof.Len())
		if err != nil {
			skipped++
			l.logger.Warn("skipping letter, generation failed",
				zap.Int("rank", rank),
				zap.String("title", item.Posting.Title),
				zap.Error(err),
			)
			continue
		}

		name := letters.DocumentName(rank, item.Posting.Title, item.Posting.Company)
		docs = append(docs, store.Document{Name: name, Body: letters.Render(item, body)})

		l.logger.Info("letter written",
			zap.Int("rank", rank),
			zap.String("file", name),
			zap.Float64("match_percentage", item.MatchPercentage),
		)
	}

	if len(docs) == 0 {
		return &Outcome{Empty: true, Reason: "no letters generated", Skipped: skipped}, nil
	}

	artifact, err := l.store.AppendDocuments(store.Letters, docs)
	if err != nil {
		return nil, err
	}

	if skipped > 0 {
		l.logger.Warn("letters skipped", zap.Int("skipped", skipped))
	}

	return &Outcome{Artifact: artifact, Produced: len(docs), Skipped: skipped}, nil
}

func (l *LettersStage) compose(ctx context.Context, item *job.Scored, profileSize int) (string, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	return l.composer.Compose(ctx, item, profileSize)
}
