package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekshubina/ai-job-agent/internal/ai"
	"github.com/ekshubina/ai-job-agent/internal/job"
	"github.com/ekshubina/ai-job-agent/internal/profile"
	"github.com/ekshubina/ai-job-agent/internal/skills"
	"github.com/ekshubina/ai-job-agent/internal/store"
)

const summarySkills = 5

// AnnotateStage enriches the latest raw posting batch with extracted skills
// and match scores, then persists the ranked batch as one scored artifact.
type AnnotateStage struct {
	store     *store.Store
	extractor ai.Extractor
	profiles  profile.Provider
	timeout   time.Duration
	logger    *zap.Logger
}

// NewAnnotateStage wires the stage. A nil extractor degrades every posting
// to an empty skill set and a zero score instead of failing the batch.
// timeout bounds each extraction call; zero disables the bound.
func NewAnnotateStage(st *store.Store, extractor ai.Extractor, profiles profile.Provider, timeout time.Duration, logger *zap.Logger) *AnnotateStage {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AnnotateStage{
		store:     st,
		extractor: extractor,
		profiles:  profiles,
		timeout:   timeout,
		logger:    logger,
	}
}

func (a *AnnotateStage) Name() string { return "annotate" }

func (a *AnnotateStage) Run(ctx context.Context) (*Outcome, error) {
	rawArtifact, err := a.store.Latest(store.Raw)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// A legitimate steady state: acquisition found nothing yet.
			return &Outcome{Empty: true, Reason: "no raw postings to process"}, nil
		}
		return nil, err
	}

	var postings []*job.Posting
	if err := a.store.Read(rawArtifact, &postings); err != nil {
		return nil, err
	}

	if a.profiles == nil {
		return nil, fmt.Errorf("profile provider is required before scoring")
	}
	prof, err := a.profiles.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtain skill profile: %w", err)
	}

	a.logger.Info("annotating postings",
		zap.String("artifact", rawArtifact.Name),
		zap.Int("postings", len(postings)),
		zap.Int("profile_skills", prof.Len()),
	)

	scored := &job.ScoredPostings{Items: make([]*job.Scored, 0, len(postings))}
	skipped := 0

	for _, posting := range postings {
		extracted, err := a.extract(ctx, posting)
		if err != nil {
			skipped++
			a.logger.Warn("skipping posting, extraction failed",
				zap.String("posting_id", posting.ID),
				zap.String("title", posting.Title),
				zap.Error(err),
			)
			continue
		}

		scored.Items = append(scored.Items, job.NewScored(posting, extracted, prof))
	}

	scored.Sort()

	artifact, err := a.store.Append(store.Scored, scored.Items)
	if err != nil {
		return nil, err
	}

	if skipped > 0 {
		a.logger.Warn("postings skipped during annotation", zap.Int("skipped", skipped))
	}

	a.summarize(scored)

	return &Outcome{Artifact: artifact, Produced: scored.Len(), Skipped: skipped}, nil
}

// extract runs the extraction capability on the posting text blob,
// description first, title appended. Each call is bounded by the stage
// timeout; a timeout surfaces as a per-posting error, not a batch failure.
func (a *AnnotateStage) extract(ctx context.Context, posting *job.Posting) (*skills.Set, error) {
	if a.extractor == nil {
		return skills.NewSet(), nil
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	blob := posting.Description + " " + posting.Title

	return a.extractor.ExtractSkills(ctx, blob)
}

// summarize logs the top ranked matches. Observational only.
func (a *AnnotateStage) summarize(scored *job.ScoredPostings) {
	for i, item := range scored.Top(3) {
		posting := item.Posting

		summary := item.ExtractedSkills
		if len(summary) > summarySkills {
			summary = summary[:summarySkills]
		}

		a.logger.Info("top match",
			zap.Int("rank", i+1),
			zap.String("title", posting.Title),
			zap.String("company", posting.Company),
			zap.String("location", posting.Location),
			zap.Float64("match_percentage", item.MatchPercentage),
			zap.Strings("skills", summary),
			zap.String("url", posting.JobURL),
		)
	}
}
