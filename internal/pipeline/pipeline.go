// Package pipeline sequences the matching stages: scan (acquisition edge),
// annotate (skill extraction + scoring) and letters (generation). Stages
// run to completion one after another; an empty outcome short-circuits the
// run.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekshubina/ai-job-agent/internal/job"
	"github.com/ekshubina/ai-job-agent/internal/logger"
	"github.com/ekshubina/ai-job-agent/internal/store"
)

// Source is the acquisition collaborator edge: anything that yields a batch
// of posting records.
type Source interface {
	Fetch(ctx context.Context) (*job.Postings, error)
}

// Outcome describes the result of one stage run.
type Outcome struct {
	Artifact store.Artifact
	Produced int
	Skipped  int
	Empty    bool
	Reason   string
}

// Stage is one pipeline phase consuming one artifact kind and producing the
// next.
type Stage interface {
	Name() string
	Run(ctx context.Context) (*Outcome, error)
}

// Pipeline runs stages sequentially.
type Pipeline struct {
	stages []Stage
	logger *zap.Logger
}

func New(logger *zap.Logger, stages ...Stage) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{stages: stages, logger: logger}
}

// Run executes every stage in order. An empty stage outcome stops the run
// with a user-visible reason; a stage error aborts it.
func (p *Pipeline) Run(ctx context.Context) error {
	runLogger := p.logger.With(zap.String("run_id", uuid.NewString()))

	for _, stage := range p.stages {
		stageLogger := logger.WithStage(runLogger, stage.Name())
		stageLogger.Info("starting stage")

		outcome, err := stage.Run(ctx)
		if err != nil {
			return fmt.Errorf("stage %s: %w", stage.Name(), err)
		}

		if outcome.Empty {
			stageLogger.Info("stopping the run", zap.String("reason", outcome.Reason))
			return nil
		}

		fields := []zap.Field{
			zap.Int("produced", outcome.Produced),
			zap.String("artifact", outcome.Artifact.Name),
		}
		if outcome.Skipped > 0 {
			fields = append(fields, zap.Int("skipped", outcome.Skipped))
		}
		stageLogger.Info("stage finished", fields...)
	}

	return nil
}
