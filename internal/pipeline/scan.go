package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekshubina/ai-job-agent/internal/store"
)

// ScanStage pulls a fresh batch of postings from the acquisition source and
// persists it as a raw artifact.
type ScanStage struct {
	source Source
	store  *store.Store
	logger *zap.Logger
}

func NewScanStage(source Source, st *store.Store, logger *zap.Logger) *ScanStage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanStage{source: source, store: st, logger: logger}
}

func (s *ScanStage) Name() string { return "scan" }

func (s *ScanStage) Run(ctx context.Context) (*Outcome, error) {
	if s.source == nil {
		return nil, fmt.Errorf("posting source is not configured")
	}

	postings, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch postings: %w", err)
	}

	if postings.Len() == 0 {
		return &Outcome{Empty: true, Reason: "no new postings found"}, nil
	}

	artifact, err := s.store.Append(store.Raw, postings.Items)
	if err != nil {
		return nil, err
	}

	s.logger.Info("saved raw postings",
		zap.Int("count", postings.Len()),
		zap.String("artifact", artifact.Name),
	)

	return &Outcome{Artifact: artifact, Produced: postings.Len()}, nil
}
