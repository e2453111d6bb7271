// Package ai declares the external model capabilities consumed by the
// pipeline stages. Implementations are injected at construction time so the
// stages never pay model startup cost and tests can substitute deterministic
// fakes.
package ai

import (
	"context"

	"github.com/ekshubina/ai-job-agent/internal/skills"
)

// Extractor turns free posting text into a set of normalized skill tokens.
type Extractor interface {
	ExtractSkills(ctx context.Context, text string) (*skills.Set, error)
}

// Generator produces prose from a prompt. Sampling may be stochastic; the
// pipeline does not require reproducible output.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
