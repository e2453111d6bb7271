// Package letters builds application letter prompts, post-processes model
// output and renders the final letter documents.
package letters

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ekshubina/ai-job-agent/internal/ai"
	"github.com/ekshubina/ai-job-agent/internal/job"
	"github.com/ekshubina/ai-job-agent/internal/logger"
)

// anchor closes the prompt; the model continues the sentence and
// post-processing keeps only the continuation.
const anchor = "I am excited to apply because"

// promptTemplate is fixed on purpose: the same narrative strengths anchor
// the style of every letter regardless of sampling variance.
const promptTemplate = `Write a professional cover letter for a {{TITLE}} position at {{COMPANY}} in {{LOCATION}}.

I am a Data Analyst with strong skills in {{SKILLS}}. My background includes predictive modeling, ETL pipelines, and stakeholder communication.

` + anchor

// fallbackBody is written when no generation backend is configured. The
// batch still completes; only the prose degrades.
const fallbackBody = "Error: generation model is not available."

const (
	maxPromptSkills = 7
	maxTitleRunes   = 50
	maxCompanyRunes = 30

	defaultMaxLogLength = 200
)

// Composer turns a scored posting into a finished letter body.
type Composer struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

// NewComposer creates a Composer. A nil generator is allowed and degrades
// every letter to a fixed error body instead of failing the batch.
func NewComposer(generator ai.Generator, log *zap.Logger) *Composer {
	if log == nil {
		log = zap.NewNop()
	}

	return &Composer{
		generator: generator,
		logger:    log,
		maxLogLen: defaultMaxLogLength,
	}
}

// BuildPrompt constructs the generation prompt deterministically from the
// posting: title, company, location and the first skills in extraction
// order.
func BuildPrompt(scored *job.Scored) string {
	posting := scored.Posting

	title := posting.Title
	if title == "" {
		title = "Data Analyst"
	}
	company := posting.Company
	if company == "" {
		company = "the company"
	}
	location := posting.Location
	if location == "" {
		location = "Remote"
	}

	promptSkills := scored.ExtractedSkills
	if len(promptSkills) > maxPromptSkills {
		promptSkills = promptSkills[:maxPromptSkills]
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{TITLE}}", title)
	prompt = strings.ReplaceAll(prompt, "{{COMPANY}}", company)
	prompt = strings.ReplaceAll(prompt, "{{LOCATION}}", location)
	prompt = strings.ReplaceAll(prompt, "{{SKILLS}}", strings.Join(promptSkills, ", "))

	return prompt
}

// Compose generates the letter body for a scored posting. profileSize feeds
// the signature block.
func (c *Composer) Compose(ctx context.Context, scored *job.Scored, profileSize int) (string, error) {
	if c.generator == nil {
		return withSignature(fallbackBody, profileSize, scored.MatchPercentage), nil
	}

	prompt := BuildPrompt(scored)

	c.logger.Debug("letter generation request",
		zap.String("posting_id", scored.Posting.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, c.maxLogLen)),
	)

	generated, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	c.logger.Debug("letter generation response",
		zap.String("posting_id", scored.Posting.ID),
		zap.Int("response_length", utf8.RuneCountInString(generated)),
		zap.String("response_preview", logger.TruncateForLog(generated, c.maxLogLen)),
	)

	body := extractContinuation(generated)

	return withSignature(body, profileSize, scored.MatchPercentage), nil
}

// extractContinuation keeps the text following the prompt's trailing anchor
// phrase and truncates it at the first paragraph break.
func extractContinuation(generated string) string {
	body := generated
	if idx := strings.Index(generated, anchor); idx >= 0 {
		body = generated[idx+len(anchor):]
	}
	body = strings.TrimSpace(body)

	if idx := strings.Index(body, "\n\n"); idx >= 0 {
		body = body[:idx]
	}

	return strings.TrimSpace(body)
}

func withSignature(body string, profileSize int, match float64) string {
	return fmt.Sprintf(`%s

Best regards,
[Your Name]
Data Analyst | %d key skills | %.1f%% match`, body, profileSize, match)
}

// Render produces the final letter document: a metadata header followed by
// the body.
func Render(scored *job.Scored, body string) []byte {
	posting := scored.Posting

	var builder strings.Builder
	fmt.Fprintf(&builder, "Job: %s\n", posting.Title)
	fmt.Fprintf(&builder, "Company: %s | %s\n", posting.Company, posting.Location)
	fmt.Fprintf(&builder, "Match: %.1f%%\n", scored.MatchPercentage)
	fmt.Fprintf(&builder, "URL: %s\n", posting.JobURL)
	builder.WriteString(strings.Repeat("=", 60) + "\n\n")
	builder.WriteString(body)

	return []byte(builder.String())
}

// DocumentName builds a filesystem-safe, collision-resistant letter file
// name from the rank and the sanitized title and company.
func DocumentName(rank int, title, company string) string {
	return fmt.Sprintf("letter_%d_%s_%s.txt",
		rank,
		sanitize(title, maxTitleRunes),
		sanitize(company, maxCompanyRunes),
	)
}

// sanitize caps the value at limit runes and replaces every non-alphanumeric
// rune with an underscore.
func sanitize(value string, limit int) string {
	runes := []rune(value)
	if len(runes) > limit {
		runes = runes[:limit]
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			runes[i] = '_'
		}
	}

	return string(runes)
}
