// Package profile manages the user's declared skill set. The profile is
// created once and reused by every pipeline run; stages receive a Provider
// so interactive input never happens inside core logic.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/ekshubina/ai-job-agent/internal/skills"
)

// ErrNoProfile is returned by Load when no profile has been created yet.
var ErrNoProfile = errors.New("skill profile not found")

// Provider supplies the user's skill profile.
type Provider interface {
	// GetOrCreate returns the profile, creating it first if necessary.
	GetOrCreate(ctx context.Context) (*skills.Set, error)
	// Load returns the existing profile or ErrNoProfile.
	Load(ctx context.Context) (*skills.Set, error)
}

// Static is a programmatic provider wrapping a supplied skill set.
type Static struct {
	set *skills.Set
}

func NewStatic(tokens ...string) *Static {
	return &Static{set: skills.NewSet(tokens...)}
}

func (s *Static) GetOrCreate(context.Context) (*skills.Set, error) { return s.set, nil }

func (s *Static) Load(context.Context) (*skills.Set, error) {
	if s.set.Len() == 0 {
		return nil, ErrNoProfile
	}
	return s.set, nil
}

// FileProvider persists the profile as a JSON list of lowercase tokens. On
// first use it prompts the user once and saves the answer; subsequent runs
// reuse the file without re-prompting.
type FileProvider struct {
	path   string
	logger *zap.Logger

	// ask is swapped out in tests.
	ask func() (string, error)
}

func NewFileProvider(path string, logger *zap.Logger) *FileProvider {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileProvider{
		path:   path,
		logger: logger,
		ask:    askInteractive,
	}
}

func (p *FileProvider) Load(context.Context) (*skills.Set, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", p.path, ErrNoProfile)
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var tokens []string
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", p.path, err)
	}

	set := skills.NewSet(tokens...)
	p.logger.Debug("loaded skill profile", zap.Int("skills", set.Len()))

	return set, nil
}

func (p *FileProvider) GetOrCreate(ctx context.Context) (*skills.Set, error) {
	set, err := p.Load(ctx)
	if err == nil {
		return set, nil
	}
	if !errors.Is(err, ErrNoProfile) {
		return nil, err
	}

	answer, err := p.ask()
	if err != nil {
		return nil, fmt.Errorf("prompt for skills: %w", err)
	}

	set = skills.NewSet(strings.Split(answer, ",")...)
	if set.Len() == 0 {
		return nil, errors.New("skill profile must not be empty")
	}

	if err := p.save(set); err != nil {
		return nil, err
	}

	p.logger.Info("saved skill profile",
		zap.String("file", p.path),
		zap.Int("skills", set.Len()),
	)

	return set, nil
}

func (p *FileProvider) save(set *skills.Set) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	data, err := json.MarshalIndent(set.Values(), "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	return nil
}

func askInteractive() (string, error) {
	prompt := promptui.Prompt{
		Label: "Your skills, comma separated (example: python, sql, excel, tableau)",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("at least one skill is required")
			}
			return nil
		},
	}

	return prompt.Run()
}
