package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ekshubina/ai-job-agent/internal/ai/gemini"
	"github.com/ekshubina/ai-job-agent/internal/feed"
	"github.com/ekshubina/ai-job-agent/internal/letters"
	"github.com/ekshubina/ai-job-agent/internal/logger"
	"github.com/ekshubina/ai-job-agent/internal/pipeline"
	"github.com/ekshubina/ai-job-agent/internal/profile"
	"github.com/ekshubina/ai-job-agent/internal/secrets"
	"github.com/ekshubina/ai-job-agent/internal/skills"
	"github.com/ekshubina/ai-job-agent/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: scan postings, score them, write letters for the top matches",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("file", "f", "", "read postings from a local JSON file instead of the feed")
	runCmd.Flags().IntP("top-n", "n", 0, "number of letters to write (default from config)")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the ai-job-agent", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	st := buildStore(config, logger)
	profiles := buildProfiles(config, logger)

	source, err := buildSource(cmd, config, logger)
	if err != nil {
		logger.Fatal("configuring the posting source", zap.Error(err))
	}

	composer := buildComposer(ctx, config, logger)

	stages := []pipeline.Stage{
		pipeline.NewScanStage(source, st, logger),
		pipeline.NewAnnotateStage(st, skills.NewKeywordExtractor(), profiles, 0, logger),
		pipeline.NewLettersStage(st, composer, profiles, topN(cmd, config), config.Letters.Timeout, logger),
	}

	if err := pipeline.New(logger, stages...).Run(ctx); err != nil {
		logger.Fatal("pipeline failed", zap.Error(err))
	}
}

func buildStore(config *Config, logger *zap.Logger) *store.Store {
	st, err := store.New(config.DataDir, logger)
	if err != nil {
		logger.Fatal("preparing the artifact store", zap.Error(err))
	}
	return st
}

func buildProfiles(config *Config, logger *zap.Logger) profile.Provider {
	return profile.NewFileProvider(config.ProfileFile, logger)
}

// buildSource picks the posting source: an explicit local file wins over the
// configured feed URL.
func buildSource(cmd *cobra.Command, config *Config, logger *zap.Logger) (pipeline.Source, error) {
	file := config.Feed.File
	if cmd.Flags().Changed("file") {
		file, _ = cmd.Flags().GetString("file")
	}

	if file != "" {
		logger.Debug("using file posting source", zap.String("file", file))
		return feed.NewFileSource(file), nil
	}

	if config.Feed.URL == "" {
		return nil, fmt.Errorf("no posting source configured: set feed.url or pass --file")
	}

	token := ""
	if config.Feed.TokenFile != "" {
		var err error
		token, err = secrets.Load(secrets.Source{
			Name: "feed token",
			File: config.Feed.TokenFile,
		})
		if err != nil {
			return nil, err
		}
	}

	client := feed.NewClient(config.Feed.URL, token, logger)
	if config.Feed.UserAgent != "" {
		client.UserAgent = config.Feed.UserAgent
	}

	return client, nil
}

// buildComposer wires the generation backend. A missing or broken backend
// is not fatal: letters fall back to a fixed error body.
func buildComposer(ctx context.Context, config *Config, logger *zap.Logger) *letters.Composer {
	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("letter generation degraded to placeholder bodies", zap.Error(err))
		return letters.NewComposer(nil, logger)
	}

	return letters.NewComposer(generator, logger)
}

func newGenerator(ctx context.Context, config *AIConfig, logger *zap.Logger) (*gemini.Generator, error) {
	if config == nil || config.Gemini == nil || config.Gemini.APIKeyFile == "" {
		return nil, fmt.Errorf("gemini is not configured (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)")
	}

	if config.Provider != "" && config.Provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model,
		gemini.WithTemperature(config.Gemini.Temperature),
		gemini.WithMaxOutputTokens(config.Gemini.MaxOutputTokens),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("letter generation backend ready",
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return generator, nil
}

func topN(cmd *cobra.Command, config *Config) int {
	if cmd.Flags().Changed("top-n") {
		n, _ := cmd.Flags().GetInt("top-n")
		return n
	}
	return config.Letters.TopN
}
