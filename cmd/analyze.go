package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ekshubina/ai-job-agent/internal/logger"
	"github.com/ekshubina/ai-job-agent/internal/pipeline"
	"github.com/ekshubina/ai-job-agent/internal/skills"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score the latest raw postings against your skill profile",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func analyze(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	st := buildStore(config, logger)
	profiles := buildProfiles(config, logger)

	stage := pipeline.NewAnnotateStage(st, skills.NewKeywordExtractor(), profiles, 0, logger)
	if err := pipeline.New(logger, stage).Run(ctx); err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}
}
