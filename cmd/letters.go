package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ekshubina/ai-job-agent/internal/logger"
	"github.com/ekshubina/ai-job-agent/internal/pipeline"
)

var lettersCmd = &cobra.Command{
	Use:   "letters",
	Short: "Write application letters for the top-ranked scored postings",
	Run: func(cmd *cobra.Command, _ []string) {
		writeLetters(cmd)
	},
}

func init() {
	rootCmd.AddCommand(lettersCmd)

	lettersCmd.Flags().IntP("top-n", "n", 0, "number of letters to write (default from config)")
}

func writeLetters(cmd *cobra.Command) {
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
	composer := buildComposer(ctx, config, logger)

	stage := pipeline.NewLettersStage(st, composer, profiles, topN(cmd, config), config.Letters.Timeout, logger)
	if err := pipeline.New(logger, stage).Run(ctx); err != nil {
		logger.Fatal("letter generation failed", zap.Error(err))
	}
}
