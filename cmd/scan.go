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

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Fetch a fresh batch of postings and store it as a raw artifact",
	Run: func(cmd *cobra.Command, _ []string) {
		scan(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("file", "f", "", "read postings from a local JSON file instead of the feed")
}

func scan(cmd *cobra.Command) {
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

	source, err := buildSource(cmd, config, logger)
	if err != nil {
		logger.Fatal("configuring the posting source", zap.Error(err))
	}

	stage := pipeline.NewScanStage(source, st, logger)
	if err := pipeline.New(logger, stage).Run(ctx); err != nil {
		logger.Fatal("scan failed", zap.Error(err))
	}
}
