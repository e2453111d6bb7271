package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "ai-job-agent"
)

type Config struct {
	DataDir     string         `mapstructure:"data-dir"`
	ProfileFile string         `mapstructure:"profile-file"`
	Feed        *FeedConfig    `mapstructure:"feed"`
	Letters     *LettersConfig `mapstructure:"letters"`
	AI          *AIConfig      `mapstructure:"ai"`
}

type FeedConfig struct {
	URL       string `mapstructure:"url"`
	File      string `mapstructure:"file"`
	TokenFile string `mapstructure:"token-file"`
	UserAgent string `mapstructure:"user-agent"`
}

type LettersConfig struct {
	TopN    int           `mapstructure:"top-n"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile      string  `mapstructure:"api-key-file"`
	Model           string  `mapstructure:"model"`
	Temperature     float64 `mapstructure:"temperature"`
	MaxOutputTokens int     `mapstructure:"max-output-tokens"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ai-job-agent scores job postings against your skill profile and drafts application letters for the best matches",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A local .env is optional.
	_ = godotenv.Load()

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("feed.token-file", "JOB_FEED_TOKEN_FILE"); err != nil {
		log.Fatalf("binding JOB_FEED_TOKEN_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ai-job-agent.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("data-dir", "data")
	viper.SetDefault("profile-file", "data/resume_skills.json")
	viper.SetDefault("letters.top-n", 3)
	viper.SetDefault("letters.timeout", time.Minute)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless explicitly requested, but a config
	// file parsed with error always stops the run.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Feed == nil {
		config.Feed = &FeedConfig{}
	}
	if config.Letters == nil {
		config.Letters = &LettersConfig{TopN: 3, Timeout: time.Minute}
	}

	return config, nil
}
