package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/portoedu/porti/internal/profile"
)

const (
	app = "porti"
)

type Config struct {
	Profile *profile.Profile `mapstructure:"profile"`
	Catalog *CatalogConfig   `mapstructure:"catalog"`
	Filters *FiltersConfig   `mapstructure:"filters"`
	Ranking *RankingConfig   `mapstructure:"ranking"`
	AI      *AIConfig        `mapstructure:"ai"`
}

type CatalogConfig struct {
	// File points to an external catalog JSON. The built-in catalog is used
	// when empty.
	File string `mapstructure:"file"`
}

type FiltersConfig struct {
	Categories     []string `mapstructure:"categories"`
	FeaturedOnly   bool     `mapstructure:"featured-only"`
	IncludeExpired bool     `mapstructure:"include-expired"`
	EligibleOnly   bool     `mapstructure:"eligible-only"`
	MinScore       int      `mapstructure:"min-score"`
}

type RankingConfig struct {
	Top           int   `mapstructure:"top"`
	FeaturedBoost *bool `mapstructure:"featured-boost"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "porti is a cli that scores and ranks educational opportunities against your profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is porti.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A .env file may carry GEMINI_API_KEY; its absence is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The catalog is embedded and every profile field is optional, so a
	// missing config file is not an error. A malformed one still is.
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

	return config, nil
}
