package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/vocabtrainer/internal/api"
	"github.com/example/vocabtrainer/internal/backend"
	"github.com/example/vocabtrainer/internal/config"
	"github.com/example/vocabtrainer/internal/database"
)

var rootCmd = &cobra.Command{
	Use:          "vocabtrainer",
	Short:        "Vocabulary learning tracker and exam engine",
	Long:         "vocabtrainer tracks flashcard progress per topic and runs multiple choice vocabulary exams, over Telegram or from the command line.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("backend", "", "Backend to use: api or sql (overrides BACKEND)")
	rootCmd.PersistentFlags().String("api-url", "", "Base URL of the REST API (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().String("db-type", "", "SQL database type: sqlite or postgres (overrides DB_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "SQL data source name (overrides DB_DSN)")

	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(examsCmd)
	rootCmd.AddCommand(gradeCmd)
}

// loadConfig reads the environment, then applies the persistent flags on top
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Backend = v
	}
	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.APIBaseURL = v
	}
	if v, _ := cmd.Flags().GetString("db-type"); v != "" {
		cfg.DBType = v
	}
	if v, _ := cmd.Flags().GetString("db-dsn"); v != "" {
		cfg.DBDSN = v
	}
	return cfg
}

// openBackend connects to the configured collaborator
func openBackend(cfg *config.Config) (backend.Backend, error) {
	switch cfg.Backend {
	case config.BackendAPI:
		return api.New(cfg.APIBaseURL, api.WithTimeout(cfg.APITimeout)), nil
	case config.BackendSQL:
		store, err := database.Connect(cfg.DBType, cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
