package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pasek/chess-metrics/internal/config"
	"github.com/pasek/chess-metrics/internal/storage"
)

var (
	cfgPath string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "chessmetrics",
	Short: "Chess tournament metrics tool",
	Long:  "Ingest per-game chess statistics CSVs and build tournament standings, performance ratings, and yearly rollups.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite archive (overrides config)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(tournamentsCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(yearlyCmd)
	rootCmd.AddCommand(bestCmd)
}

// loadConfig resolves the effective config, applying the --db override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// openArchive opens the build archive and returns the latest build id.
func openArchive() (*storage.DB, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, "", fmt.Errorf("open storage: %w", err)
	}
	buildID, err := db.LatestBuildID()
	if err != nil {
		db.Close()
		return nil, "", fmt.Errorf("latest build: %w", err)
	}
	return db, buildID, nil
}
