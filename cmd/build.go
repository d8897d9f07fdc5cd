package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pasek/chess-metrics/internal/aggregator"
	"github.com/pasek/chess-metrics/internal/config"
	"github.com/pasek/chess-metrics/internal/ingest"
	"github.com/pasek/chess-metrics/internal/logging"
	"github.com/pasek/chess-metrics/internal/model"
	"github.com/pasek/chess-metrics/internal/output"
	"github.com/pasek/chess-metrics/internal/rating"
	"github.com/pasek/chess-metrics/internal/report"
	"github.com/pasek/chess-metrics/internal/storage"
	"github.com/pasek/chess-metrics/internal/summary"
	"github.com/pasek/chess-metrics/internal/yearly"
)

var (
	buildOut       string
	buildTC        string
	buildOptimizer bool
)

var buildCmd = &cobra.Command{
	Use:   "build [dir...]",
	Short: "Ingest game CSVs and rebuild all datasets",
	Long: `Read every CSV under the configured input directories (plus any
directories given as arguments), group games into tournaments, compute
per-player aggregates and performance ratings, and rewrite the JSON
datasets and the SQLite archive.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildOut, "out", "", "output directory for JSON datasets (overrides config)")
	buildCmd.Flags().StringVar(&buildTC, "time-control", "", "time control for directories given as arguments")
	buildCmd.Flags().BoolVar(&buildOptimizer, "optimizer", false, "use the iterative rating optimizer")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	inputs := append([]config.InputDir(nil), cfg.Inputs...)
	for _, dir := range args {
		tc := buildTC
		if tc == "" {
			tc = cfg.DefaultTimeControl
		}
		inputs = append(inputs, config.InputDir{Path: dir, TimeControl: tc})
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input directories (configure inputs or pass them as arguments)")
	}

	var est rating.Estimator
	if buildOptimizer || cfg.UseOptimizer {
		est = rating.WithOptimizer()
	} else {
		est = rating.Default()
	}

	merged := make(map[string]*model.TournamentGroup)
	var files, games int
	for _, in := range inputs {
		tc := in.TimeControl
		if tc == "" {
			tc = cfg.DefaultTimeControl
		}
		agg := aggregator.New(model.ParseTimeControl(tc), est)

		paths, err := ingest.Discover(in.Path)
		if err != nil {
			logger.Warn("skipping input directory", "dir", in.Path, "error", err)
			continue
		}
		for _, path := range paths {
			records, err := ingest.ReadFile(path)
			if err != nil {
				// A malformed file never aborts the build.
				logger.Warn("skipping source file", "file", path, "error", err)
				continue
			}
			files++
			games += len(records)
			aggregator.Merge(merged, agg.Group(records, ingest.Stem(path)))
		}
	}

	finalizer := aggregator.New(model.ParseTimeControl(cfg.DefaultTimeControl), est)
	for _, err := range finalizer.FinalizeAll(merged) {
		logger.Warn("dropping tournament", "error", err)
	}
	for _, group := range merged {
		group.Summary = summary.Build(group)
	}

	rollup := yearly.Rollup(merged, est, time.Now().Year())
	best := yearly.BestPerformances(merged)

	outDir := buildOut
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	writer := &output.Writer{Dir: outDir}
	if err := writer.WriteAll(merged, best, yearly.Partition(rollup)); err != nil {
		return fmt.Errorf("write datasets: %w", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	buildID := uuid.NewString()
	if err := db.InsertBuild(storage.BuildRecord{
		ID:          buildID,
		SourceFiles: files,
		Games:       games,
		Tournaments: len(merged),
	}); err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	for _, group := range merged {
		if err := db.InsertTournament(buildID, group); err != nil {
			return fmt.Errorf("archive tournament %s: %w", group.ID, err)
		}
	}
	if err := db.InsertYearly(buildID, rollup); err != nil {
		return fmt.Errorf("archive yearly rollup: %w", err)
	}
	if err := db.InsertBestPerformances(buildID, best); err != nil {
		return fmt.Errorf("archive best performances: %w", err)
	}

	logger.Info("build complete",
		"build", buildID, "files", files, "games", games,
		"tournaments", len(merged), "out", outDir)
	report.PrintBuildSummary(os.Stdout, buildID, files, games, merged)
	return nil
}
