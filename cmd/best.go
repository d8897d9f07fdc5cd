package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pasek/chess-metrics/internal/report"
)

var bestLimit int

var bestCmd = &cobra.Command{
	Use:   "best",
	Short: "Show the best single-tournament performances",
	Args:  cobra.NoArgs,
	RunE:  runBest,
}

func init() {
	bestCmd.Flags().IntVar(&bestLimit, "limit", 25, "number of entries to show")
}

func runBest(cmd *cobra.Command, args []string) error {
	db, buildID, err := openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	if buildID == "" {
		fmt.Fprintln(os.Stdout, "No builds archived yet. Run 'chessmetrics build' first.")
		return nil
	}

	rows, err := db.ListBest(buildID, bestLimit)
	if err != nil {
		return fmt.Errorf("list best performances: %w", err)
	}
	report.PrintBest(os.Stdout, rows)
	return nil
}
