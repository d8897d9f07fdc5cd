package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pasek/chess-metrics/internal/report"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Show per-player totals across the latest build",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func runPlayers(cmd *cobra.Command, args []string) error {
	db, buildID, err := openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	if buildID == "" {
		fmt.Fprintln(os.Stdout, "No builds archived yet. Run 'chessmetrics build' first.")
		return nil
	}

	rows, err := db.ListPlayerTotals(buildID)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	report.PrintPlayerTotals(os.Stdout, rows)
	return nil
}
