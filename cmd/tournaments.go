package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pasek/chess-metrics/internal/report"
)

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "List the tournaments of the latest build",
	Args:  cobra.NoArgs,
	RunE:  runTournaments,
}

func runTournaments(cmd *cobra.Command, args []string) error {
	db, buildID, err := openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	if buildID == "" {
		fmt.Fprintln(os.Stdout, "No builds archived yet. Run 'chessmetrics build' first.")
		return nil
	}

	rows, err := db.ListTournaments(buildID)
	if err != nil {
		return fmt.Errorf("list tournaments: %w", err)
	}
	report.PrintTournaments(os.Stdout, rows)
	return nil
}
