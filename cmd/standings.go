package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pasek/chess-metrics/internal/report"
)

var standingsCmd = &cobra.Command{
	Use:   "standings <tournament-id>",
	Short: "Show one tournament's standings",
	Args:  cobra.ExactArgs(1),
	RunE:  runStandings,
}

func runStandings(cmd *cobra.Command, args []string) error {
	db, buildID, err := openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	if buildID == "" {
		fmt.Fprintln(os.Stdout, "No builds archived yet. Run 'chessmetrics build' first.")
		return nil
	}

	players, err := db.GetStandings(buildID, args[0])
	if err != nil {
		return fmt.Errorf("get standings: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintf(os.Stdout, "No tournament %q in the latest build. Run 'chessmetrics tournaments' to list ids.\n", args[0])
		return nil
	}
	report.PrintStandings(os.Stdout, players)
	return nil
}
