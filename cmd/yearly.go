package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pasek/chess-metrics/internal/report"
)

var yearlyTC string

var yearlyCmd = &cobra.Command{
	Use:   "yearly",
	Short: "Show the yearly performance rollup",
	Args:  cobra.NoArgs,
	RunE:  runYearly,
}

func init() {
	yearlyCmd.Flags().StringVar(&yearlyTC, "tc", "", "filter by time control (classical|rapid|blitz)")
}

func runYearly(cmd *cobra.Command, args []string) error {
	db, buildID, err := openArchive()
	if err != nil {
		return err
	}
	defer db.Close()

	if buildID == "" {
		fmt.Fprintln(os.Stdout, "No builds archived yet. Run 'chessmetrics build' first.")
		return nil
	}

	rows, err := db.ListYearly(buildID, yearlyTC)
	if err != nil {
		return fmt.Errorf("list yearly: %w", err)
	}
	report.PrintYearly(os.Stdout, rows)
	return nil
}
