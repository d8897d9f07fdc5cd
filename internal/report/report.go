// Package report renders archive query results as terminal tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pasek/chess-metrics/internal/model"
	"github.com/pasek/chess-metrics/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintTournaments prints the tournament list of one build.
func PrintTournaments(w io.Writer, rows []storage.TournamentRow) {
	table := newTable(w)
	table.Header("ID", "NAME", "DATE", "TC", "GAMES", "PLAYERS")
	for _, t := range rows {
		table.Append(t.ID, t.Name, t.Date, t.TimeControl,
			strconv.Itoa(t.Games), strconv.Itoa(t.Players))
	}
	table.Render()
}

// PrintStandings prints one tournament's player standings.
func PrintStandings(w io.Writer, players []storage.PlayerRow) {
	table := newTable(w)
	table.Header("#", "PLAYER", "G", "PTS", "W", "D", "L", "RATING", "AVG_OPP", "QUALITY", "MISSED", "PERF")
	for _, p := range players {
		quality := "—"
		if p.AvgQuality.Valid {
			quality = fmt.Sprintf("%.2f", p.AvgQuality.Float64)
		}
		missed := "—"
		if p.AvgMissed.Valid {
			missed = fmt.Sprintf("%.2f", p.AvgMissed.Float64)
		}
		table.Append(
			strconv.Itoa(p.Rank),
			p.Player,
			strconv.Itoa(p.Games),
			fmt.Sprintf("%.1f", p.Score),
			strconv.Itoa(p.Wins),
			strconv.Itoa(p.Draws),
			strconv.Itoa(p.Losses),
			fmt.Sprintf("%.0f", p.MaxRating),
			fmt.Sprintf("%.0f", p.AvgOpponentRating),
			quality,
			missed,
			fmt.Sprintf("%.0f", p.Performance),
		)
	}
	table.Render()
}

// PrintPlayerTotals prints the archive-wide per-player overview.
func PrintPlayerTotals(w io.Writer, players []storage.PlayerTotalsRow) {
	table := newTable(w)
	table.Header("PLAYER", "EVENTS", "G", "PTS", "RATING", "BEST_PERF")
	for _, p := range players {
		table.Append(
			p.Player,
			strconv.Itoa(p.Tournaments),
			strconv.Itoa(p.Games),
			fmt.Sprintf("%.1f", p.Score),
			fmt.Sprintf("%.0f", p.MaxRating),
			fmt.Sprintf("%.0f", p.BestPerf),
		)
	}
	table.Render()
}

// PrintYearly prints yearly rollup entries.
func PrintYearly(w io.Writer, rows []storage.YearlyRow) {
	table := newTable(w)
	table.Header("PLAYER", "YEAR", "TC", "G", "PTS", "AVG_OPP", "EVENTS", "PERF")
	for _, y := range rows {
		table.Append(
			y.Player,
			strconv.Itoa(y.Year),
			y.TimeControl,
			strconv.Itoa(y.Games),
			fmt.Sprintf("%.1f", y.Score),
			fmt.Sprintf("%.0f", y.AvgOpponentRating),
			strconv.Itoa(y.Tournaments),
			fmt.Sprintf("%.0f", y.Performance),
		)
	}
	table.Render()
}

// PrintBest prints the best single-tournament performances.
func PrintBest(w io.Writer, rows []model.BestPerformance) {
	table := newTable(w)
	table.Header("PLAYER", "TOURNAMENT", "TC", "G", "PTS", "PERF")
	for _, b := range rows {
		table.Append(
			b.Player,
			b.TournamentName,
			string(b.TimeControl),
			strconv.Itoa(b.Games),
			fmt.Sprintf("%.1f", b.Score),
			fmt.Sprintf("%.0f", b.Performance),
		)
	}
	table.Render()
}

// PrintBuildSummary prints the end-of-build overview line and tournament table.
func PrintBuildSummary(w io.Writer, buildID string, files, games int, groups map[string]*model.TournamentGroup) {
	fmt.Fprintf(w, "\nBuild %s  |  Files: %d  |  Games: %d  |  Tournaments: %d\n\n",
		buildID, files, games, len(groups))

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	table := newTable(w)
	table.Header("TOURNAMENT", "TC", "GAMES", "PLAYERS", "DATE")
	for _, id := range ids {
		group := groups[id]
		table.Append(group.Name, string(group.TimeControl),
			strconv.Itoa(len(group.Games)), strconv.Itoa(len(group.Players)), group.Date)
	}
	table.Render()
}
