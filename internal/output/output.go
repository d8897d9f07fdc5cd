// Package output serializes build results to the display-ready JSON datasets.
// Every file is fully overwritten on each run.
package output

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/pasek/chess-metrics/internal/model"
	"github.com/pasek/chess-metrics/internal/summary"
)

// Writer writes the JSON datasets into one directory.
type Writer struct {
	Dir string
}

// WriteAll writes players.json, tournaments.json, best.json, and yearly.json.
func (w *Writer) WriteAll(
	groups map[string]*model.TournamentGroup,
	best []model.BestPerformance,
	yearlyByTC map[model.TimeControl][]*model.YearlyAggregate,
) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := w.writeJSON("players.json", buildPlayers(groups)); err != nil {
		return err
	}
	if err := w.writeJSON("tournaments.json", buildTournaments(groups)); err != nil {
		return err
	}
	if err := w.writeJSON("best.json", best); err != nil {
		return err
	}
	if err := w.writeJSON("yearly.json", buildYearly(yearlyByTC)); err != nil {
		return err
	}
	return nil
}

func (w *Writer) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ---- players.json ----

type playerJSON struct {
	Name      string  `json:"name"`
	MaxRating float64 `json:"maxRating"`

	Games  int     `json:"games"`
	Score  float64 `json:"score"`
	Wins   int     `json:"wins"`
	Draws  int     `json:"draws"`
	Losses int     `json:"losses"`

	// Performance is the best single-tournament estimate.
	Performance float64 `json:"performance"`

	AvgQuality *float64 `json:"avgQuality"`
	AvgMissed  *float64 `json:"avgMissed"`

	Tournaments []model.Participation `json:"tournaments"`
}

func buildPlayers(groups map[string]*model.TournamentGroup) []playerJSON {
	type totals struct {
		playerJSON
		qualitySum   float64
		qualityGames int
		missedSum    float64
		missedGames  int
	}
	byName := make(map[string]*totals)
	order := make([]string, 0)

	ids := sortedIDs(groups)
	for _, id := range ids {
		group := groups[id]
		for _, p := range group.Players {
			t, ok := byName[p.Name]
			if !ok {
				t = &totals{playerJSON: playerJSON{Name: p.Name}}
				byName[p.Name] = t
				order = append(order, p.Name)
			}
			t.Games += p.Games
			t.Score += p.Score
			t.Wins += p.Wins
			t.Draws += p.Draws
			t.Losses += p.Losses
			if p.MaxRating > t.MaxRating {
				t.MaxRating = p.MaxRating
			}
			t.qualitySum += p.QualitySum
			t.qualityGames += p.QualityGames
			t.missedSum += p.MissedSum
			t.missedGames += p.MissedGames
			t.Tournaments = append(t.Tournaments, model.Participation{
				TournamentID:   group.ID,
				TournamentName: group.Name,
				TimeControl:    group.TimeControl,
				Date:           group.Date,
				Games:          p.Games,
				Score:          p.Score,
				Performance:    summary.Round2(p.Performance),
			})
		}
	}

	out := make([]playerJSON, 0, len(order))
	for _, name := range order {
		t := byName[name]
		best := math.Inf(-1)
		for _, part := range t.Tournaments {
			if part.Performance > best {
				best = part.Performance
			}
		}
		t.Performance = best
		if t.qualityGames > 0 {
			t.AvgQuality = roundPtr(t.qualitySum / float64(t.qualityGames))
		}
		if t.missedGames > 0 {
			t.AvgMissed = roundPtr(t.missedSum / float64(t.missedGames))
		}
		out = append(out, t.playerJSON)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ---- tournaments.json ----

type standingJSON struct {
	Rank              int      `json:"rank"`
	Player            string   `json:"player"`
	Games             int      `json:"games"`
	Score             float64  `json:"score"`
	Wins              int      `json:"wins"`
	Draws             int      `json:"draws"`
	Losses            int      `json:"losses"`
	MaxRating         float64  `json:"maxRating"`
	AvgOpponentRating float64  `json:"avgOpponentRating"`
	AvgQuality        *float64 `json:"avgQuality"`
	AvgMissed         *float64 `json:"avgMissed"`
	AvgQualityWhite   *float64 `json:"avgQualityWhite"`
	AvgQualityBlack   *float64 `json:"avgQualityBlack"`
	AvgMissedWhite    *float64 `json:"avgMissedWhite"`
	AvgMissedBlack    *float64 `json:"avgMissedBlack"`
	Performance       float64  `json:"performance"`
}

type gameJSON struct {
	White        string   `json:"white"`
	Black        string   `json:"black"`
	WhiteRating  float64  `json:"whiteRating"`
	BlackRating  float64  `json:"blackRating"`
	WhiteResult  float64  `json:"whiteResult"`
	BlackResult  float64  `json:"blackResult"`
	WhiteQuality *float64 `json:"whiteQuality"`
	BlackQuality *float64 `json:"blackQuality"`
	WhiteMissed  *float64 `json:"whiteMissed"`
	BlackMissed  *float64 `json:"blackMissed"`
	Round        string   `json:"round"`
	Date         string   `json:"date"`
}

type tournamentJSON struct {
	ID          string                         `json:"id"`
	Name        string                         `json:"name"`
	Date        string                         `json:"date"`
	TimeControl model.TimeControl              `json:"timeControl"`
	GameCount   int                            `json:"gameCount"`
	PlayerCount int                            `json:"playerCount"`
	Standings   []standingJSON                 `json:"standings"`
	Games       []gameJSON                     `json:"games"`
	Summary     map[string]model.MetricSummary `json:"summary"`
}

func buildTournaments(groups map[string]*model.TournamentGroup) []tournamentJSON {
	out := make([]tournamentJSON, 0, len(groups))
	for _, id := range sortedIDs(groups) {
		group := groups[id]
		t := tournamentJSON{
			ID:          group.ID,
			Name:        group.Name,
			Date:        group.Date,
			TimeControl: group.TimeControl,
			GameCount:   len(group.Games),
			PlayerCount: len(group.Players),
			Summary:     group.Summary,
		}
		for rank, p := range group.Players {
			t.Standings = append(t.Standings, standingJSON{
				Rank:              rank + 1,
				Player:            p.Name,
				Games:             p.Games,
				Score:             p.Score,
				Wins:              p.Wins,
				Draws:             p.Draws,
				Losses:            p.Losses,
				MaxRating:         p.MaxRating,
				AvgOpponentRating: summary.Round2(p.AvgOpponentRating),
				AvgQuality:        optPtr(p.AvgQuality),
				AvgMissed:         optPtr(p.AvgMissed),
				AvgQualityWhite:   optPtr(p.AvgWhiteQuality),
				AvgQualityBlack:   optPtr(p.AvgBlackQuality),
				AvgMissedWhite:    optPtr(p.AvgWhiteMissed),
				AvgMissedBlack:    optPtr(p.AvgBlackMissed),
				Performance:       summary.Round2(p.Performance),
			})
		}
		for i := range group.Games {
			g := &group.Games[i]
			t.Games = append(t.Games, gameJSON{
				White:        g.White,
				Black:        g.Black,
				WhiteRating:  g.WhiteRating,
				BlackRating:  g.BlackRating,
				WhiteResult:  g.WhiteResult,
				BlackResult:  g.BlackResult,
				WhiteQuality: optPtr(g.WhiteQuality),
				BlackQuality: optPtr(g.BlackQuality),
				WhiteMissed:  optPtr(g.WhiteMissed),
				BlackMissed:  optPtr(g.BlackMissed),
				Round:        g.Round,
				Date:         g.Date,
			})
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ---- yearly.json ----

type yearlyJSON struct {
	Player            string  `json:"player"`
	Year              int     `json:"year"`
	Games             int     `json:"games"`
	Score             float64 `json:"score"`
	Wins              int     `json:"wins"`
	Draws             int     `json:"draws"`
	Losses            int     `json:"losses"`
	AvgOpponentRating float64 `json:"avgOpponentRating"`
	Tournaments       int     `json:"tournaments"`
	Performance       float64 `json:"performance"`
}

func buildYearly(byTC map[model.TimeControl][]*model.YearlyAggregate) map[string][]yearlyJSON {
	out := make(map[string][]yearlyJSON, len(byTC))
	for _, tc := range []model.TimeControl{model.Classical, model.Rapid, model.Blitz} {
		entries := make([]yearlyJSON, 0, len(byTC[tc]))
		for _, y := range byTC[tc] {
			entries = append(entries, yearlyJSON{
				Player:            y.Player,
				Year:              y.Year,
				Games:             y.Games,
				Score:             y.Score,
				Wins:              y.Wins,
				Draws:             y.Draws,
				Losses:            y.Losses,
				AvgOpponentRating: summary.Round2(y.AvgOpponentRating),
				Tournaments:       len(y.Tournaments),
				Performance:       summary.Round2(y.Performance),
			})
		}
		out[string(tc)] = entries
	}
	return out
}

func sortedIDs(groups map[string]*model.TournamentGroup) []string {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func optPtr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return roundPtr(v)
}

func roundPtr(v float64) *float64 {
	r := summary.Round2(v)
	return &r
}
