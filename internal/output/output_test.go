package output

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasek/chess-metrics/internal/model"
)

func testGroups() map[string]*model.TournamentGroup {
	anna := model.NewPlayerAggregate("Anna")
	anna.Games, anna.Score, anna.Wins = 2, 1.5, 1
	anna.Draws = 1
	anna.MaxRating = 2100
	anna.AvgOpponentRating = 1950
	anna.QualitySum, anna.QualityGames = 183, 2
	anna.AvgQuality = 91.5
	anna.Performance = 2234.567

	ben := model.NewPlayerAggregate("Ben")
	ben.Games, ben.Score, ben.Losses = 2, 0.5, 1
	ben.Draws = 1
	ben.Performance = 1700

	return map[string]*model.TournamentGroup{
		"city-open-classical": {
			ID:          "city-open-classical",
			Name:        "City Open",
			Date:        "2025.03.01",
			TimeControl: model.Classical,
			Games: []model.GameRecord{
				{White: "Anna", Black: "Ben", WhiteRating: 2100, WhiteResult: 1, Round: "1", Date: "2025.03.01",
					WhiteQuality: 95, BlackQuality: 88,
					WhiteMissed: math.NaN(), BlackMissed: math.NaN()},
			},
			Players: []*model.PlayerAggregate{anna, ben},
			Summary: map[string]model.MetricSummary{"rating": {Mean: 2100, Median: 2100, Min: 2100, Max: 2100}},
		},
	}
}

func readJSON(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir}

	best := []model.BestPerformance{
		{Player: "Anna", TournamentID: "city-open-classical", TournamentName: "City Open",
			TimeControl: model.Classical, Games: 3, Score: 2.5, Performance: 2300},
	}
	yearlyByTC := map[model.TimeControl][]*model.YearlyAggregate{
		model.Classical: {{
			Player: "Anna", Year: 2025, TimeControl: model.Classical,
			Games: 5, Score: 4, AvgOpponentRating: 1950,
			Tournaments: map[string]struct{}{"city-open-classical": {}},
			Performance: 2250,
		}},
	}

	require.NoError(t, w.WriteAll(testGroups(), best, yearlyByTC))

	var players []playerJSON
	readJSON(t, dir, "players.json", &players)
	require.Len(t, players, 2)
	assert.Equal(t, "Anna", players[0].Name, "sorted by score desc")
	assert.Equal(t, 2234.57, players[0].Performance)
	assert.Equal(t, 1700.0, players[1].Performance)
	require.NotNil(t, players[0].AvgQuality)
	assert.Equal(t, 91.5, *players[0].AvgQuality)
	assert.Nil(t, players[0].AvgMissed, "absent metric serialized as null")
	require.Len(t, players[0].Tournaments, 1)
	assert.Equal(t, "city-open-classical", players[0].Tournaments[0].TournamentID)

	var tournaments []tournamentJSON
	readJSON(t, dir, "tournaments.json", &tournaments)
	require.Len(t, tournaments, 1)
	tr := tournaments[0]
	assert.Equal(t, "City Open", tr.Name)
	assert.Equal(t, 1, tr.GameCount)
	require.Len(t, tr.Standings, 2)
	assert.Equal(t, 1, tr.Standings[0].Rank)
	assert.Equal(t, 2234.57, tr.Standings[0].Performance, "rounded to 2 decimals")
	require.Len(t, tr.Games, 1)
	require.NotNil(t, tr.Games[0].WhiteQuality)
	assert.Nil(t, tr.Games[0].WhiteMissed)
	assert.Contains(t, tr.Summary, "rating")

	var gotBest []model.BestPerformance
	readJSON(t, dir, "best.json", &gotBest)
	require.Len(t, gotBest, 1)
	assert.Equal(t, "Anna", gotBest[0].Player)

	var yearlyOut map[string][]yearlyJSON
	readJSON(t, dir, "yearly.json", &yearlyOut)
	assert.Contains(t, yearlyOut, "classical")
	assert.Contains(t, yearlyOut, "blitz", "every control keyed even when empty")
	require.Len(t, yearlyOut["classical"], 1)
	assert.Equal(t, 1, yearlyOut["classical"][0].Tournaments)
}

func TestWriteAll_PlayerPerformanceIsBestShowing(t *testing.T) {
	weak := model.NewPlayerAggregate("Anna")
	weak.Games, weak.Score, weak.Draws = 2, 1, 2
	weak.Performance = 1950
	strong := model.NewPlayerAggregate("Anna")
	strong.Games, strong.Score, strong.Wins = 2, 2, 2
	strong.Performance = 2410.123

	groups := map[string]*model.TournamentGroup{
		"spring-classical": {
			ID: "spring-classical", Name: "Spring", Date: "2025.04.01",
			TimeControl: model.Classical, Players: []*model.PlayerAggregate{weak},
		},
		"summer-classical": {
			ID: "summer-classical", Name: "Summer", Date: "2025.06.01",
			TimeControl: model.Classical, Players: []*model.PlayerAggregate{strong},
		},
	}

	dir := t.TempDir()
	w := &Writer{Dir: dir}
	require.NoError(t, w.WriteAll(groups, nil, nil))

	var players []playerJSON
	readJSON(t, dir, "players.json", &players)
	require.Len(t, players, 1)
	assert.Equal(t, 2410.12, players[0].Performance)
	require.Len(t, players[0].Tournaments, 2)
}

func TestWriteAll_OverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir}

	require.NoError(t, w.WriteAll(testGroups(), nil, nil))
	require.NoError(t, w.WriteAll(map[string]*model.TournamentGroup{}, nil, nil))

	var players []playerJSON
	readJSON(t, dir, "players.json", &players)
	assert.Empty(t, players, "second run fully overwrites the datasets")
}
