package model

import "math"

// TimeControl is the pacing category a game was played at.
type TimeControl string

const (
	Classical TimeControl = "classical"
	Rapid     TimeControl = "rapid"
	Blitz     TimeControl = "blitz"
)

// ParseTimeControl maps a free-form label to a TimeControl, defaulting to classical.
func ParseTimeControl(s string) TimeControl {
	switch s {
	case "rapid":
		return Rapid
	case "blitz":
		return Blitz
	default:
		return Classical
	}
}

// Color is the side a player had in one game.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// ---- Raw rows emitted by the ingest layer ----

// GameRecord is one played game as read from a source CSV. Immutable once read.
// Result fields are 0, 0.5, or 1 and sum to 1 across colors. Quality-index and
// missed-points metrics are NaN when the source row carried no value; zero is
// a real measurement, not "missing".
type GameRecord struct {
	White, Black               string
	WhiteRating, BlackRating   float64
	WhiteResult, BlackResult   float64
	WhiteQuality, BlackQuality float64
	WhiteMissed, BlackMissed   float64

	Event   string
	SiteURL string
	Round   string
	Date    string // YYYY.MM.DD

	WhiteMoves, BlackMoves int

	SourceFile string
}

// Player returns the name of the player holding the given color.
func (g *GameRecord) Player(c Color) string {
	if c == Black {
		return g.Black
	}
	return g.White
}

// Rating returns the rating of the player holding the given color.
func (g *GameRecord) Rating(c Color) float64 {
	if c == Black {
		return g.BlackRating
	}
	return g.WhiteRating
}

// Result returns the game result from the given color's side.
func (g *GameRecord) Result(c Color) float64 {
	if c == Black {
		return g.BlackResult
	}
	return g.WhiteResult
}

// Quality returns the quality index for the given color (NaN when absent).
func (g *GameRecord) Quality(c Color) float64 {
	if c == Black {
		return g.BlackQuality
	}
	return g.WhiteQuality
}

// Missed returns the missed-points metric for the given color (NaN when absent).
func (g *GameRecord) Missed(c Color) float64 {
	if c == Black {
		return g.BlackMissed
	}
	return g.WhiteMissed
}

// ---- Aggregated entities ----

// PlayerAggregate holds running totals for one player within one tournament.
// Mutated while the tournament's games are folded in, then finalized once.
// Invariants after folding: Wins+Draws+Losses == Games, 0 <= Score <= Games.
type PlayerAggregate struct {
	Name string

	Games               int
	Score               float64
	Wins, Draws, Losses int

	MaxRating float64

	OpponentRatingSum float64
	// OpponentRatings keeps the actual sequence for the iterative estimator.
	OpponentRatings []float64

	QualitySum   float64
	QualityGames int
	MissedSum    float64
	MissedGames  int

	WhiteQualitySum   float64
	WhiteQualityGames int
	BlackQualitySum   float64
	BlackQualityGames int
	WhiteMissedSum    float64
	WhiteMissedGames  int
	BlackMissedSum    float64
	BlackMissedGames  int

	// Derived at finalization.
	AvgOpponentRating float64
	AvgQuality        float64 // NaN when no game carried the metric
	AvgMissed         float64
	AvgWhiteQuality   float64
	AvgBlackQuality   float64
	AvgWhiteMissed    float64
	AvgBlackMissed    float64
	Performance       float64
}

// NewPlayerAggregate returns an empty aggregate with all derived averages
// marked absent.
func NewPlayerAggregate(name string) *PlayerAggregate {
	nan := math.NaN()
	return &PlayerAggregate{
		Name:            name,
		AvgQuality:      nan,
		AvgMissed:       nan,
		AvgWhiteQuality: nan,
		AvgBlackQuality: nan,
		AvgWhiteMissed:  nan,
		AvgBlackMissed:  nan,
	}
}

// TournamentGroup owns every game and player aggregate of one tournament at
// one time control. Never mutated after finalization.
type TournamentGroup struct {
	ID          string // slug plus time-control suffix; unique across controls
	Name        string
	TimeControl TimeControl
	Date        string // date of the first game seen
	SourceFile  string

	Games   []GameRecord
	Players []*PlayerAggregate // standings order once finalized

	Summary map[string]MetricSummary
}

// MetricSummary is the dispersion of one metric across a tournament.
type MetricSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// YearlyAggregate is a player's pooled performance across every tournament of
// one year at one time control.
type YearlyAggregate struct {
	Player      string
	Year        int
	TimeControl TimeControl

	Games               int
	Score               float64
	Wins, Draws, Losses int

	OpponentRatingSum float64
	OpponentRatings   []float64
	Tournaments       map[string]struct{} // distinct contributing tournament IDs

	AvgOpponentRating float64
	Performance       float64
}

// BestPerformance is one player's showing in a single tournament, kept for the
// best-performances list.
type BestPerformance struct {
	Player         string      `json:"player"`
	TournamentID   string      `json:"tournamentId"`
	TournamentName string      `json:"tournamentName"`
	TimeControl    TimeControl `json:"timeControl"`
	Games          int         `json:"games"`
	Score          float64     `json:"score"`
	Performance    float64     `json:"performance"`
}

// Participation is one tournament entry on a player's profile.
type Participation struct {
	TournamentID   string      `json:"tournamentId"`
	TournamentName string      `json:"tournamentName"`
	TimeControl    TimeControl `json:"timeControl"`
	Date           string      `json:"date"`
	Games          int         `json:"games"`
	Score          float64     `json:"score"`
	Performance    float64     `json:"performance"`
}

// PlayerProfile is the cross-tournament view of one player.
type PlayerProfile struct {
	Name      string  `json:"name"`
	MaxRating float64 `json:"maxRating"`

	Games  int     `json:"games"`
	Score  float64 `json:"score"`
	Wins   int     `json:"wins"`
	Draws  int     `json:"draws"`
	Losses int     `json:"losses"`

	AvgQuality float64 `json:"avgQuality"`
	AvgMissed  float64 `json:"avgMissed"`

	Participations []Participation `json:"tournaments"`
}
