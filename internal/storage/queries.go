package storage

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/pasek/chess-metrics/internal/model"
)

// BuildRecord describes one archived build run.
type BuildRecord struct {
	ID          string
	CreatedAt   string
	SourceFiles int
	Games       int
	Tournaments int
}

// InsertBuild records a build run header.
func (db *DB) InsertBuild(b BuildRecord) error {
	if b.CreatedAt == "" {
		b.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := db.conn.Exec(`
		INSERT INTO builds(id, created_at, source_files, games, tournaments)
		VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.CreatedAt, b.SourceFiles, b.Games, b.Tournaments,
	)
	return err
}

// LatestBuildID returns the most recently created build, or "" when the
// archive is empty.
func (db *DB) LatestBuildID() (string, error) {
	var id string
	err := db.conn.QueryRow(`SELECT id FROM builds ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}

// InsertTournament archives one finalized tournament with its standings and
// game list in a single transaction.
func (db *DB) InsertTournament(buildID string, group *model.TournamentGroup) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO tournaments(build_id, id, name, date, time_control, games, players)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		buildID, group.ID, group.Name, group.Date, string(group.TimeControl),
		len(group.Games), len(group.Players),
	)
	if err != nil {
		return fmt.Errorf("insert tournament %s: %w", group.ID, err)
	}

	pstmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO tournament_players(
			build_id, tournament_id, rank, player, games, score,
			wins, draws, losses, max_rating, avg_opponent_rating,
			avg_quality, avg_missed, performance
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer pstmt.Close()

	for rank, p := range group.Players {
		_, err = pstmt.Exec(
			buildID, group.ID, rank+1, p.Name, p.Games, p.Score,
			p.Wins, p.Draws, p.Losses, p.MaxRating, p.AvgOpponentRating,
			nullFloat(p.AvgQuality), nullFloat(p.AvgMissed), p.Performance,
		)
		if err != nil {
			return fmt.Errorf("insert player %s: %w", p.Name, err)
		}
	}

	gstmt, err := tx.Prepare(`
		INSERT INTO games(build_id, tournament_id, white, black,
			white_rating, black_rating, white_result, round, date)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer gstmt.Close()

	for i := range group.Games {
		g := &group.Games[i]
		_, err = gstmt.Exec(
			buildID, group.ID, g.White, g.Black,
			g.WhiteRating, g.BlackRating, g.WhiteResult, g.Round, g.Date,
		)
		if err != nil {
			return fmt.Errorf("insert game %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// InsertYearly archives the yearly rollup list.
func (db *DB) InsertYearly(buildID string, list []*model.YearlyAggregate) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO yearly(
			build_id, player, year, time_control, games, score,
			wins, draws, losses, avg_opponent_rating, tournaments, performance
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, y := range list {
		_, err = stmt.Exec(
			buildID, y.Player, y.Year, string(y.TimeControl), y.Games, y.Score,
			y.Wins, y.Draws, y.Losses, y.AvgOpponentRating, len(y.Tournaments), y.Performance,
		)
		if err != nil {
			return fmt.Errorf("insert yearly %s/%d: %w", y.Player, y.Year, err)
		}
	}
	return tx.Commit()
}

// InsertBestPerformances archives the best single-tournament list.
func (db *DB) InsertBestPerformances(buildID string, list []model.BestPerformance) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO best_performances(
			build_id, player, tournament_id, tournament_name,
			time_control, games, score, performance
		) VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range list {
		_, err = stmt.Exec(
			buildID, b.Player, b.TournamentID, b.TournamentName,
			string(b.TimeControl), b.Games, b.Score, b.Performance,
		)
		if err != nil {
			return fmt.Errorf("insert best %s/%s: %w", b.Player, b.TournamentID, err)
		}
	}
	return tx.Commit()
}

// TournamentRow is a list entry for the tournaments command.
type TournamentRow struct {
	ID          string
	Name        string
	Date        string
	TimeControl string
	Games       int
	Players     int
}

// ListTournaments returns a build's tournaments, newest date first.
func (db *DB) ListTournaments(buildID string) ([]TournamentRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, date, time_control, games, players
		FROM tournaments WHERE build_id = ?
		ORDER BY date DESC, id ASC`, buildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TournamentRow
	for rows.Next() {
		var t TournamentRow
		if err := rows.Scan(&t.ID, &t.Name, &t.Date, &t.TimeControl, &t.Games, &t.Players); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// PlayerRow is one standings entry.
type PlayerRow struct {
	Rank                int
	Player              string
	Games               int
	Score               float64
	Wins, Draws, Losses int
	MaxRating           float64
	AvgOpponentRating   float64
	AvgQuality          sql.NullFloat64
	AvgMissed           sql.NullFloat64
	Performance         float64
}

// GetStandings returns a tournament's players in standings order.
func (db *DB) GetStandings(buildID, tournamentID string) ([]PlayerRow, error) {
	rows, err := db.conn.Query(`
		SELECT rank, player, games, score, wins, draws, losses,
		       max_rating, avg_opponent_rating, avg_quality, avg_missed, performance
		FROM tournament_players
		WHERE build_id = ? AND tournament_id = ?
		ORDER BY rank ASC`, buildID, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerRow
	for rows.Next() {
		var p PlayerRow
		err := rows.Scan(&p.Rank, &p.Player, &p.Games, &p.Score, &p.Wins, &p.Draws, &p.Losses,
			&p.MaxRating, &p.AvgOpponentRating, &p.AvgQuality, &p.AvgMissed, &p.Performance)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PlayerTotalsRow is one player's archive-wide totals.
type PlayerTotalsRow struct {
	Player      string
	Tournaments int
	Games       int
	Score       float64
	MaxRating   float64
	BestPerf    float64
}

// ListPlayerTotals aggregates a build's players across tournaments.
func (db *DB) ListPlayerTotals(buildID string) ([]PlayerTotalsRow, error) {
	rows, err := db.conn.Query(`
		SELECT player, COUNT(1), SUM(games), SUM(score), MAX(max_rating), MAX(performance)
		FROM tournament_players WHERE build_id = ?
		GROUP BY player
		ORDER BY SUM(score) DESC, player ASC`, buildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerTotalsRow
	for rows.Next() {
		var p PlayerTotalsRow
		if err := rows.Scan(&p.Player, &p.Tournaments, &p.Games, &p.Score, &p.MaxRating, &p.BestPerf); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// YearlyRow is one yearly rollup entry.
type YearlyRow struct {
	Player            string
	Year              int
	TimeControl       string
	Games             int
	Score             float64
	AvgOpponentRating float64
	Tournaments       int
	Performance       float64
}

// ListYearly returns yearly entries for a build, optionally filtered by time
// control, sorted by performance descending.
func (db *DB) ListYearly(buildID, timeControl string) ([]YearlyRow, error) {
	query := `
		SELECT player, year, time_control, games, score, avg_opponent_rating, tournaments, performance
		FROM yearly WHERE build_id = ?`
	args := []any{buildID}
	if timeControl != "" {
		query += ` AND time_control = ?`
		args = append(args, timeControl)
	}
	query += ` ORDER BY performance DESC, player ASC`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []YearlyRow
	for rows.Next() {
		var y YearlyRow
		err := rows.Scan(&y.Player, &y.Year, &y.TimeControl, &y.Games, &y.Score,
			&y.AvgOpponentRating, &y.Tournaments, &y.Performance)
		if err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

// ListBest returns the best single-tournament performances for a build.
func (db *DB) ListBest(buildID string, limit int) ([]model.BestPerformance, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT player, tournament_id, tournament_name, time_control, games, score, performance
		FROM best_performances WHERE build_id = ?
		ORDER BY performance DESC, player ASC LIMIT ?`, buildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BestPerformance
	for rows.Next() {
		var b model.BestPerformance
		var tc string
		err := rows.Scan(&b.Player, &b.TournamentID, &b.TournamentName, &tc, &b.Games, &b.Score, &b.Performance)
		if err != nil {
			return nil, err
		}
		b.TimeControl = model.TimeControl(tc)
		out = append(out, b)
	}
	return out, rows.Err()
}

// nullFloat maps NaN (metric absent) to NULL.
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
