// Package ingest discovers and reads per-game statistics CSVs.
package ingest

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pasek/chess-metrics/internal/model"
)

// Discover lists the CSV files under dir, sorted by name. A missing directory
// is an empty input set, not an error.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Stem is the fallback tournament name for a source file: its base name
// without the extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// column aliases, normalized to lowercase with separators stripped.
var columnAliases = map[string]string{
	"white":        "white",
	"whiteplayer":  "white",
	"black":        "black",
	"blackplayer":  "black",
	"whiterating":  "white_rating",
	"whiteelo":     "white_rating",
	"blackrating":  "black_rating",
	"blackelo":     "black_rating",
	"whiteresult":  "white_result",
	"blackresult":  "black_result",
	"whitequality": "white_quality",
	"blackquality": "black_quality",
	"whitemissed":  "white_missed",
	"blackmissed":  "black_missed",
	"event":        "event",
	"site":         "site",
	"url":          "site",
	"round":        "round",
	"date":         "date",
	"whitemoves":   "white_moves",
	"blackmoves":   "black_moves",
}

// ReadFile parses one CSV into game records. Numeric fields are parsed
// defensively: malformed results and ratings become zero, absent move-quality
// metrics become NaN. Rows with the wrong shape are dropped, not fatal; only
// an unreadable file or header is an error.
func ReadFile(path string) ([]model.GameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(h)))
		if canonical, ok := columnAliases[key]; ok {
			cols[canonical] = i
		}
	}
	if _, ok := cols["white"]; !ok {
		return nil, fmt.Errorf("%s: no player name columns", path)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows of %s: %w", path, err)
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	games := make([]model.GameRecord, 0, len(rows))
	for _, row := range rows {
		g := model.GameRecord{
			White:        field(row, "white"),
			Black:        field(row, "black"),
			WhiteRating:  parseFloat(field(row, "white_rating")),
			BlackRating:  parseFloat(field(row, "black_rating")),
			WhiteQuality: parseOptFloat(field(row, "white_quality")),
			BlackQuality: parseOptFloat(field(row, "black_quality")),
			WhiteMissed:  parseOptFloat(field(row, "white_missed")),
			BlackMissed:  parseOptFloat(field(row, "black_missed")),
			Event:        field(row, "event"),
			SiteURL:      field(row, "site"),
			Round:        field(row, "round"),
			Date:         field(row, "date"),
			WhiteMoves:   parseInt(field(row, "white_moves")),
			BlackMoves:   parseInt(field(row, "black_moves")),
			SourceFile:   path,
		}
		g.WhiteResult = parseResult(field(row, "white_result"))
		if black := field(row, "black_result"); black != "" {
			g.BlackResult = parseResult(black)
		} else {
			g.BlackResult = 1 - g.WhiteResult
		}
		if g.White == "" && g.Black == "" {
			continue
		}
		games = append(games, g)
	}
	return games, nil
}

// parseResult accepts 0, 0.5, 1 and the 1/2 spelling; anything else is 0.
func parseResult(s string) float64 {
	switch s {
	case "1/2", "0.5", "½":
		return 0.5
	case "1":
		return 1
	default:
		v := parseFloat(s)
		if v == 1 || v == 0.5 {
			return v
		}
		return 0
	}
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseOptFloat keeps absence distinguishable from zero.
func parseOptFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
