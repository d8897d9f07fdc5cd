// Package yearly re-aggregates tournament games by (player, year,
// time-control), independent of tournament boundaries.
package yearly

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/pasek/chess-metrics/internal/model"
	"github.com/pasek/chess-metrics/internal/rating"
)

const (
	// MinGames is the minimum sample size for a yearly bucket.
	MinGames = 5
	// MinBestGames is the lower threshold for the single-tournament best list.
	MinBestGames = 3
)

// yearToken matches a standalone 4-digit 20xx token; boundaries keep longer
// digit runs from yielding a bogus year.
var yearToken = regexp.MustCompile(`\b20\d{2}\b`)

// ResolveYear finds the year of a tournament: the first-game date field
// (YYYY.MM.DD), else a 20xx token in the tournament identity, else the
// fallback (normally the current calendar year).
func ResolveYear(group *model.TournamentGroup, fallback int) int {
	if len(group.Date) >= 4 {
		if y, err := strconv.Atoi(group.Date[:4]); err == nil && y > 0 {
			return y
		}
	}
	if tok := yearToken.FindString(group.ID); tok != "" {
		y, _ := strconv.Atoi(tok)
		return y
	}
	return fallback
}

type bucketKey struct {
	player string
	year   int
	tc     model.TimeControl
}

// Rollup re-scans every game of every finalized tournament and pools them
// into per-(player, year, time-control) aggregates. Games against zero-rated
// opponents are excluded here, unlike tournament-level aggregation. Only
// buckets with at least MinGames games are returned, sorted by performance
// descending.
func Rollup(groups map[string]*model.TournamentGroup, est rating.Estimator, fallbackYear int) []*model.YearlyAggregate {
	if est == nil {
		est = rating.Default()
	}

	buckets := make(map[bucketKey]*model.YearlyAggregate)
	get := func(k bucketKey) *model.YearlyAggregate {
		b, ok := buckets[k]
		if !ok {
			b = &model.YearlyAggregate{
				Player:      k.player,
				Year:        k.year,
				TimeControl: k.tc,
				Tournaments: make(map[string]struct{}),
			}
			buckets[k] = b
		}
		return b
	}

	for _, group := range groups {
		year := ResolveYear(group, fallbackYear)
		for i := range group.Games {
			g := &group.Games[i]
			for _, c := range []model.Color{model.White, model.Black} {
				name := g.Player(c)
				if name == "" {
					continue
				}
				opp := model.Black
				if c == model.Black {
					opp = model.White
				}
				oppRating := g.Rating(opp)
				if oppRating <= 0 {
					// Unrated opponents carry no signal for the estimate.
					continue
				}

				b := get(bucketKey{name, year, group.TimeControl})
				b.Games++
				result := g.Result(c)
				b.Score += result
				switch result {
				case 1:
					b.Wins++
				case 0.5:
					b.Draws++
				default:
					b.Losses++
				}
				b.OpponentRatingSum += oppRating
				b.OpponentRatings = append(b.OpponentRatings, oppRating)
				b.Tournaments[group.ID] = struct{}{}
			}
		}
	}

	out := make([]*model.YearlyAggregate, 0, len(buckets))
	for _, b := range buckets {
		if b.Games < MinGames {
			continue
		}
		b.AvgOpponentRating = b.OpponentRatingSum / float64(b.Games)
		perf, err := est.Estimate(b.Score, b.Games, b.OpponentRatings)
		if err != nil {
			perf = rating.PerformanceRating(b.Score, b.Games, b.AvgOpponentRating)
		}
		b.Performance = perf
		out = append(out, b)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Performance != out[j].Performance {
			return out[i].Performance > out[j].Performance
		}
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return out[i].Year > out[j].Year
	})
	return out
}

// Partition splits a rollup list by time control, preserving order.
func Partition(list []*model.YearlyAggregate) map[model.TimeControl][]*model.YearlyAggregate {
	out := make(map[model.TimeControl][]*model.YearlyAggregate)
	for _, b := range list {
		out[b.TimeControl] = append(out[b.TimeControl], b)
	}
	return out
}

// BestPerformances lists every single-tournament showing with at least
// MinBestGames games, sorted by performance descending.
func BestPerformances(groups map[string]*model.TournamentGroup) []model.BestPerformance {
	var out []model.BestPerformance
	for _, group := range groups {
		for _, p := range group.Players {
			if p.Games < MinBestGames {
				continue
			}
			out = append(out, model.BestPerformance{
				Player:         p.Name,
				TournamentID:   group.ID,
				TournamentName: group.Name,
				TimeControl:    group.TimeControl,
				Games:          p.Games,
				Score:          p.Score,
				Performance:    p.Performance,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Performance != out[j].Performance {
			return out[i].Performance > out[j].Performance
		}
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return out[i].TournamentID < out[j].TournamentID
	})
	return out
}
