// Package aggregator folds raw game records into per-tournament, per-player
// aggregates and computes the authoritative standings.
package aggregator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pasek/chess-metrics/internal/classify"
	"github.com/pasek/chess-metrics/internal/model"
	"github.com/pasek/chess-metrics/internal/rating"
)

// Aggregator groups games into tournaments and finalizes player aggregates.
type Aggregator struct {
	defaultTC model.TimeControl
	estimator rating.Estimator
}

// New builds an Aggregator. The estimator defaults to the closed-form
// approximation when nil.
func New(defaultTC model.TimeControl, est rating.Estimator) *Aggregator {
	if est == nil {
		est = rating.Default()
	}
	return &Aggregator{defaultTC: defaultTC, estimator: est}
}

// ResolveTimeControl overrides the directory default only when the tournament
// name contains exactly one of "blitz" or "rapid". Ambiguous naming keeps the
// default.
func ResolveTimeControl(name string, def model.TimeControl) model.TimeControl {
	lower := strings.ToLower(name)
	blitz := strings.Contains(lower, "blitz")
	rapid := strings.Contains(lower, "rapid")
	switch {
	case blitz && !rapid:
		return model.Blitz
	case rapid && !blitz:
		return model.Rapid
	default:
		return def
	}
}

// Identity is the collision-free tournament key: lowercased dash-joined name
// plus the time-control suffix.
func Identity(name string, tc model.TimeControl) string {
	return Slugify(name) + "-" + string(tc)
}

// Slugify lowercases a name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Group classifies every record from one source file and collects them into
// unfinalized TournamentGroups keyed by identity. All of a file's records are
// grouped before any finalization so time-control resolution can see the full
// tournament name.
func (a *Aggregator) Group(games []model.GameRecord, fallbackName string) map[string]*model.TournamentGroup {
	byName := make(map[string][]model.GameRecord)
	order := make([]string, 0)
	for _, g := range games {
		name, _ := classify.Classify(g.Event, g.SiteURL, fallbackName)
		if name == "" {
			name = classify.FormatName(fallbackName)
		}
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], g)
	}

	groups := make(map[string]*model.TournamentGroup, len(byName))
	for _, name := range order {
		tc := ResolveTimeControl(name, a.defaultTC)
		id := Identity(name, tc)
		group, ok := groups[id]
		if !ok {
			group = &model.TournamentGroup{
				ID:          id,
				Name:        name,
				TimeControl: tc,
			}
			groups[id] = group
		}
		group.Games = append(group.Games, byName[name]...)
	}
	for _, group := range groups {
		if len(group.Games) > 0 {
			group.Date = group.Games[0].Date
			group.SourceFile = group.Games[0].SourceFile
		}
	}
	return groups
}

// Merge folds src into dst by tournament identity. Game lists are
// concatenated; callers must re-finalize merged groups from scratch so
// averages are never combined from partial results.
func Merge(dst, src map[string]*model.TournamentGroup) {
	for id, group := range src {
		existing, ok := dst[id]
		if !ok {
			dst[id] = group
			continue
		}
		existing.Games = append(existing.Games, group.Games...)
		existing.Players = nil
		if existing.Date == "" {
			existing.Date = group.Date
		}
	}
}

// Finalize folds every game into both players' aggregates, derives averages
// and the performance rating, and sorts the standings. Any previous
// finalization of the group is discarded.
func (a *Aggregator) Finalize(group *model.TournamentGroup) {
	players := make(map[string]*model.PlayerAggregate)
	order := make([]string, 0)
	get := func(name string) *model.PlayerAggregate {
		p, ok := players[name]
		if !ok {
			p = model.NewPlayerAggregate(name)
			players[name] = p
			order = append(order, name)
		}
		return p
	}

	for i := range group.Games {
		g := &group.Games[i]
		for _, c := range []model.Color{model.White, model.Black} {
			name := g.Player(c)
			if name == "" {
				// A missing name on one side still updates the other side.
				continue
			}
			foldGame(get(name), g, c)
		}
	}

	group.Players = group.Players[:0]
	for _, name := range order {
		p := players[name]
		finalizePlayer(p, a.estimator)
		group.Players = append(group.Players, p)
	}

	// Authoritative standings order.
	sort.SliceStable(group.Players, func(i, j int) bool {
		pi, pj := group.Players[i], group.Players[j]
		if pi.Score != pj.Score {
			return pi.Score > pj.Score
		}
		if pi.Performance != pj.Performance {
			return pi.Performance > pj.Performance
		}
		return pi.Name < pj.Name
	})
}

// foldGame applies one game to one player's running totals.
func foldGame(p *model.PlayerAggregate, g *model.GameRecord, c model.Color) {
	result := g.Result(c)

	p.Games++
	p.Score += result
	switch result {
	case 1:
		p.Wins++
	case 0.5:
		p.Draws++
	default:
		p.Losses++
	}

	if r := g.Rating(c); r > p.MaxRating {
		p.MaxRating = r
	}

	opp := model.Black
	if c == model.Black {
		opp = model.White
	}
	// A zero opponent rating is a valid rating here; yearly rollups filter it.
	oppRating := g.Rating(opp)
	p.OpponentRatingSum += oppRating
	p.OpponentRatings = append(p.OpponentRatings, oppRating)

	if q := g.Quality(c); !math.IsNaN(q) {
		p.QualitySum += q
		p.QualityGames++
		if c == model.White {
			p.WhiteQualitySum += q
			p.WhiteQualityGames++
		} else {
			p.BlackQualitySum += q
			p.BlackQualityGames++
		}
	}
	if m := g.Missed(c); !math.IsNaN(m) {
		p.MissedSum += m
		p.MissedGames++
		if c == model.White {
			p.WhiteMissedSum += m
			p.WhiteMissedGames++
		} else {
			p.BlackMissedSum += m
			p.BlackMissedGames++
		}
	}
}

// finalizePlayer derives per-game averages and the performance estimate.
func finalizePlayer(p *model.PlayerAggregate, est rating.Estimator) {
	if p.Games == 0 {
		return
	}
	p.AvgOpponentRating = p.OpponentRatingSum / float64(p.Games)
	p.AvgQuality = avgOf(p.QualitySum, p.QualityGames)
	p.AvgMissed = avgOf(p.MissedSum, p.MissedGames)
	p.AvgWhiteQuality = avgOf(p.WhiteQualitySum, p.WhiteQualityGames)
	p.AvgBlackQuality = avgOf(p.BlackQualitySum, p.BlackQualityGames)
	p.AvgWhiteMissed = avgOf(p.WhiteMissedSum, p.WhiteMissedGames)
	p.AvgBlackMissed = avgOf(p.BlackMissedSum, p.BlackMissedGames)

	perf, err := est.Estimate(p.Score, p.Games, p.OpponentRatings)
	if err != nil {
		perf = rating.PerformanceRating(p.Score, p.Games, p.AvgOpponentRating)
	}
	p.Performance = perf
}

func avgOf(sum float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// FinalizeAll finalizes every group, recovering from a structural failure in
// any single tournament: the failed tournament is dropped and reported,
// siblings are unaffected.
func (a *Aggregator) FinalizeAll(groups map[string]*model.TournamentGroup) (failed []error) {
	for id, group := range groups {
		if err := a.finalizeSafe(group); err != nil {
			failed = append(failed, fmt.Errorf("tournament %s (source %s): %w", id, group.SourceFile, err))
			delete(groups, id)
		}
	}
	return failed
}

func (a *Aggregator) finalizeSafe(group *model.TournamentGroup) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("finalize panicked: %v", r)
		}
	}()
	a.Finalize(group)
	return nil
}
