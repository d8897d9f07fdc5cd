// Package rating estimates a single-event performance rating from a score
// and the strength of the opposition.
package rating

import (
	"errors"
	"math"
)

// K is the logistic performance-rating constant (Elo expectation scale).
const K = 400

// Estimator computes a performance rating for games played against the given
// opponent ratings. Implementations must return a finite value for every
// score in [0, games] as long as games > 0.
type Estimator interface {
	Estimate(score float64, games int, opponents []float64) (float64, error)
}

// Default returns the estimator used when no optimizer is configured.
func Default() Estimator {
	return ClosedForm{}
}

// WithOptimizer returns the iterative maximum-likelihood estimator with the
// closed-form approximation as a per-call fallback.
func WithOptimizer() Estimator {
	return &Fallback{Primary: &Iterative{}, Backup: ClosedForm{}}
}

// PerformanceRating is the closed-form estimate: for an interior score,
// avg + K*log10(score/(games-score)); for a perfect or zero score, a bounded
// correction keeps the value finite and more extreme than any interior score.
func PerformanceRating(score float64, games int, avgOpponent float64) float64 {
	if games <= 0 {
		return 0
	}
	g := float64(games)
	switch {
	case score <= 0:
		return avgOpponent - degenerateSpread(g)
	case score >= g:
		return avgOpponent + degenerateSpread(g)
	default:
		return avgOpponent + K*math.Log10(score/(g-score))
	}
}

// degenerateSpread is the symmetric correction applied at score == 0 and
// score == games, where the direct log ratio diverges. The half-point shift
// bounds the estimate; the (g+1)/g factor keeps it beyond every interior value.
func degenerateSpread(g float64) float64 {
	return (g + 1) / g * K * math.Log10((g+0.5)/0.5)
}

// ClosedForm estimates from the average opponent rating only.
type ClosedForm struct{}

func (ClosedForm) Estimate(score float64, games int, opponents []float64) (float64, error) {
	return PerformanceRating(score, games, mean(opponents)), nil
}

// ErrNoSolution reports inputs the iterative optimizer cannot converge on.
var ErrNoSolution = errors.New("rating: no maximum-likelihood solution")

// Iterative solves sum(expectedScore(r, opp)) == score for r by bisection over
// the actual opponent-rating sequence. The expected total is strictly
// increasing in r, so the root is unique when one exists. Perfect and zero
// scores have no finite root and return ErrNoSolution.
type Iterative struct {
	// Tol is the convergence tolerance in rating points (default 0.01).
	Tol float64
	// MaxIter bounds the bisection steps (default 100).
	MaxIter int
}

func (it *Iterative) Estimate(score float64, games int, opponents []float64) (float64, error) {
	if games <= 0 || len(opponents) != games {
		return 0, ErrNoSolution
	}
	if score <= 0 || score >= float64(games) {
		return 0, ErrNoSolution
	}

	tol := it.Tol
	if tol <= 0 {
		tol = 0.01
	}
	maxIter := it.MaxIter
	if maxIter <= 0 {
		maxIter = 100
	}

	lo, hi := opponents[0], opponents[0]
	for _, o := range opponents[1:] {
		lo = math.Min(lo, o)
		hi = math.Max(hi, o)
	}
	// A 1000-point margin covers any interior score at K=400.
	lo -= 1000
	hi += 1000

	if expectedTotal(lo, opponents) > score || expectedTotal(hi, opponents) < score {
		return 0, ErrNoSolution
	}

	for i := 0; i < maxIter && hi-lo > tol; i++ {
		mid := (lo + hi) / 2
		if expectedTotal(mid, opponents) < score {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// expectedTotal is the sum of Elo expected scores for r against each opponent.
func expectedTotal(r float64, opponents []float64) float64 {
	var total float64
	for _, o := range opponents {
		total += 1 / (1 + math.Pow(10, (o-r)/K))
	}
	return total
}

// Fallback tries Primary and silently falls back to Backup for that single
// call when Primary fails. Failure stays local to one player or bucket.
type Fallback struct {
	Primary Estimator
	Backup  Estimator
}

func (f *Fallback) Estimate(score float64, games int, opponents []float64) (float64, error) {
	if f.Primary != nil {
		if r, err := f.Primary.Estimate(score, games, opponents); err == nil && !math.IsNaN(r) && !math.IsInf(r, 0) {
			return r, nil
		}
	}
	return f.Backup.Estimate(score, games, opponents)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
