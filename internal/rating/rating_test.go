package rating

import (
	"math"
	"testing"
)

func assertFinite(t *testing.T, v float64) {
	t.Helper()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		t.Fatalf("expected finite value, got %v", v)
	}
}

func TestClosedForm_EvenScoreMatchesOpposition(t *testing.T) {
	got := PerformanceRating(2, 4, 2100)
	if got != 2100 {
		t.Errorf("50%% score should equal the opposition average, got %.2f", got)
	}
}

func TestClosedForm_HigherScoreHigherRating(t *testing.T) {
	prev := math.Inf(-1)
	for _, score := range []float64{0.5, 1, 1.5, 2, 2.5} {
		got := PerformanceRating(score, 3, 2000)
		assertFinite(t, got)
		if got <= prev {
			t.Fatalf("estimate for score %.1f (%.2f) not above previous (%.2f)", score, got, prev)
		}
		prev = got
	}
}

func TestClosedForm_PerfectScore(t *testing.T) {
	// 3 wins out of 3 against 2000-average opposition.
	perfect := PerformanceRating(3, 3, 2000)
	assertFinite(t, perfect)
	if perfect <= 2000 {
		t.Errorf("perfect score must exceed the opposition average, got %.2f", perfect)
	}

	// Must also be more extreme than the best interior score.
	interior := PerformanceRating(2.5, 3, 2000)
	if perfect <= interior {
		t.Errorf("perfect score (%.2f) must exceed best interior score (%.2f)", perfect, interior)
	}
}

func TestClosedForm_ZeroScore(t *testing.T) {
	zero := PerformanceRating(0, 3, 2000)
	assertFinite(t, zero)
	interior := PerformanceRating(0.5, 3, 2000)
	if zero >= interior {
		t.Errorf("zero score (%.2f) must be below worst interior score (%.2f)", zero, interior)
	}
}

func TestClosedForm_DegenerateSymmetry(t *testing.T) {
	up := PerformanceRating(4, 4, 2000) - 2000
	down := 2000 - PerformanceRating(0, 4, 2000)
	if math.Abs(up-down) > 1e-9 {
		t.Errorf("perfect and zero corrections not symmetric: +%.4f vs -%.4f", up, down)
	}
}

func TestClosedForm_ZeroGamesGuard(t *testing.T) {
	if got := PerformanceRating(0, 0, 2000); got != 0 {
		t.Errorf("games == 0 should return 0, got %.2f", got)
	}
}

func TestIterative_MatchesClosedFormOnUniformOpposition(t *testing.T) {
	opponents := []float64{2000, 2000, 2000}
	it := &Iterative{}

	got, err := it.Estimate(2, 3, opponents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := PerformanceRating(2, 3, 2000)
	if math.Abs(got-want) > 1 {
		t.Errorf("uniform opposition: iterative %.2f, closed form %.2f", got, want)
	}
}

func TestIterative_ComparableOnMixedOpposition(t *testing.T) {
	opponents := []float64{1800, 2000, 2200}
	it := &Iterative{}

	got, err := it.Estimate(2, 3, opponents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closed := PerformanceRating(2, 3, 2000)

	// Same sign and order of magnitude of deviation from the average.
	if (got-2000)*(closed-2000) <= 0 {
		t.Errorf("deviations disagree in sign: iterative %.2f, closed %.2f", got, closed)
	}
	if math.Abs(got-closed) > 100 {
		t.Errorf("estimates diverge: iterative %.2f, closed %.2f", got, closed)
	}
}

func TestIterative_PerfectScoreHasNoSolution(t *testing.T) {
	it := &Iterative{}
	if _, err := it.Estimate(3, 3, []float64{2000, 2000, 2000}); err == nil {
		t.Error("expected ErrNoSolution for a perfect score")
	}
	if _, err := it.Estimate(0, 3, []float64{2000, 2000, 2000}); err == nil {
		t.Error("expected ErrNoSolution for a zero score")
	}
}

func TestIterative_OpponentCountMismatch(t *testing.T) {
	it := &Iterative{}
	if _, err := it.Estimate(1, 3, []float64{2000}); err == nil {
		t.Error("expected error when opponent count does not match games")
	}
}

func TestFallback_UsesBackupOnFailure(t *testing.T) {
	est := WithOptimizer()

	// Perfect score: iterative fails, fallback must produce the closed form.
	got, err := est.Estimate(3, 3, []float64{2000, 2000, 2000})
	if err != nil {
		t.Fatalf("fallback must absorb the failure: %v", err)
	}
	want := PerformanceRating(3, 3, 2000)
	if got != want {
		t.Errorf("fallback = %.2f, want closed form %.2f", got, want)
	}
}

func TestFallback_PrefersPrimary(t *testing.T) {
	est := WithOptimizer()
	got, err := est.Estimate(2, 3, []float64{1800, 2000, 2200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := &Iterative{}
	want, _ := it.Estimate(2, 3, []float64{1800, 2000, 2200})
	if got != want {
		t.Errorf("fallback should pass through the iterative result: got %.2f, want %.2f", got, want)
	}
}
