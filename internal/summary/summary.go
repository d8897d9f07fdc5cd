// Package summary computes per-tournament dispersion statistics.
package summary

import (
	"math"
	"sort"

	"github.com/pasek/chess-metrics/internal/model"
)

// Metric names in the summary map. Every key is always present, even when no
// value was collected for it.
var metricNames = []string{
	"quality", "quality_white", "quality_black",
	"missed", "missed_white", "missed_black",
	"rating", "performance",
}

// Build computes statistics over the finalized player list. Only present
// values contribute: NaN averages are skipped, ratings must be positive to
// count as known, and zero is a valid collected value for every move-quality
// metric.
func Build(group *model.TournamentGroup) map[string]model.MetricSummary {
	collected := make(map[string][]float64, len(metricNames))
	add := func(metric string, v float64) {
		if math.IsNaN(v) {
			return
		}
		collected[metric] = append(collected[metric], v)
	}

	for _, p := range group.Players {
		add("quality", p.AvgQuality)
		add("quality_white", p.AvgWhiteQuality)
		add("quality_black", p.AvgBlackQuality)
		add("missed", p.AvgMissed)
		add("missed_white", p.AvgWhiteMissed)
		add("missed_black", p.AvgBlackMissed)
		if p.MaxRating > 0 {
			add("rating", p.MaxRating)
		}
		add("performance", p.Performance)
	}

	out := make(map[string]model.MetricSummary, len(metricNames))
	for _, name := range metricNames {
		out[name] = compute(collected[name])
	}
	return out
}

// compute returns all-zero statistics for an empty value set, and the sample
// (n-1) standard deviation when at least two values are present.
func compute(values []float64) model.MetricSummary {
	n := len(values)
	if n == 0 {
		return model.MetricSummary{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	var std float64
	if n >= 2 {
		var ss float64
		for _, v := range sorted {
			d := v - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	return model.MetricSummary{
		Mean:   Round2(mean),
		Median: Round2(median),
		Std:    Round2(std),
		Min:    Round2(sorted[0]),
		Max:    Round2(sorted[n-1]),
	}
}

// Round2 rounds to 2 decimal places for display output.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
