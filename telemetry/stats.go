package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sparring/genes"
)

// GenerationStats summarizes one generation of training.
type GenerationStats struct {
	Generation int     `csv:"generation"`
	Rounds     int     `csv:"rounds"`
	Mean       float64 `csv:"score_mean"`
	Std        float64 `csv:"score_std"`
	Min        float64 `csv:"score_min"`
	P50        float64 `csv:"score_p50"`
	Max        float64 `csv:"score_max"`

	// Strike outcomes summed over every round
	Strikes int `csv:"strikes"`
	Blocks  int `csv:"blocks"`
	KOs     int `csv:"kos"`

	BestScore int          `csv:"best_score"`
	BestGenes genes.Vector `csv:"best_genes"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ScoreSummary holds distribution statistics for a set of scores.
type ScoreSummary struct {
	Mean, Std, Min, P50, Max float64
}

// SummarizeScores computes mean, sample standard deviation, min, median and max.
// Empty input yields zeros; a single score has zero spread.
func SummarizeScores(values []float64) ScoreSummary {
	if len(values) == 0 {
		return ScoreSummary{}
	}

	var s ScoreSummary
	if len(values) == 1 {
		s.Mean = values[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(values, nil)
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	s.P50 = Percentile(sorted, 0.5)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("rounds", s.Rounds),
		slog.Float64("score_mean", s.Mean),
		slog.Float64("score_std", s.Std),
		slog.Float64("score_min", s.Min),
		slog.Float64("score_max", s.Max),
		slog.Int("strikes", s.Strikes),
		slog.Int("blocks", s.Blocks),
		slog.Int("kos", s.KOs),
		slog.Int("best_score", s.BestScore),
		slog.String("best_genes", s.BestGenes.String()),
	)
}
