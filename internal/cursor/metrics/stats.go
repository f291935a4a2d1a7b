package metrics

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CorrectionStats describes how far the engine moved the cursor away from
// the raw input, in virtual pixels.
type CorrectionStats struct {
	Ticks     int
	Mean      float64
	StdDev    float64
	P95       float64
	Max       float64
	Corrected int // ticks with a non-zero correction
}

// Summarize computes CorrectionStats over per-tick correction distances.
// An empty input yields the zero value.
func Summarize(corrections []float64) CorrectionStats {
	n := len(corrections)
	if n == 0 {
		return CorrectionStats{}
	}
	sorted := slices.Clone(corrections)
	slices.Sort(sorted)

	s := CorrectionStats{Ticks: n}
	if n > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	} else {
		s.Mean = sorted[0]
	}
	s.P95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	s.Max = floats.Max(sorted)
	for _, v := range sorted {
		if v != 0 {
			s.Corrected++
		}
	}
	return s
}

func (s CorrectionStats) String() string {
	return fmt.Sprintf("ticks=%d corrected=%d mean=%.3f sd=%.3f p95=%.3f max=%.3f",
		s.Ticks, s.Corrected, s.Mean, s.StdDev, s.P95, s.Max)
}
