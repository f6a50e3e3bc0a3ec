package nutrition

import (
	"math"
	"sort"
)

// Normalized score bounds and grade cutoffs. The cutoffs partition
// [ScaleMin, ScaleMax] into five non-overlapping bands.
const (
	ScaleMin = 10.0
	ScaleMax = 98.0

	gradeA = 85.0
	gradeB = 70.0
	gradeC = 55.0
	gradeD = 40.0
)

// Normalize rescales raw composites onto [ScaleMin, ScaleMax] using
// 1st/99th percentile clamping, so a handful of outliers cannot
// compress the useful range for everything else.
//
// This is a dataset-wide operation: the same raw composite maps to a
// different normalized score when the surrounding dataset changes.
func Normalize(raw []float64) []float64 {
	if len(raw) == 0 {
		return nil
	}

	sorted := append([]float64(nil), raw...)
	sort.Float64s(sorted)
	p1 := percentile(sorted, 1)
	p99 := percentile(sorted, 99)

	out := make([]float64, len(raw))
	spread := p99 - p1
	for i, x := range raw {
		if spread < 1e-9 {
			// Degenerate dataset, every score lands mid-scale.
			out[i] = round2((ScaleMin + ScaleMax) / 2)
			continue
		}
		x = math.Max(p1, math.Min(x, p99))
		s := ScaleMin + (x-p1)*(ScaleMax-ScaleMin)/spread
		out[i] = round2(math.Max(ScaleMin, math.Min(s, ScaleMax)))
	}
	return out
}

// Grade assigns the letter grade for a normalized score.
func Grade(score float64) string {
	switch {
	case score >= gradeA:
		return "A"
	case score >= gradeB:
		return "B"
	case score >= gradeC:
		return "C"
	case score >= gradeD:
		return "D"
	default:
		return "E"
	}
}

// percentile returns the p-th percentile of a sorted slice using
// linear interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
