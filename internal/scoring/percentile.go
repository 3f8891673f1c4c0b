package scoring

import "math"

// WeakPercentile returns the percentile rank of current within history
// using the weak convention: the percentage of historical values that are
// less than or equal to current. With history [10,20,20,30] and current 20
// the rank is 75 (3 of 4 values <= 20).
//
// History is expected to be already cleaned of NaN values. An empty history
// or a NaN current yields NaN; the caller maps that to the neutral default.
func WeakPercentile(history []float64, current float64) float64 {
	if len(history) == 0 || math.IsNaN(current) {
		return math.NaN()
	}

	count := 0
	for _, v := range history {
		if v <= current {
			count++
		}
	}

	return 100.0 * float64(count) / float64(len(history))
}

// dropNaN returns the values with NaN and infinite entries removed.
func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
