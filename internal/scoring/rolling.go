package scoring

import "math"

// Rolling statistic helpers. All of them keep output aligned with input:
// positions where the statistic is undefined (incomplete window, NaN input,
// division by zero) hold NaN rather than being dropped, so the caller can
// still identify the value belonging to the evaluation date.

// PctChange returns day-over-day fractional changes. The first element and
// any element following a zero value are NaN.
func PctChange(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i == 0 || values[i-1] == 0 ||
			math.IsNaN(values[i]) || math.IsNaN(values[i-1]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = (values[i] - values[i-1]) / values[i-1]
	}
	return out
}

// RollingStd returns the rolling sample standard deviation over a full
// window. Positions before the window fills, or whose window contains a
// NaN, are NaN.
func RollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		out[i] = math.NaN()
		if window < 2 || i < window-1 {
			continue
		}
		win := values[i-window+1 : i+1]
		if containsNaN(win) {
			continue
		}

		mean := 0.0
		for _, v := range win {
			mean += v
		}
		mean /= float64(window)

		var ss float64
		for _, v := range win {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}

// RollingMean returns the rolling mean over a full window.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		out[i] = math.NaN()
		if window < 1 || i < window-1 {
			continue
		}
		win := values[i-window+1 : i+1]
		if containsNaN(win) {
			continue
		}

		sum := 0.0
		for _, v := range win {
			sum += v
		}
		out[i] = sum / float64(window)
	}
	return out
}

// RollingMax returns the rolling maximum over a full window.
func RollingMax(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		out[i] = math.NaN()
		if window < 1 || i < window-1 {
			continue
		}
		win := values[i-window+1 : i+1]
		if containsNaN(win) {
			continue
		}

		max := win[0]
		for _, v := range win[1:] {
			if v > max {
				max = v
			}
		}
		out[i] = max
	}
	return out
}

// Divide returns element-wise a/b with NaN where b is zero or either side
// is NaN.
func Divide(a, b []float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if b[i] == 0 || math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = a[i] / b[i]
	}
	return out
}

func containsNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
