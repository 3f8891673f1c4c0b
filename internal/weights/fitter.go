package weights

import (
	"math"

	"github.com/quantlab/feargreed/internal/contracts"
	"github.com/quantlab/feargreed/internal/factorconfig"
	"github.com/quantlab/feargreed/pkg/logger"
)

// Fitter solves the small constrained least-squares problem behind weight
// evolution: minimize sum((scores·w - actual)^2) over recently closed
// ledger rows, subject to box bounds on each weight and the weights
// summing to 1. Projected gradient descent with a bisection projection
// onto the bounded simplex; at N<=6 variables this converges in a handful
// of iterations.
//
// Non-convergence is non-fatal: Fit reports ok=false and the caller keeps
// its previous (or uniform) weight vector.
type Fitter struct {
	cfg *factorconfig.Config
	log *logger.Logger
}

// NewFitter creates a new weight fitter
func NewFitter(cfg *factorconfig.Config, log *logger.Logger) *Fitter {
	return &Fitter{
		cfg: cfg,
		log: log.WithComponent("weights"),
	}
}

// Fit derives a weight vector from closed ledger rows. Only rows with
// ground truth participate; when fewer than the configured minimum exist,
// ok is false and the caller keeps the fallback vector.
func (f *Fitter) Fit(rows []contracts.LedgerRow) (contracts.WeightVector, bool) {
	names := f.cfg.FactorNames()

	var closed []contracts.LedgerRow
	for _, r := range rows {
		if r.Closed() {
			closed = append(closed, r)
		}
	}

	if len(closed) < f.cfg.Fit.MinSamples {
		f.log.WithFields(map[string]interface{}{
			"closed_rows": len(closed),
			"min_samples": f.cfg.Fit.MinSamples,
		}).Info("not enough closed rows for weight fit, keeping fallback weights")
		return nil, false
	}

	// Most recent window of closed rows
	if len(closed) > f.cfg.Fit.MaxSamples {
		closed = closed[len(closed)-f.cfg.Fit.MaxSamples:]
	}

	x := make([][]float64, len(closed))
	y := make([]float64, len(closed))
	for i, r := range closed {
		x[i] = make([]float64, len(names))
		for j, name := range names {
			x[i][j] = r.Scores[name]
		}
		y[i] = *r.Actual
	}

	w, ok := f.solve(x, y, len(names))
	if !ok {
		f.log.Warn("weight fit did not converge, keeping fallback weights")
		return nil, false
	}

	vector := make(contracts.WeightVector, len(names))
	for j, name := range names {
		vector[name] = w[j]
	}

	f.log.WithField("weights", vector).Info("weight fit converged")
	return vector, true
}

// solve runs projected gradient descent on ||Xw - y||^2.
func (f *Fitter) solve(x [][]float64, y []float64, n int) ([]float64, bool) {
	lo, hi := f.cfg.Weights.Min, f.cfg.Weights.Max

	// Lipschitz bound for the gradient: 2*||X||_F^2. The 1/L step size
	// guarantees monotone descent.
	var frob2 float64
	for i := range x {
		for j := range x[i] {
			frob2 += x[i][j] * x[i][j]
		}
	}
	if frob2 == 0 || math.IsNaN(frob2) || math.IsInf(frob2, 0) {
		return nil, false
	}
	step := 1.0 / (2.0 * frob2)

	// Start from the uniform vector projected into the feasible region.
	w := make([]float64, n)
	for j := range w {
		w[j] = 1.0 / float64(n)
	}
	w = projectBoundedSimplex(w, lo, hi)

	prevObj := objective(x, y, w)
	for iter := 0; iter < f.cfg.Fit.MaxIterations; iter++ {
		grad := gradient(x, y, w)

		next := make([]float64, n)
		maxDelta := 0.0
		for j := range w {
			next[j] = w[j] - step*grad[j]
		}
		next = projectBoundedSimplex(next, lo, hi)

		for j := range w {
			if d := math.Abs(next[j] - w[j]); d > maxDelta {
				maxDelta = d
			}
		}
		w = next

		obj := objective(x, y, w)
		if math.IsNaN(obj) || math.IsInf(obj, 0) {
			return nil, false
		}
		if maxDelta < 1e-10 || math.Abs(prevObj-obj) < 1e-12*(1+prevObj) {
			break
		}
		prevObj = obj
	}

	// Sanity: the projection guarantees feasibility, verify anyway before
	// handing the vector to the combiner.
	var sum float64
	for _, v := range w {
		if math.IsNaN(v) || v < lo-1e-9 || v > hi+1e-9 {
			return nil, false
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-6 {
		return nil, false
	}

	return w, true
}

// gradient computes 2*X^T*(Xw - y).
func gradient(x [][]float64, y, w []float64) []float64 {
	grad := make([]float64, len(w))
	for i := range x {
		var pred float64
		for j := range w {
			pred += x[i][j] * w[j]
		}
		resid := pred - y[i]
		for j := range w {
			grad[j] += 2 * resid * x[i][j]
		}
	}
	return grad
}

// objective computes ||Xw - y||^2.
func objective(x [][]float64, y, w []float64) float64 {
	var obj float64
	for i := range x {
		var pred float64
		for j := range w {
			pred += x[i][j] * w[j]
		}
		d := pred - y[i]
		obj += d * d
	}
	return obj
}

// projectBoundedSimplex projects v onto {w : lo <= w_i <= hi, sum(w) = 1}.
// The projection is clip(v - lambda, lo, hi) for the shift lambda that
// makes the clipped sum hit 1; the sum is monotone in lambda, so bisection
// finds it.
func projectBoundedSimplex(v []float64, lo, hi float64) []float64 {
	clippedSum := func(lambda float64) float64 {
		var sum float64
		for _, x := range v {
			sum += clip(x-lambda, lo, hi)
		}
		return sum
	}

	low, high := minOf(v)-hi, maxOf(v)-lo
	for i := 0; i < 100; i++ {
		mid := (low + high) / 2
		if clippedSum(mid) > 1 {
			low = mid
		} else {
			high = mid
		}
	}

	lambda := (low + high) / 2
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = clip(x-lambda, lo, hi)
	}
	return out
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
