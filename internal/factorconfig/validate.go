package factorconfig

import "fmt"

var knownKinds = map[FactorKind]bool{
	KindVolatility:      true,
	KindVolumePressure:  true,
	KindPriceStrength:   true,
	KindFuturesBasis:    true,
	KindValuationSpread: true,
	KindMarginLeverage:  true,
}

// kindsNeedingWindow lists kinds whose statistic uses a rolling window.
var kindsNeedingWindow = map[FactorKind]bool{
	KindVolatility:     true,
	KindVolumePressure: true,
	KindPriceStrength:  true,
}

// Validate checks catalogue consistency: non-empty unique factors, known
// kinds, positive windows where required, and feasible weight bounds
// (N*min <= 1 <= N*max, otherwise no weight vector can sum to 1).
func Validate(c *Config) error {
	if len(c.Factors) == 0 {
		return fmt.Errorf("factors: at least one factor is required")
	}

	seen := make(map[string]bool, len(c.Factors))
	for i, f := range c.Factors {
		if f.Name == "" {
			return fmt.Errorf("factors[%d]: name is required", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("factors[%d]: duplicate name %q", i, f.Name)
		}
		seen[f.Name] = true

		if !knownKinds[f.Kind] {
			return fmt.Errorf("factors[%d] %s: unknown kind %q", i, f.Name, f.Kind)
		}
		if kindsNeedingWindow[f.Kind] && f.Window <= 0 {
			return fmt.Errorf("factors[%d] %s: kind %s requires a positive window", i, f.Name, f.Kind)
		}
	}

	n := float64(len(c.Factors))
	if c.Weights.Min < 0 || c.Weights.Max <= 0 || c.Weights.Min > c.Weights.Max {
		return fmt.Errorf("weights: invalid bounds [%v, %v]", c.Weights.Min, c.Weights.Max)
	}
	if n*c.Weights.Min > 1 || n*c.Weights.Max < 1 {
		return fmt.Errorf("weights: bounds [%v, %v] infeasible for %d factors", c.Weights.Min, c.Weights.Max, len(c.Factors))
	}

	if c.Fit.MinSamples < 1 {
		return fmt.Errorf("fit: min_samples must be at least 1")
	}
	if c.Fit.MaxSamples < c.Fit.MinSamples {
		return fmt.Errorf("fit: max_samples must be >= min_samples")
	}
	if c.Fit.MaxIterations < 1 {
		return fmt.Errorf("fit: max_iterations must be at least 1")
	}

	if c.Bias.Smoothing < 0 || c.Bias.Smoothing >= 1 {
		return fmt.Errorf("bias: smoothing must be in [0, 1)")
	}

	if c.Reconcile.LookbackDays < 1 {
		return fmt.Errorf("reconcile: lookback_days must be at least 1")
	}

	if c.Scoring.MinObservations < 1 || c.Scoring.MinStatObservations < 1 {
		return fmt.Errorf("scoring: minimum observation thresholds must be positive")
	}

	return nil
}
