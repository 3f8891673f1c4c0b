package factorconfig

// FactorKind identifies the raw statistic a factor derives from its series.
type FactorKind string

const (
	KindVolatility      FactorKind = "volatility"       // rolling std of daily returns
	KindVolumePressure  FactorKind = "volume_pressure"  // volume / rolling mean volume
	KindPriceStrength   FactorKind = "price_strength"   // close / rolling max close
	KindFuturesBasis    FactorKind = "futures_basis"    // (futures close - spot close) / spot close
	KindValuationSpread FactorKind = "valuation_spread" // 1/PE - bond_yield/100
	KindMarginLeverage  FactorKind = "margin_leverage"  // margin financing balance level
)

// Config is the full parameterized catalogue: factor definitions plus every
// tunable of the fit, bias and reconciliation stages. Weights, inversion
// flags and window lengths are data here, not code.
type Config struct {
	Factors   []Factor        `yaml:"factors" json:"factors"`
	Weights   WeightBounds    `yaml:"weights" json:"weights"`
	Fit       FitConfig       `yaml:"fit" json:"fit"`
	Bias      BiasConfig      `yaml:"bias" json:"bias"`
	Reconcile ReconcileConfig `yaml:"reconcile" json:"reconcile"`
	Scoring   ScoringConfig   `yaml:"scoring" json:"scoring"`
}

// Factor defines one catalogue entry.
type Factor struct {
	Name   string     `yaml:"name" json:"name"`
	Kind   FactorKind `yaml:"kind" json:"kind"`
	Window int        `yaml:"window,omitempty" json:"window,omitempty"` // rolling window where the kind uses one
	Invert bool       `yaml:"invert,omitempty" json:"invert,omitempty"` // higher raw value means more fear
}

// WeightBounds is the box constraint for every fitted weight.
type WeightBounds struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// FitConfig controls the constrained least-squares weight fit.
type FitConfig struct {
	MinSamples    int `yaml:"min_samples" json:"min_samples"`       // closed rows required before fitting
	MaxSamples    int `yaml:"max_samples" json:"max_samples"`       // most recent closed rows used
	MaxIterations int `yaml:"max_iterations" json:"max_iterations"` // solver iteration cap
}

// BiasConfig controls the bias corrector.
type BiasConfig struct {
	// Smoothing is the EMA decay over closed-row biases, in [0,1).
	// 0 keeps only the most recent closed bias.
	Smoothing float64 `yaml:"smoothing" json:"smoothing"`
}

// ReconcileConfig controls ledger reconciliation.
type ReconcileConfig struct {
	LookbackDays int `yaml:"lookback_days" json:"lookback_days"` // trailing calendar days, weekends skipped
}

// ScoringConfig controls degenerate-input thresholds.
type ScoringConfig struct {
	MinObservations     int `yaml:"min_observations" json:"min_observations"`           // underlying price observations
	MinStatObservations int `yaml:"min_stat_observations" json:"min_stat_observations"` // usable statistic observations
}

// FactorNames returns catalogue factor names in declaration order.
// That order is also the ledger column order.
func (c *Config) FactorNames() []string {
	names := make([]string, len(c.Factors))
	for i, f := range c.Factors {
		names[i] = f.Name
	}
	return names
}

// Default returns the built-in six-factor catalogue with the canonical
// windows and inversion flags.
func Default() *Config {
	return &Config{
		Factors: []Factor{
			{Name: "volatility", Kind: KindVolatility, Window: 20, Invert: true},
			{Name: "volume_pressure", Kind: KindVolumePressure, Window: 20},
			{Name: "price_strength", Kind: KindPriceStrength, Window: 250},
			{Name: "futures_basis", Kind: KindFuturesBasis},
			{Name: "valuation_spread", Kind: KindValuationSpread, Invert: true},
			{Name: "margin_leverage", Kind: KindMarginLeverage},
		},
		Weights: WeightBounds{Min: 0.05, Max: 0.4},
		Fit: FitConfig{
			MinSamples:    5,
			MaxSamples:    30,
			MaxIterations: 500,
		},
		Bias:      BiasConfig{Smoothing: 0},
		Reconcile: ReconcileConfig{LookbackDays: 14},
		Scoring: ScoringConfig{
			MinObservations:     30,
			MinStatObservations: 10,
		},
	}
}
