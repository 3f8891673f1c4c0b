package contracts

// NeutralScore is the sub-score assigned when a factor cannot be computed:
// empty history, not enough observations, or a degenerate statistic.
const NeutralScore = 50.0

// FactorScore is the outcome of scoring one factor for one date.
// Neutral distinguishes "the data legitimately ranks at 50" from
// "the computation could not be performed"; Reason carries the cause
// for the latter so it stays inspectable in logs and tests.
type FactorScore struct {
	Name    string
	Score   float64 // percentile rank in [0,100]
	Neutral bool    // true when Score is the defaulted NeutralScore
	Reason  string  // why the factor was defaulted; empty when Neutral is false
}

// ScoreMap flattens factor scores into a name -> score map.
func ScoreMap(scores []FactorScore) map[string]float64 {
	m := make(map[string]float64, len(scores))
	for _, s := range scores {
		m[s.Name] = s.Score
	}
	return m
}

// WeightVector maps factor name to its weight. A valid vector sums to 1
// and keeps every component within the configured bounds.
type WeightVector map[string]float64

// UniformWeights returns the default 1/N weight vector.
func UniformWeights(names []string) WeightVector {
	w := make(WeightVector, len(names))
	for _, name := range names {
		w[name] = 1.0 / float64(len(names))
	}
	return w
}

// Sum returns the total weight.
func (w WeightVector) Sum() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}
