package weights

import (
	"math"

	"github.com/quantlab/feargreed/internal/contracts"
)

// Combine blends factor sub-scores into one composite: the plain weighted
// sum over the catalogue factors. Factors absent from the weight vector
// contribute nothing.
func Combine(scores []contracts.FactorScore, w contracts.WeightVector) float64 {
	var composite float64
	for _, s := range scores {
		composite += s.Score * w[s.Name]
	}
	return round2(composite)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
