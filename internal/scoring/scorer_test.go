package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/feargreed/internal/contracts"
	"github.com/quantlab/feargreed/internal/factorconfig"
	"github.com/quantlab/feargreed/pkg/logger"
)

func day(n int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// syntheticSet builds n trading days of deterministic but varied data with
// every series populated.
func syntheticSet(n int) contracts.SeriesSet {
	var set contracts.SeriesSet
	for i := 0; i < n; i++ {
		date := day(i)
		close := 3000 + 80*math.Sin(float64(i)/5) + float64(i)
		set.Close = append(set.Close, contracts.SeriesPoint{Date: date, Value: close})
		set.Volume = append(set.Volume, contracts.SeriesPoint{Date: date, Value: 1e8 + 2e7*math.Cos(float64(i)/3)})
		set.Valuation = append(set.Valuation, contracts.SeriesPoint{Date: date, Value: 12 + math.Sin(float64(i)/7)})
		set.BondYield = append(set.BondYield, contracts.SeriesPoint{Date: date, Value: 2.5 + 0.2*math.Sin(float64(i)/11)})
		set.FuturesClose = append(set.FuturesClose, contracts.SeriesPoint{Date: date, Value: close * (1 + 0.002*math.Sin(float64(i)/4))})
		set.MarginBalance = append(set.MarginBalance, contracts.SeriesPoint{Date: date, Value: 1.5e12 + 1e10*float64(i)})
	}
	return set
}

func newTestScorer() *Scorer {
	return NewScorer(factorconfig.Default(), logger.NewTesting())
}

func TestScoreAll_AllFactorsInRange(t *testing.T) {
	set := syntheticSet(60)
	scorer := newTestScorer()

	scores := scorer.ScoreAll(set, day(59))
	require.Len(t, scores, 6)

	for _, s := range scores {
		assert.GreaterOrEqual(t, s.Score, 0.0, s.Name)
		assert.LessOrEqual(t, s.Score, 100.0, s.Name)
	}

	// With 60 days every factor except the 250-day price strength has a
	// full statistic history and must not be defaulted.
	byName := make(map[string]contracts.FactorScore)
	for _, s := range scores {
		byName[s.Name] = s
	}
	for _, name := range []string{"volatility", "volume_pressure", "futures_basis", "valuation_spread", "margin_leverage"} {
		assert.False(t, byName[name].Neutral, "%s should not be neutral: %s", name, byName[name].Reason)
	}

	// price_strength's 250-day window cannot fill in 60 days
	assert.True(t, byName["price_strength"].Neutral)
	assert.Equal(t, contracts.NeutralScore, byName["price_strength"].Score)
}

func TestScoreAll_NoLookAhead(t *testing.T) {
	full := syntheticSet(90)
	truncated := full.Truncate(day(59))
	scorer := newTestScorer()

	fromFull := scorer.ScoreAll(full, day(59))
	fromTruncated := scorer.ScoreAll(truncated, day(59))

	require.Equal(t, len(fromTruncated), len(fromFull))
	for i := range fromFull {
		assert.Equal(t, fromTruncated[i].Score, fromFull[i].Score,
			"factor %s must score identically with and without future data", fromFull[i].Name)
	}
}

func TestScoreAll_EmptySet(t *testing.T) {
	scorer := newTestScorer()

	scores := scorer.ScoreAll(contracts.SeriesSet{}, day(10))
	require.Len(t, scores, 6)

	for _, s := range scores {
		assert.True(t, s.Neutral)
		assert.Equal(t, contracts.NeutralScore, s.Score)
		assert.Equal(t, "insufficient price history", s.Reason)
	}
}

func TestScoreAll_InsufficientHistory(t *testing.T) {
	set := syntheticSet(20) // below the 30-observation minimum
	scorer := newTestScorer()

	for _, s := range scorer.ScoreAll(set, day(19)) {
		assert.True(t, s.Neutral)
		assert.Equal(t, contracts.NeutralScore, s.Score)
	}
}

func TestScoreAll_MissingAncillarySeries(t *testing.T) {
	set := syntheticSet(60)
	set.Valuation = nil
	set.FuturesClose = nil
	set.MarginBalance = nil
	scorer := newTestScorer()

	scores := scorer.ScoreAll(set, day(59))
	byName := contracts.ScoreMap(scores)

	// Factors whose series are gone default to neutral; the rest still score.
	assert.Equal(t, contracts.NeutralScore, byName["valuation_spread"])
	assert.Equal(t, contracts.NeutralScore, byName["futures_basis"])
	assert.Equal(t, contracts.NeutralScore, byName["margin_leverage"])

	for _, s := range scores {
		if s.Name == "volatility" || s.Name == "volume_pressure" {
			assert.False(t, s.Neutral, "%s: %s", s.Name, s.Reason)
		}
	}
}

func TestScoreFactor_InversionConvention(t *testing.T) {
	// Margin balance ramps monotonically, so the current value ranks at 100
	// weak-percentile. Non-inverted the sub-score is 100; inverted it is 0.
	set := syntheticSet(60)
	scorer := newTestScorer()

	plain := factorconfig.Factor{Name: "m", Kind: factorconfig.KindMarginLeverage}
	inverted := factorconfig.Factor{Name: "m", Kind: factorconfig.KindMarginLeverage, Invert: true}

	truncated := set.Truncate(day(59))
	assert.Equal(t, 100.0, scorer.scoreFactor(plain, truncated, day(59)).Score)
	assert.Equal(t, 0.0, scorer.scoreFactor(inverted, truncated, day(59)).Score)
}

func TestScoreFactor_ZeroValuationIsNeutralCurrent(t *testing.T) {
	// A zero P/E on the evaluation date makes the current statistic
	// undefined; earlier dates keep the history populated.
	set := syntheticSet(60)
	set.Valuation[len(set.Valuation)-1].Value = 0
	scorer := newTestScorer()

	f := factorconfig.Factor{Name: "erp", Kind: factorconfig.KindValuationSpread, Invert: true}
	got := scorer.scoreFactor(f, set.Truncate(day(59)), day(59))

	assert.True(t, got.Neutral)
	assert.Equal(t, "current statistic undefined", got.Reason)
	assert.Equal(t, contracts.NeutralScore, got.Score)
}

func TestScoreAll_NeverOutOfRangeOnDegenerateInput(t *testing.T) {
	// Constant prices, zero volumes: statistics degenerate to NaN chains.
	var set contracts.SeriesSet
	for i := 0; i < 60; i++ {
		set.Close = append(set.Close, contracts.SeriesPoint{Date: day(i), Value: 3000})
		set.Volume = append(set.Volume, contracts.SeriesPoint{Date: day(i), Value: 0})
	}
	scorer := newTestScorer()

	for _, s := range scorer.ScoreAll(set, day(59)) {
		assert.GreaterOrEqual(t, s.Score, 0.0, s.Name)
		assert.LessOrEqual(t, s.Score, 100.0, s.Name)
		assert.False(t, math.IsNaN(s.Score), s.Name)
	}
}
