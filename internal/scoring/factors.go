package scoring

import (
	"fmt"
	"math"

	"github.com/quantlab/feargreed/internal/contracts"
	"github.com/quantlab/feargreed/internal/factorconfig"
)

// statSeries derives the raw statistic series for one factor from an
// already-truncated series set. The result stays aligned to trading days:
// the last element is the statistic belonging to the evaluation date.
func statSeries(f factorconfig.Factor, set contracts.SeriesSet) ([]float64, error) {
	switch f.Kind {
	case factorconfig.KindVolatility:
		if len(set.Close) == 0 {
			return nil, fmt.Errorf("close series unavailable")
		}
		return RollingStd(PctChange(set.Close.Values()), f.Window), nil

	case factorconfig.KindVolumePressure:
		if len(set.Volume) == 0 {
			return nil, fmt.Errorf("volume series unavailable")
		}
		values := set.Volume.Values()
		return Divide(values, RollingMean(values, f.Window)), nil

	case factorconfig.KindPriceStrength:
		if len(set.Close) == 0 {
			return nil, fmt.Errorf("close series unavailable")
		}
		values := set.Close.Values()
		return Divide(values, RollingMax(values, f.Window)), nil

	case factorconfig.KindFuturesBasis:
		if len(set.FuturesClose) == 0 {
			return nil, fmt.Errorf("futures series unavailable")
		}
		stat := joinSeries(set.FuturesClose, set.Close, func(fut, spot float64) float64 {
			if spot == 0 {
				return math.NaN()
			}
			return (fut - spot) / spot
		})
		if len(stat) == 0 {
			return nil, fmt.Errorf("no overlapping futures and spot dates")
		}
		return stat, nil

	case factorconfig.KindValuationSpread:
		if len(set.Valuation) == 0 || len(set.BondYield) == 0 {
			return nil, fmt.Errorf("valuation or bond yield series unavailable")
		}
		stat := joinSeries(set.Valuation, set.BondYield, func(pe, yield float64) float64 {
			if pe == 0 {
				return math.NaN()
			}
			return 1/pe - yield/100
		})
		if len(stat) == 0 {
			return nil, fmt.Errorf("no overlapping valuation and bond yield dates")
		}
		return stat, nil

	case factorconfig.KindMarginLeverage:
		if len(set.MarginBalance) == 0 {
			return nil, fmt.Errorf("margin balance series unavailable")
		}
		return set.MarginBalance.Values(), nil

	default:
		return nil, fmt.Errorf("unknown factor kind %q", f.Kind)
	}
}

// joinSeries combines two series on their common dates, in date order of
// the primary series.
func joinSeries(primary, secondary contracts.Series, combine func(a, b float64) float64) []float64 {
	var out []float64
	for _, p := range primary {
		if b, ok := secondary.At(p.Date); ok {
			out = append(out, combine(p.Value, b))
		}
	}
	return out
}
