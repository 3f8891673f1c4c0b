package contracts

import (
	"sort"
	"time"
)

// SeriesPoint is one (date, value) observation of a daily time series.
type SeriesPoint struct {
	Date  time.Time
	Value float64
}

// Series is an ordered daily time series: unique by date, ascending by date.
type Series []SeriesPoint

// Truncate returns the prefix of the series with date <= asOf.
// This is the only sanctioned way to slice history for scoring: a score
// computed for a date must never see observations after that date.
func (s Series) Truncate(asOf time.Time) Series {
	day := Day(asOf)
	i := sort.Search(len(s), func(i int) bool {
		return s[i].Date.After(day)
	})
	return s[:i]
}

// Values returns the raw values in date order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// At returns the value on an exact date.
func (s Series) At(date time.Time) (float64, bool) {
	day := Day(date)
	i := sort.Search(len(s), func(i int) bool {
		return !s[i].Date.Before(day)
	})
	if i < len(s) && s[i].Date.Equal(day) {
		return s[i].Value, true
	}
	return 0, false
}

// Normalize sorts the series ascending by date and drops duplicate dates,
// keeping the last value seen for each date.
func (s Series) Normalize() Series {
	if len(s) == 0 {
		return s
	}

	byDate := make(map[time.Time]float64, len(s))
	for _, p := range s {
		byDate[Day(p.Date)] = p.Value
	}

	out := make(Series, 0, len(byDate))
	for d, v := range byDate {
		out = append(out, SeriesPoint{Date: d, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Bar is one daily price/volume bar.
type Bar struct {
	Date   time.Time
	Open   float64
	Close  float64
	High   float64
	Low    float64
	Volume float64
}

// SeriesSet bundles every input series the factor catalogue can consume.
// Any member may be empty; the scorer degrades the affected factors to
// neutral instead of failing.
type SeriesSet struct {
	Close         Series
	Volume        Series
	Valuation     Series // trailing P/E-like ratio
	BondYield     Series // 10Y yield in percent
	FuturesClose  Series // optional: index futures close
	MarginBalance Series // optional: margin financing balance
}

// Truncate applies Series.Truncate to every member.
func (set SeriesSet) Truncate(asOf time.Time) SeriesSet {
	return SeriesSet{
		Close:         set.Close.Truncate(asOf),
		Volume:        set.Volume.Truncate(asOf),
		Valuation:     set.Valuation.Truncate(asOf),
		BondYield:     set.BondYield.Truncate(asOf),
		FuturesClose:  set.FuturesClose.Truncate(asOf),
		MarginBalance: set.MarginBalance.Truncate(asOf),
	}
}

// Day normalizes a timestamp to midnight UTC so dates compare cleanly.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
