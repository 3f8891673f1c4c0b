package eastmoney

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quantlab/feargreed/internal/contracts"
)

// Canonical column candidates per feed. The upstream schema drifts across
// revisions; a series is normalized by taking the first candidate present.
var (
	dateColumns      = []string{"日期", "date", "trade_date"}
	valuationColumns = []string{"市盈率1", "市盈率TTM", "市盈率", "pe"}
	bondYieldColumns = []string{"中国国债收益率10年", "rate", "收益率"}
	marginColumns    = []string{"融资余额", "margin_balance", "rzye"}
)

// parseFlexDate accepts the date spellings observed upstream:
// 2006-01-02, 20060102, and the CJK-suffixed 2006年01月02日.
func parseFlexDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer("年", "-", "月", "-", "日", "")
	s = replacer.Replace(s)

	for _, format := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(format, s); err == nil {
			return contracts.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// pickNumber returns the first candidate field present in the record that
// holds a usable number.
func pickNumber(record map[string]interface{}, candidates []string) (float64, bool) {
	for _, key := range candidates {
		raw, ok := record[key]
		if !ok || raw == nil {
			continue
		}
		if v, ok := toFloat(raw); ok {
			return v, true
		}
	}
	return 0, false
}

// pickString returns the first candidate field present as a string.
func pickString(record map[string]interface{}, candidates []string) (string, bool) {
	for _, key := range candidates {
		if raw, ok := record[key]; ok {
			if s, ok := raw.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// normalizeRecords converts loosely-typed provider records into a
// canonical series: parseable date, numeric value, sorted ascending,
// unique by date. Records missing either side are dropped.
func normalizeRecords(records []map[string]interface{}, valueColumns []string) contracts.Series {
	var series contracts.Series
	for _, record := range records {
		dateStr, ok := pickString(record, dateColumns)
		if !ok {
			continue
		}
		date, err := parseFlexDate(dateStr)
		if err != nil {
			continue
		}
		value, ok := pickNumber(record, valueColumns)
		if !ok {
			continue
		}
		series = append(series, contracts.SeriesPoint{Date: date, Value: value})
	}
	return series.Normalize()
}

// toFloat converts the numeric spellings JSON decoding can produce.
func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}
