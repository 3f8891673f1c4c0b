package eastmoney

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/quantlab/feargreed/internal/contracts"
)

// klineResponse is the daily-bar payload:
// {"data": {"klines": ["2026-01-02,open,close,high,low,volume", ...]}}
type klineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// recordsResponse is the generic record-list payload used by the
// valuation, bond-yield and margin feeds: {"data": [{...}, ...]}
type recordsResponse struct {
	Data []map[string]interface{} `json:"data"`
}

// FetchIndexDaily fetches the full daily close and volume history for an
// index. An empty upstream result yields empty series, not an error.
func (c *Client) FetchIndexDaily(ctx context.Context, symbol string) (closeSeries, volumeSeries contracts.Series, err error) {
	url := fmt.Sprintf(
		"%s/api/qt/stock/kline/get?secid=%s&klt=101&fqt=1&beg=19900101&end=20500101&fields1=f1,f2,f3&fields2=f51,f52,f53,f54,f55,f56",
		c.baseURL, secID(symbol),
	)

	var resp klineResponse
	if err := c.httpClient.GetJSON(ctx, url, &resp); err != nil {
		return nil, nil, fmt.Errorf("fetch index daily %s: %w", symbol, err)
	}
	if resp.Data == nil {
		return nil, nil, nil
	}

	for _, line := range resp.Data.Klines {
		bar, err := parseKline(line)
		if err != nil {
			c.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"kline":  line,
				"error":  err.Error(),
			}).Warn("skipping malformed kline")
			continue
		}
		closeSeries = append(closeSeries, contracts.SeriesPoint{Date: bar.Date, Value: bar.Close})
		volumeSeries = append(volumeSeries, contracts.SeriesPoint{Date: bar.Date, Value: bar.Volume})
	}

	closeSeries = closeSeries.Normalize()
	volumeSeries = volumeSeries.Normalize()

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(closeSeries),
	}).Debug("fetched index daily bars")
	return closeSeries, volumeSeries, nil
}

// FetchFuturesDaily fetches the daily close series for an index futures
// contract. An empty symbol means the feed is not configured.
func (c *Client) FetchFuturesDaily(ctx context.Context, symbol string) (contracts.Series, error) {
	if symbol == "" {
		return nil, nil
	}
	closeSeries, _, err := c.FetchIndexDaily(ctx, symbol)
	return closeSeries, err
}

// FetchValuation fetches the index valuation (trailing P/E) series.
func (c *Client) FetchValuation(ctx context.Context, symbol string) (contracts.Series, error) {
	url := fmt.Sprintf("%s/api/qt/index/valuation?code=%s", c.baseURL, symbol)
	return c.fetchRecords(ctx, url, valuationColumns, "valuation")
}

// FetchBondYield fetches the 10-year government bond yield series, in
// percent.
func (c *Client) FetchBondYield(ctx context.Context) (contracts.Series, error) {
	url := fmt.Sprintf("%s/api/qt/bond/yield?code=CN10Y", c.baseURL)
	return c.fetchRecords(ctx, url, bondYieldColumns, "bond_yield")
}

// FetchMarginBalance fetches the market-wide margin financing balance
// series.
func (c *Client) FetchMarginBalance(ctx context.Context) (contracts.Series, error) {
	url := fmt.Sprintf("%s/api/qt/margin/balance", c.baseURL)
	return c.fetchRecords(ctx, url, marginColumns, "margin_balance")
}

func (c *Client) fetchRecords(ctx context.Context, url string, valueColumns []string, feed string) (contracts.Series, error) {
	var resp recordsResponse
	if err := c.httpClient.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feed, err)
	}

	series := normalizeRecords(resp.Data, valueColumns)

	c.logger.WithFields(map[string]interface{}{
		"feed":   feed,
		"points": len(series),
	}).Debug("fetched series")
	return series, nil
}

// parseKline parses one "date,open,close,high,low,volume" entry.
func parseKline(line string) (contracts.Bar, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 6 {
		return contracts.Bar{}, fmt.Errorf("expected 6 fields, got %d", len(parts))
	}

	date, err := parseFlexDate(parts[0])
	if err != nil {
		return contracts.Bar{}, err
	}

	values := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i+1]), 64)
		if err != nil {
			return contracts.Bar{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		values[i] = v
	}

	return contracts.Bar{
		Date:   date,
		Open:   values[0],
		Close:  values[1],
		High:   values[2],
		Low:    values[3],
		Volume: values[4],
	}, nil
}
