package eastmoney

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/feargreed/pkg/config"
	"github.com/quantlab/feargreed/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.ProviderConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, logger.NewTesting())
}

func TestFetchIndexDaily(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "secid=1.000300")
		w.Write([]byte(`{"data":{"code":"000300","klines":[
			"2026-01-02,3410.5,3420.25,3435.0,3400.1,23456789",
			"2026-01-05,3420.25,3402.0,3425.0,3390.0,21000000",
			"garbage-line"
		]}}`))
	})

	closeSeries, volumeSeries, err := client.FetchIndexDaily(context.Background(), "sh000300")
	require.NoError(t, err)

	require.Len(t, closeSeries, 2, "malformed klines are skipped")
	require.Len(t, volumeSeries, 2)

	assert.Equal(t, 3420.25, closeSeries[0].Value)
	assert.Equal(t, 3402.0, closeSeries[1].Value)
	assert.Equal(t, 23456789.0, volumeSeries[0].Value)
	assert.True(t, closeSeries[0].Date.Before(closeSeries[1].Date))
}

func TestFetchIndexDaily_EmptyPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	})

	closeSeries, volumeSeries, err := client.FetchIndexDaily(context.Background(), "sh000300")
	require.NoError(t, err, "empty upstream data is not an error")
	assert.Empty(t, closeSeries)
	assert.Empty(t, volumeSeries)
}

func TestFetchValuation_ColumnDrift(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Upstream renamed the P/E column; the fallback candidate still works
		w.Write([]byte(`{"data":[
			{"日期":"2026-01-02","市盈率TTM":12.4},
			{"日期":"2026年01月05日","市盈率TTM":"12.6"}
		]}`))
	})

	series, err := client.FetchValuation(context.Background(), "000300")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 12.4, series[0].Value)
	assert.Equal(t, 12.6, series[1].Value)
}

func TestFetchBondYield(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"date":"2026-01-02","rate":2.56}]}`))
	})

	series, err := client.FetchBondYield(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 2.56, series[0].Value)
}

func TestFetchFuturesDaily_UnconfiguredSymbol(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty symbol")
	})

	series, err := client.FetchFuturesDaily(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestFetchRecords_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchBondYield(context.Background())
	assert.Error(t, err)
}
