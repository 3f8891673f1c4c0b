package eastmoney

import (
	"strings"

	"github.com/quantlab/feargreed/pkg/config"
	"github.com/quantlab/feargreed/pkg/httputil"
	"github.com/quantlab/feargreed/pkg/logger"
)

// Client fetches the daily time series the pipeline consumes. All upstream
// schema quirks (column-name drift, date-format drift) are absorbed here;
// everything past this boundary sees one canonical Series shape per feed.
type Client struct {
	baseURL    string
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewClient creates a provider client
func NewClient(cfg config.ProviderConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httputil.New(cfg, log).WithRateLimit(cfg.RatePerSecond),
		logger:     log.WithComponent("eastmoney"),
	}
}

// secID converts an exchange-prefixed symbol to the provider's market.code
// form: sh000300 -> 1.000300, sz399001 -> 0.399001. Bare codes default to
// the Shanghai market.
func secID(symbol string) string {
	switch {
	case strings.HasPrefix(symbol, "sh"):
		return "1." + symbol[2:]
	case strings.HasPrefix(symbol, "sz"):
		return "0." + symbol[2:]
	default:
		return "1." + symbol
	}
}
