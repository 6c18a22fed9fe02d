package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/quantsim/papertrader/internal/domain"
)

// Yahoo's chart endpoint rejects requests without a browser-ish agent.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// YahooClient fetches prices from the Yahoo Finance v8 chart API.
// The base URL is configurable so tests can point it at a local
// server.
type YahooClient struct {
	baseURL      string
	historyRange string
	client       *http.Client
}

// NewYahooClient creates a client with the given base URL, history
// range (e.g. "1y"), and per-request timeout.
func NewYahooClient(baseURL, historyRange string, timeout time.Duration) *YahooClient {
	return &YahooClient{
		baseURL:      baseURL,
		historyRange: historyRange,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// chartEnvelope is the subset of the chart API response we read.
// Close values can be null for market holidays, so they decode as
// pointers.
type chartEnvelope struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// LatestClose returns the most recent daily close for the symbol, in
// cents, rounded to 2 decimal places.
func (c *YahooClient) LatestClose(ctx context.Context, symbol string) (int64, error) {
	env, err := c.fetch(ctx, symbol, "1d")
	if err != nil {
		return 0, err
	}

	closes := env.Chart.Result[0].Indicators.Quote[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] == nil {
			continue
		}
		if pc := domain.RoundToCents(*closes[i]); pc > 0 {
			return pc, nil
		}
	}
	return 0, fmt.Errorf("no close price for %s", symbol)
}

// DailyCloses returns the configured range of daily closes for the
// symbol in chronological order. Null closes (market holidays) and
// values the rounding rejects are skipped.
func (c *YahooClient) DailyCloses(ctx context.Context, symbol string) ([]ClosePrice, error) {
	env, err := c.fetch(ctx, symbol, c.historyRange)
	if err != nil {
		return nil, err
	}

	result := env.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	series := make([]ClosePrice, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		pc := domain.RoundToCents(*closes[i])
		if pc == 0 {
			continue
		}
		series = append(series, ClosePrice{
			Date:       time.Unix(ts, 0).UTC(),
			PriceCents: pc,
		})
	}
	return series, nil
}

// fetch performs one chart API call and validates the response
// envelope.
func (c *YahooClient) fetch(ctx context.Context, symbol, rng string) (*chartEnvelope, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", rng)
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API returned status %d for %s", resp.StatusCode, symbol)
	}

	var env chartEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if env.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %v", env.Chart.Error)
	}
	if len(env.Chart.Result) == 0 || len(env.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}
	return &env, nil
}
