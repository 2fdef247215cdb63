package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"chainfetch/internal/marketdata"
)

type Range string

const (
	Range1d  Range = "1d"
	Range5d  Range = "5d"
	Range1mo Range = "1mo"
)

// ChartResponse is the envelope of the v8 chart endpoint.
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *APIError     `json:"error"`
	} `json:"chart"`
}

type ChartResult struct {
	Meta       ChartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			// Close entries are null for sessions without a print.
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type ChartMeta struct {
	Symbol             string   `json:"symbol"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
}

// Closes returns the close series of the first quote indicator, nulls included.
func (r *ChartResult) Closes() []*float64 {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	return r.Indicators.Quote[0].Close
}

// Chart retrieves daily bars of ticker over rng. Needs no crumb.
func (c *Client) Chart(ctx context.Context, ticker string, rng Range, interval string) (*ChartResult, error) {
	query := url.Values{}
	query.Set("range", string(rng))
	query.Set("interval", interval)

	var body ChartResponse
	path := "/v8/finance/chart/" + url.PathEscape(strings.ToUpper(ticker))
	if err := c.getJSON(ctx, path, query, &body); err != nil {
		return nil, fmt.Errorf("chart %s: %w", ticker, err)
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %w", ticker, body.Chart.Error)
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: %w", ticker, marketdata.ErrNotFound)
	}
	return &body.Chart.Result[0], nil
}
