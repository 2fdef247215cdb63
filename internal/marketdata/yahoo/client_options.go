package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chainfetch/internal/marketdata"
)

// OptionChainResponse is the envelope of the v7 options endpoint.
type OptionChainResponse struct {
	OptionChain struct {
		Result []OptionChainResult `json:"result"`
		Error  *APIError           `json:"error"`
	} `json:"optionChain"`
}

// OptionChainResult describes the listed expirations of an underlying plus the
// contracts of one expiration.
type OptionChainResult struct {
	UnderlyingSymbol string          `json:"underlyingSymbol"`
	ExpirationDates  []int64         `json:"expirationDates"`
	Quote            UnderlyingQuote `json:"quote"`
	Options          []OptionSet     `json:"options"`
}

type UnderlyingQuote struct {
	Symbol                      string   `json:"symbol"`
	RegularMarketPrice          *float64 `json:"regularMarketPrice"`
	TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield"`
	// DividendYield is quoted in percent.
	DividendYield *float64 `json:"dividendYield"`
}

type OptionSet struct {
	ExpirationDate int64      `json:"expirationDate"`
	Calls          []Contract `json:"calls"`
	Puts           []Contract `json:"puts"`
}

type Contract struct {
	ContractSymbol string   `json:"contractSymbol"`
	Strike         *float64 `json:"strike"`
	Bid            *float64 `json:"bid"`
	Ask            *float64 `json:"ask"`
	LastPrice      *float64 `json:"lastPrice"`
}

// Options retrieves the option listing of symbol. When expiration is nil Yahoo
// answers with the nearest expiration's contracts.
func (c *Client) Options(ctx context.Context, symbol string, expiration *time.Time) (*OptionChainResult, error) {
	res, err := c.options(ctx, symbol, expiration)
	if isAuthError(err) {
		// A stale session invalidates the crumb; the next call starts over.
		c.resetCrumb()
	}
	return res, err
}

func (c *Client) options(ctx context.Context, symbol string, expiration *time.Time) (*OptionChainResult, error) {
	crumb, err := c.sessionCrumb(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("crumb", crumb)
	if expiration != nil {
		query.Set("date", strconv.FormatInt(expiration.Unix(), 10))
	}

	var body OptionChainResponse
	path := "/v7/finance/options/" + url.PathEscape(strings.ToUpper(symbol))
	if err := c.getJSON(ctx, path, query, &body); err != nil {
		return nil, fmt.Errorf("options %s: %w", symbol, err)
	}
	if body.OptionChain.Error != nil {
		return nil, fmt.Errorf("options %s: %w", symbol, body.OptionChain.Error)
	}
	if len(body.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("options %s: %w", symbol, marketdata.ErrNotFound)
	}
	return &body.OptionChain.Result[0], nil
}
