package yahoo

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"chainfetch/internal/marketdata"

	"github.com/shopspring/decimal"
)

// Config tunes the Source adapter.
type Config struct {
	Name string
	// ChartRange is the history window requested for Closes.
	ChartRange Range
	// QuoteTTL bounds how long the undated options response of a symbol is reused.
	QuoteTTL time.Duration
	Now      func() time.Time
}

type listing struct {
	fetchedAt time.Time
	result    *OptionChainResult
}

// Source adapts the Yahoo client to marketdata.Source.
type Source struct {
	client *Client
	cfg    Config

	mu       sync.Mutex
	listings map[string]listing
}

var _ marketdata.Source = (*Source)(nil)

func NewSource(client *Client, cfg Config) *Source {
	if cfg.Name == "" {
		cfg.Name = "yahoo"
	}
	if cfg.ChartRange == "" {
		cfg.ChartRange = Range5d
	}
	if cfg.QuoteTTL <= 0 {
		cfg.QuoteTTL = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Source{client: client, cfg: cfg, listings: make(map[string]listing)}
}

func (s *Source) Name() string { return s.cfg.Name }

// listing returns the undated options response of symbol, reusing a fresh one.
func (s *Source) listing(ctx context.Context, symbol string) (*OptionChainResult, error) {
	key := strings.ToUpper(symbol)
	now := s.cfg.Now()

	s.mu.Lock()
	l, ok := s.listings[key]
	s.mu.Unlock()
	if ok && now.Sub(l.fetchedAt) < s.cfg.QuoteTTL {
		return l.result, nil
	}

	res, err := s.client.Options(ctx, key, nil)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.listings[key] = listing{fetchedAt: now, result: res}
	s.mu.Unlock()
	return res, nil
}

func (s *Source) Spot(ctx context.Context, symbol string) (decimal.Decimal, error) {
	res, err := s.listing(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	p := marketdata.FromFloat(res.Quote.RegularMarketPrice)
	if !p.Valid || !p.Decimal.IsPositive() {
		return decimal.Zero, fmt.Errorf("spot %s: %w", symbol, marketdata.ErrNotFound)
	}
	return p.Decimal, nil
}

func (s *Source) Expirations(ctx context.Context, symbol string) ([]time.Time, error) {
	res, err := s.listing(ctx, symbol)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(res.ExpirationDates))
	for _, ts := range res.ExpirationDates {
		out = append(out, marketdata.Date(time.Unix(ts, 0).UTC()))
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return slices.Compact(out), nil
}

// DividendYield prefers the trailing annual yield (a fraction), then the
// forward yield which Yahoo quotes in percent.
func (s *Source) DividendYield(ctx context.Context, symbol string) (decimal.Decimal, error) {
	res, err := s.listing(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	if y := marketdata.FromFloat(res.Quote.TrailingAnnualDividendYield); y.Valid {
		return y.Decimal, nil
	}
	if y := marketdata.FromFloat(res.Quote.DividendYield); y.Valid {
		return y.Decimal.Div(decimal.NewFromInt(100)), nil
	}
	return decimal.Zero, nil
}

func (s *Source) Chain(ctx context.Context, symbol string, expiration time.Time) (marketdata.Chain, error) {
	// Yahoo keys expirations by the unix second of UTC midnight.
	date := marketdata.Date(expiration)
	res, err := s.client.Options(ctx, symbol, &date)
	if err != nil {
		return marketdata.Chain{}, err
	}
	if len(res.Options) == 0 {
		return marketdata.Chain{}, fmt.Errorf("chain %s %s: %w", symbol, date.Format(time.DateOnly), marketdata.ErrNotFound)
	}
	set := res.Options[0]
	// Unlisted dates are answered with the nearest listed expiration.
	if got := marketdata.Date(time.Unix(set.ExpirationDate, 0).UTC()); !got.Equal(date) {
		return marketdata.Chain{}, fmt.Errorf("chain %s %s: got expiration %s: %w",
			symbol, date.Format(time.DateOnly), got.Format(time.DateOnly), marketdata.ErrNotFound)
	}
	return marketdata.Chain{
		Calls: toQuotes(set.Calls),
		Puts:  toQuotes(set.Puts),
	}, nil
}

func toQuotes(contracts []Contract) []marketdata.Quote {
	out := make([]marketdata.Quote, 0, len(contracts))
	for _, c := range contracts {
		k := marketdata.FromFloat(c.Strike)
		if !k.Valid || !k.Decimal.IsPositive() {
			continue
		}
		out = append(out, marketdata.Quote{
			Strike: k.Decimal,
			Bid:    marketdata.FromFloat(c.Bid),
			Ask:    marketdata.FromFloat(c.Ask),
			Last:   marketdata.FromFloat(c.LastPrice),
		})
	}
	return out
}

func (s *Source) Closes(ctx context.Context, ticker string) ([]decimal.Decimal, error) {
	res, err := s.client.Chart(ctx, ticker, s.cfg.ChartRange, "1d")
	if err != nil {
		return nil, err
	}
	raw := res.Closes()
	out := make([]decimal.Decimal, 0, len(raw))
	for _, c := range raw {
		if c == nil || math.IsNaN(*c) || math.IsInf(*c, 0) {
			continue
		}
		out = append(out, decimal.NewFromFloat(*c))
	}
	return out, nil
}
