// Package fixture serves market data from a YAML snapshot for offline runs.
package fixture

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"chainfetch/internal/marketdata"
)

type Contract struct {
	Strike float64  `yaml:"strike"`
	Bid    *float64 `yaml:"bid"`
	Ask    *float64 `yaml:"ask"`
	Last   *float64 `yaml:"last"`
}

type Expiration struct {
	Date  string     `yaml:"date"`
	Calls []Contract `yaml:"calls"`
	Puts  []Contract `yaml:"puts"`
}

type Underlying struct {
	Spot          *float64     `yaml:"spot"`
	DividendYield *float64     `yaml:"dividend_yield"`
	Expirations   []Expiration `yaml:"expirations"`
}

// Snapshot is the on-disk layout.
type Snapshot struct {
	Underlyings map[string]Underlying `yaml:"underlyings"`
	// Closes holds daily closes per ticker, oldest first; null marks a gap.
	Closes map[string][]*float64 `yaml:"closes"`
}

// Source implements marketdata.Source over a Snapshot.
type Source struct {
	snap Snapshot
}

var _ marketdata.Source = (*Source)(nil)

// Load reads a snapshot file.
func Load(path string) (*Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Source, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	for sym, u := range snap.Underlyings {
		for _, e := range u.Expirations {
			if _, err := time.Parse(time.DateOnly, e.Date); err != nil {
				return nil, fmt.Errorf("parse fixture: %s expiration %q: %w", sym, e.Date, err)
			}
		}
	}
	return New(snap), nil
}

func New(snap Snapshot) *Source {
	norm := Snapshot{
		Underlyings: make(map[string]Underlying, len(snap.Underlyings)),
		Closes:      make(map[string][]*float64, len(snap.Closes)),
	}
	for k, v := range snap.Underlyings {
		norm.Underlyings[strings.ToUpper(k)] = v
	}
	for k, v := range snap.Closes {
		norm.Closes[strings.ToUpper(k)] = v
	}
	return &Source{snap: norm}
}

func (s *Source) Name() string { return "fixture" }

func (s *Source) underlying(symbol string) (Underlying, error) {
	u, ok := s.snap.Underlyings[strings.ToUpper(symbol)]
	if !ok {
		return Underlying{}, fmt.Errorf("fixture %s: %w", symbol, marketdata.ErrNotFound)
	}
	return u, nil
}

func (s *Source) Spot(_ context.Context, symbol string) (decimal.Decimal, error) {
	u, err := s.underlying(symbol)
	if err != nil {
		return decimal.Zero, err
	}
	p := marketdata.FromFloat(u.Spot)
	if !p.Valid || !p.Decimal.IsPositive() {
		return decimal.Zero, fmt.Errorf("fixture %s spot: %w", symbol, marketdata.ErrNotFound)
	}
	return p.Decimal, nil
}

func (s *Source) Expirations(_ context.Context, symbol string) ([]time.Time, error) {
	u, err := s.underlying(symbol)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(u.Expirations))
	for _, e := range u.Expirations {
		d, _ := time.Parse(time.DateOnly, e.Date)
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out, nil
}

func (s *Source) Chain(_ context.Context, symbol string, expiration time.Time) (marketdata.Chain, error) {
	u, err := s.underlying(symbol)
	if err != nil {
		return marketdata.Chain{}, err
	}
	want := expiration.Format(time.DateOnly)
	for _, e := range u.Expirations {
		if e.Date == want {
			return marketdata.Chain{Calls: toQuotes(e.Calls), Puts: toQuotes(e.Puts)}, nil
		}
	}
	return marketdata.Chain{}, fmt.Errorf("fixture %s chain %s: %w", symbol, want, marketdata.ErrNotFound)
}

func toQuotes(cs []Contract) []marketdata.Quote {
	out := make([]marketdata.Quote, 0, len(cs))
	for _, c := range cs {
		if c.Strike <= 0 {
			continue
		}
		out = append(out, marketdata.Quote{
			Strike: decimal.NewFromFloat(c.Strike),
			Bid:    marketdata.FromFloat(c.Bid),
			Ask:    marketdata.FromFloat(c.Ask),
			Last:   marketdata.FromFloat(c.Last),
		})
	}
	return out
}

func (s *Source) DividendYield(_ context.Context, symbol string) (decimal.Decimal, error) {
	u, err := s.underlying(symbol)
	if err != nil {
		return decimal.Zero, err
	}
	if y := marketdata.FromFloat(u.DividendYield); y.Valid {
		return y.Decimal, nil
	}
	return decimal.Zero, fmt.Errorf("fixture %s dividend yield: %w", symbol, marketdata.ErrNotFound)
}

func (s *Source) Closes(_ context.Context, ticker string) ([]decimal.Decimal, error) {
	raw, ok := s.snap.Closes[strings.ToUpper(ticker)]
	if !ok {
		return nil, fmt.Errorf("fixture closes %s: %w", ticker, marketdata.ErrNotFound)
	}
	out := make([]decimal.Decimal, 0, len(raw))
	for _, c := range raw {
		if v := marketdata.FromFloat(c); v.Valid {
			out = append(out, v.Decimal)
		}
	}
	return out, nil
}
