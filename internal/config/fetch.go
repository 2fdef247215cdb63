package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideCalls Side = "calls"
	SidePuts  Side = "puts"
	SideBoth  Side = "both"
)

func (s Side) IncludesCalls() bool { return s == SideCalls || s == SideBoth }
func (s Side) IncludesPuts() bool  { return s == SidePuts || s == SideBoth }

// ParseSide accepts calls, puts or both in any case.
func ParseSide(v string) (Side, error) {
	switch s := Side(strings.ToLower(strings.TrimSpace(v))); s {
	case SideCalls, SidePuts, SideBoth:
		return s, nil
	}
	return "", fmt.Errorf("invalid side %q: want calls, puts or both", v)
}

// FetchConfig is the resolved, immutable configuration of one run.
type FetchConfig struct {
	Symbol string
	// Expiration is the requested maturity as given by the user; empty selects
	// the nearest listed date on or after today.
	Expiration string
	Side       Side
	StrikeMin  decimal.NullDecimal
	StrikeMax  decimal.NullDecimal
	// Limit caps rows per side; 0 means unbounded.
	Limit      int
	OutputPath string
}

// Overrides carries explicitly provided values. Nil means "not given".
type Overrides struct {
	Symbol     *string
	Expiration *string
	Side       *string
	KMin       *float64
	KMax       *float64
	Limit      *int
	Out        *string
}

// Resolve merges overrides onto defaults, field by field, and validates the result.
func Resolve(def Fetch, o Overrides) (FetchConfig, error) {
	symbol := pick(o.Symbol, def.Symbol)
	side, err := ParseSide(pick(o.Side, def.Side))
	if err != nil {
		return FetchConfig{}, err
	}

	kmin, kmax := def.KMin, def.KMax
	if o.KMin != nil {
		kmin = o.KMin
	}
	if o.KMax != nil {
		kmax = o.KMax
	}
	if !finite(kmin) || !finite(kmax) {
		return FetchConfig{}, fmt.Errorf("invalid strike bounds: must be finite numbers")
	}

	limit := def.Limit
	if o.Limit != nil {
		limit = *o.Limit
	}
	if limit < 0 {
		return FetchConfig{}, fmt.Errorf("invalid limit %d: must be non-negative", limit)
	}

	cfg := FetchConfig{
		Symbol:     strings.ToUpper(strings.TrimSpace(symbol)),
		Expiration: strings.TrimSpace(pick(o.Expiration, def.Expiration)),
		Side:       side,
		StrikeMin:  nullFromFloat(kmin),
		StrikeMax:  nullFromFloat(kmax),
		Limit:      limit,
		OutputPath: pick(o.Out, def.Out),
	}
	if cfg.Symbol == "" {
		return FetchConfig{}, fmt.Errorf("symbol is required")
	}
	if cfg.OutputPath == "" {
		return FetchConfig{}, fmt.Errorf("output path is required")
	}
	return cfg, nil
}

// pick returns the override when present and non-empty.
func pick(o *string, def string) string {
	if o != nil && *o != "" {
		return *o
	}
	return def
}

// finite reports whether f is absent or a finite number.
func finite(f *float64) bool {
	return f == nil || !(math.IsNaN(*f) || math.IsInf(*f, 0))
}

func nullFromFloat(f *float64) decimal.NullDecimal {
	if f == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*f))
}
