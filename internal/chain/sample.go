package chain

import (
	"slices"

	"github.com/shopspring/decimal"

	"chainfetch/internal/marketdata"
)

// Sample keeps quotes with strikes inside [kmin, kmax] (unset bounds are open),
// orders them by distance to spot with the lower strike first on ties, and keeps
// the first limit entries when limit > 0. The input slice is left untouched.
func Sample(quotes []marketdata.Quote, kmin, kmax decimal.NullDecimal, spot decimal.Decimal, limit int) []marketdata.Quote {
	type ranked struct {
		q    marketdata.Quote
		dist decimal.Decimal
	}

	kept := make([]ranked, 0, len(quotes))
	for _, q := range quotes {
		if !InRange(q.Strike, kmin, kmax) {
			continue
		}
		kept = append(kept, ranked{q: q, dist: q.Strike.Sub(spot).Abs()})
	}

	slices.SortStableFunc(kept, func(a, b ranked) int {
		if c := a.dist.Cmp(b.dist); c != 0 {
			return c
		}
		return a.q.Strike.Cmp(b.q.Strike)
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	out := make([]marketdata.Quote, len(kept))
	for i, r := range kept {
		out[i] = r.q
	}
	return out
}

// InRange reports whether strike satisfies the optional inclusive bounds.
func InRange(strike decimal.Decimal, kmin, kmax decimal.NullDecimal) bool {
	if kmin.Valid && strike.LessThan(kmin.Decimal) {
		return false
	}
	if kmax.Valid && strike.GreaterThan(kmax.Decimal) {
		return false
	}
	return true
}
