package chain

import (
	"github.com/shopspring/decimal"

	"chainfetch/internal/marketdata"
)

var two = decimal.NewFromInt(2)

// Price returns the representative market price of q: the bid/ask midpoint when
// a two-sided market exists, otherwise a positive last trade price.
func Price(q marketdata.Quote) (decimal.Decimal, bool) {
	return FirstOf(
		func() (decimal.Decimal, bool) { return midpoint(q) },
		func() (decimal.Decimal, bool) { return lastTrade(q) },
	)
}

// midpoint requires both sides present, ask > 0 and bid >= 0.
func midpoint(q marketdata.Quote) (decimal.Decimal, bool) {
	if !q.Bid.Valid || !q.Ask.Valid {
		return decimal.Decimal{}, false
	}
	if !q.Ask.Decimal.IsPositive() || q.Bid.Decimal.IsNegative() {
		return decimal.Decimal{}, false
	}
	return q.Bid.Decimal.Add(q.Ask.Decimal).Div(two), true
}

func lastTrade(q marketdata.Quote) (decimal.Decimal, bool) {
	if !q.Last.Valid || !q.Last.Decimal.IsPositive() {
		return decimal.Decimal{}, false
	}
	return q.Last.Decimal, true
}
