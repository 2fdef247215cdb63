package chain_test

import (
	"time"

	"github.com/shopspring/decimal"

	"chainfetch/internal/marketdata"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func null(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func quote(strike, bid, ask, last string) marketdata.Quote {
	q := marketdata.Quote{Strike: dec(strike)}
	if bid != "" {
		q.Bid = null(bid)
	}
	if ask != "" {
		q.Ask = null(ask)
	}
	if last != "" {
		q.Last = null(last)
	}
	return q
}

func strikes(qs []marketdata.Quote) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Strike.String()
	}
	return out
}
