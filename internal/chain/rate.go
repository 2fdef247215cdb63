package chain

import (
	"context"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var hundred = decimal.NewFromInt(100)

// DefaultFallbackRate is used when no reference yield can be read.
var DefaultFallbackRate = decimal.RequireFromString("0.02")

// ClosesFetcher serves reference yield series.
type ClosesFetcher interface {
	Closes(ctx context.Context, ticker string) ([]decimal.Decimal, error)
}

// RateSettings names the reference series. Yields are quoted in percent.
type RateSettings struct {
	ShortTicker string
	LongTicker  string
	Fallback    decimal.Decimal
}

// EstimateRiskFreeRate reads the latest close of the short-term series, then the
// long-term series, converting percent to a fraction. Lookup failures are not
// fatal; when both tiers come up empty the fallback constant is returned.
func EstimateRiskFreeRate(ctx context.Context, src ClosesFetcher, s RateSettings) decimal.Decimal {
	tier := func(ticker string) func() (decimal.Decimal, bool) {
		return func() (decimal.Decimal, bool) {
			if ticker == "" {
				return decimal.Decimal{}, false
			}
			closes, err := src.Closes(ctx, ticker)
			if err != nil {
				log.WithField("ticker", ticker).Warnf("reference yield unavailable: %v", err)
				return decimal.Decimal{}, false
			}
			if len(closes) == 0 {
				log.WithField("ticker", ticker).Warn("reference yield series is empty")
				return decimal.Decimal{}, false
			}
			return closes[len(closes)-1].Div(hundred), true
		}
	}

	if r, ok := FirstOf(tier(s.ShortTicker), tier(s.LongTicker)); ok {
		return r
	}
	log.WithField("rate", s.Fallback.String()).Warn("using fallback risk-free rate")
	return s.Fallback
}
