// Package polygon serves daily close history from the Polygon.io aggregates API.
package polygon

import (
	"context"
	"fmt"
	"strings"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"chainfetch/internal/marketdata"
)

// BarsFunc returns daily closes of ticker between from and to, oldest first.
type BarsFunc func(ctx context.Context, ticker string, from, to time.Time) ([]float64, error)

// History implements marketdata.HistorySource.
type History struct {
	Lookback time.Duration
	Now      func() time.Time
	bars     BarsFunc
}

var _ marketdata.HistorySource = (*History)(nil)

// New returns a History backed by the Polygon REST client.
func New(apiKey string, lookbackDays int) *History {
	return NewWithBars(listAggs(polygon.New(apiKey)), lookbackDays)
}

// NewWithBars returns a History backed by an arbitrary bar source.
func NewWithBars(bars BarsFunc, lookbackDays int) *History {
	if lookbackDays <= 0 {
		lookbackDays = 10
	}
	return &History{
		Lookback: time.Duration(lookbackDays) * 24 * time.Hour,
		Now:      time.Now,
		bars:     bars,
	}
}

func (h *History) Closes(ctx context.Context, ticker string) ([]decimal.Decimal, error) {
	to := h.Now()
	from := to.Add(-h.Lookback)
	symbol := Ticker(ticker)

	log.WithFields(log.Fields{"ticker": ticker, "polygon": symbol}).Debug("fetching polygon daily bars")

	closes, err := h.bars(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("polygon aggs %s: %w", symbol, err)
	}
	out := make([]decimal.Decimal, 0, len(closes))
	for _, c := range closes {
		if v := marketdata.FromFloat(&c); v.Valid {
			out = append(out, v.Decimal)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("polygon aggs %s: %w", symbol, marketdata.ErrNotFound)
	}
	return out, nil
}

// Ticker maps Yahoo-style index tickers (^IRX) to Polygon's (I:IRX).
func Ticker(t string) string {
	t = strings.ToUpper(strings.TrimSpace(t))
	if rest, ok := strings.CutPrefix(t, "^"); ok {
		return "I:" + rest
	}
	return t
}

func listAggs(client *polygon.Client) BarsFunc {
	return func(ctx context.Context, ticker string, from, to time.Time) ([]float64, error) {
		params := models.ListAggsParams{
			Ticker:     ticker,
			Multiplier: 1,
			Timespan:   models.Day,
			From:       models.Millis(from),
			To:         models.Millis(to),
		}.WithOrder(models.Asc).WithAdjusted(true)

		iter := client.ListAggs(ctx, params)

		var closes []float64
		for iter.Next() {
			closes = append(closes, iter.Item().Close)
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return closes, nil
	}
}
