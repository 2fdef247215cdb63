package marketdata

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a provider has no data for the requested key.
var ErrNotFound = errors.New("not found")

// Quote is one contract's market state at fetch time.
// Absent bid/ask/last are represented as invalid NullDecimals, never as zero.
type Quote struct {
	Strike decimal.Decimal
	Bid    decimal.NullDecimal
	Ask    decimal.NullDecimal
	Last   decimal.NullDecimal
}

// Chain holds both quote tables of a single expiration.
type Chain struct {
	Calls []Quote
	Puts  []Quote
}

// FromFloat converts a provider float into a NullDecimal.
// NaN, infinities and negative values are treated as absent.
func FromFloat(f *float64) decimal.NullDecimal {
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) || *f < 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*f))
}

// HistorySource serves daily close series.
type HistorySource interface {
	Closes(ctx context.Context, ticker string) ([]decimal.Decimal, error)
}

// WithHistory returns a Source whose Closes are served by h instead of primary.
func WithHistory(primary Source, h HistorySource) Source {
	if h == nil {
		return primary
	}
	return &withHistory{Source: primary, history: h}
}

type withHistory struct {
	Source
	history HistorySource
}

func (w *withHistory) Closes(ctx context.Context, ticker string) ([]decimal.Decimal, error) {
	return w.history.Closes(ctx, ticker)
}

// Date truncates t to its calendar date at UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
