package marketdata

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Source is the narrow view of a market-data provider used by the chain pipeline.
// Every call may fail independently; callers decide which failures are fatal.
//
//go:generate mockgen -package=chain_test -destination=../chain/mock_source_test.go -source=source.go Source
type Source interface {
	Name() string
	// Spot returns the current price of symbol.
	Spot(ctx context.Context, symbol string) (decimal.Decimal, error)
	// Expirations returns the listed expiration dates for symbol, ascending, as UTC midnights.
	Expirations(ctx context.Context, symbol string) ([]time.Time, error)
	// Chain returns the call and put quote tables for one expiration.
	Chain(ctx context.Context, symbol string, expiration time.Time) (Chain, error)
	// DividendYield returns the annualized dividend yield of symbol as a fraction.
	DividendYield(ctx context.Context, symbol string) (decimal.Decimal, error)
	// Closes returns recent daily closes of ticker, oldest first, without gaps.
	Closes(ctx context.Context, ticker string) ([]decimal.Decimal, error)
}
