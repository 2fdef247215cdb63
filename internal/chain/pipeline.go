package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"chainfetch/internal/config"
	"chainfetch/internal/marketdata"
)

var (
	ErrSpotUnavailable = errors.New("failed to get spot price")
	ErrNoRows          = errors.New("no valid options found under filters")
)

type Options struct {
	Rates RateSettings
	// Now returns the current time; the trade date is its calendar date.
	Now func() time.Time
}

// Result is the outcome of a successful run.
type Result struct {
	Rows     []Row
	Spot     decimal.Decimal
	Rate     decimal.Decimal
	Yield    decimal.Decimal
	Maturity time.Time
}

// Run fetches the inputs for cfg from src and builds the normalized rows.
// It never touches the filesystem.
func Run(ctx context.Context, src marketdata.Source, cfg config.FetchConfig, opts Options) (Result, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	tradeDate := marketdata.Date(now())
	logger := log.WithFields(log.Fields{"symbol": cfg.Symbol, "source": src.Name()})

	spot, ok := FirstOf(
		func() (decimal.Decimal, bool) {
			s, err := src.Spot(ctx, cfg.Symbol)
			if err != nil {
				logger.Warnf("spot lookup failed, trying last close: %v", err)
				return decimal.Decimal{}, false
			}
			return s, s.IsPositive()
		},
		func() (decimal.Decimal, bool) {
			closes, err := src.Closes(ctx, cfg.Symbol)
			if err != nil || len(closes) == 0 {
				return decimal.Decimal{}, false
			}
			last := closes[len(closes)-1]
			return last, last.IsPositive()
		},
	)
	if !ok {
		return Result{}, ErrSpotUnavailable
	}

	rate := EstimateRiskFreeRate(ctx, src, opts.Rates)

	yield, err := src.DividendYield(ctx, cfg.Symbol)
	switch {
	case err != nil:
		logger.Warnf("dividend yield unavailable, using 0: %v", err)
		yield = decimal.Zero
	case yield.IsNegative():
		logger.WithField("yield", yield.String()).Warn("negative dividend yield, using 0")
		yield = decimal.Zero
	}

	dates, err := src.Expirations(ctx, cfg.Symbol)
	if err != nil {
		return Result{}, fmt.Errorf("list expirations: %w", err)
	}
	maturity, err := SelectExpiration(dates, cfg.Expiration, now())
	if err != nil {
		return Result{}, err
	}

	ch, err := src.Chain(ctx, cfg.Symbol, maturity)
	if err != nil {
		return Result{}, fmt.Errorf("fetch option chain %s: %w", maturity.Format(isoDate), err)
	}
	logger.WithFields(log.Fields{
		"maturity": maturity.Format(isoDate),
		"calls":    len(ch.Calls),
		"puts":     len(ch.Puts),
	}).Debug("fetched option chain")

	rc := RowContext{
		Symbol:        cfg.Symbol,
		TradeDate:     tradeDate,
		Spot:          spot,
		Rate:          rate,
		DividendYield: yield,
		Maturity:      maturity,
	}

	// Sampling only ranks here; the per-side limit is applied after pricing so
	// unpriceable contracts near the money do not use up slots.
	var records []Record
	if cfg.Side.IncludesCalls() {
		ranked := Sample(ch.Calls, cfg.StrikeMin, cfg.StrikeMax, spot, 0)
		records = append(records, Build(Call, ranked, rc, cfg.Limit)...)
	}
	if cfg.Side.IncludesPuts() {
		ranked := Sample(ch.Puts, cfg.StrikeMin, cfg.StrikeMax, spot, 0)
		records = append(records, Build(Put, ranked, rc, cfg.Limit)...)
	}

	rows := Finalize(records)
	if len(rows) == 0 {
		return Result{}, ErrNoRows
	}
	return Result{Rows: rows, Spot: spot, Rate: rate, Yield: yield, Maturity: maturity}, nil
}
