package ratelimit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"chainfetch/internal/marketdata"
)

// Source wraps a marketdata.Source and gates every call through a limiter.
// Waiting callers return early if the context is canceled.
type Source struct {
	S       marketdata.Source
	Limiter *rate.Limiter
}

var _ marketdata.Source = (*Source)(nil)

// PerMinute allows rpm calls per minute with the given burst.
func PerMinute(s marketdata.Source, rpm, burst int) *Source {
	if burst <= 0 {
		burst = 1
	}
	return &Source{S: s, Limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60), burst)}
}

// MinInterval enforces at least interval between consecutive calls.
func MinInterval(s marketdata.Source, interval time.Duration) *Source {
	return &Source{S: s, Limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// New picks a minimum interval when set, else a per-minute budget. With
// neither the source is returned unwrapped.
func New(s marketdata.Source, rpm, burst int, interval time.Duration) marketdata.Source {
	switch {
	case interval > 0:
		return MinInterval(s, interval)
	case rpm > 0:
		return PerMinute(s, rpm, burst)
	}
	return s
}

func (r *Source) wait(ctx context.Context) error {
	if r.Limiter == nil {
		return nil
	}
	return r.Limiter.Wait(ctx)
}

func (r *Source) Name() string { return r.S.Name() }

func (r *Source) Spot(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := r.wait(ctx); err != nil {
		return decimal.Zero, err
	}
	return r.S.Spot(ctx, symbol)
}

func (r *Source) Expirations(ctx context.Context, symbol string) ([]time.Time, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.S.Expirations(ctx, symbol)
}

func (r *Source) Chain(ctx context.Context, symbol string, expiration time.Time) (marketdata.Chain, error) {
	if err := r.wait(ctx); err != nil {
		return marketdata.Chain{}, err
	}
	return r.S.Chain(ctx, symbol, expiration)
}

func (r *Source) DividendYield(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := r.wait(ctx); err != nil {
		return decimal.Zero, err
	}
	return r.S.DividendYield(ctx, symbol)
}

func (r *Source) Closes(ctx context.Context, ticker string) ([]decimal.Decimal, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.S.Closes(ctx, ticker)
}
