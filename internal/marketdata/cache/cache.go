package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"chainfetch/internal/marketdata"
)

// entry stores one cached value with expiry.
type entry struct {
	expiresAt time.Time
	value     any
}

// Source caches Chain, Closes and Expirations per key for a TTL.
// Errors are never cached. Spot and DividendYield pass through.
type Source struct {
	S        marketdata.Source
	TTL      time.Duration
	MaxItems int
	Now      func() time.Time

	mu    sync.RWMutex
	items map[string]entry
}

var _ marketdata.Source = (*Source)(nil)

func (c *Source) Name() string { return c.S.Name() }

func (c *Source) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Source) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *Source) put(key string, v any) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string]entry)
	}
	c.items[key] = entry{expiresAt: now.Add(c.TTL), value: v}

	if c.MaxItems <= 0 || len(c.items) <= c.MaxItems {
		return
	}
	// remove expired first, then arbitrary keys until under limit
	for k, e := range c.items {
		if !now.Before(e.expiresAt) {
			delete(c.items, k)
		}
	}
	for k := range c.items {
		if len(c.items) <= c.MaxItems {
			break
		}
		if k != key {
			delete(c.items, k)
		}
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *Source) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func lookup[T any](ctx context.Context, c *Source, key string, fetch func(context.Context) (T, error)) (T, error) {
	if c.TTL <= 0 {
		return fetch(ctx)
	}
	if v, ok := c.get(key); ok {
		return v.(T), nil
	}
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	c.put(key, v)
	return v, nil
}

func (c *Source) Spot(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return c.S.Spot(ctx, symbol)
}

func (c *Source) DividendYield(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return c.S.DividendYield(ctx, symbol)
}

func (c *Source) Expirations(ctx context.Context, symbol string) ([]time.Time, error) {
	symbol = strings.ToUpper(symbol)
	return lookup(ctx, c, "exp|"+symbol, func(ctx context.Context) ([]time.Time, error) {
		return c.S.Expirations(ctx, symbol)
	})
}

func (c *Source) Chain(ctx context.Context, symbol string, expiration time.Time) (marketdata.Chain, error) {
	symbol = strings.ToUpper(symbol)
	key := "chain|" + symbol + "|" + expiration.Format(time.DateOnly)
	return lookup(ctx, c, key, func(ctx context.Context) (marketdata.Chain, error) {
		return c.S.Chain(ctx, symbol, expiration)
	})
}

func (c *Source) Closes(ctx context.Context, ticker string) ([]decimal.Decimal, error) {
	ticker = strings.ToUpper(ticker)
	return lookup(ctx, c, "closes|"+ticker, func(ctx context.Context) ([]decimal.Decimal, error) {
		return c.S.Closes(ctx, ticker)
	})
}
