// Package ratelimit paces outbound provider calls with token buckets.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"marketproxy/internal/provider"
)

// NewLimiter returns a bucket refilled at perMinute tokens per minute holding
// up to burst tokens. It returns nil, meaning unlimited, when perMinute <= 0.
func NewLimiter(perMinute, burst int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

// Crypto gates every CryptoProvider call on a shared limiter.
type Crypto struct {
	P       provider.CryptoProvider
	Limiter *rate.Limiter
}

// WrapCrypto returns p unchanged when l is nil.
func WrapCrypto(p provider.CryptoProvider, l *rate.Limiter) provider.CryptoProvider {
	if l == nil {
		return p
	}
	return &Crypto{P: p, Limiter: l}
}

func (c *Crypto) Name() string { return c.P.Name() }

func (c *Crypto) SearchCoins(ctx context.Context, query string) (provider.CoinSearch, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return provider.CoinSearch{}, err
	}
	return c.P.SearchCoins(ctx, query)
}

func (c *Crypto) Coin(ctx context.Context, id string) (provider.CoinDetail, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return provider.CoinDetail{}, err
	}
	return c.P.Coin(ctx, id)
}

// Stock gates every StockProvider call on a shared limiter.
type Stock struct {
	P       provider.StockProvider
	Limiter *rate.Limiter
}

// WrapStock returns p unchanged when l is nil.
func WrapStock(p provider.StockProvider, l *rate.Limiter) provider.StockProvider {
	if l == nil {
		return p
	}
	return &Stock{P: p, Limiter: l}
}

func (s *Stock) Name() string { return s.P.Name() }

func (s *Stock) Quote(ctx context.Context, symbols []string) ([]provider.StockQuote, error) {
	if err := s.Limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.P.Quote(ctx, symbols)
}

func (s *Stock) Search(ctx context.Context, query string) (provider.StockSearch, error) {
	if err := s.Limiter.Wait(ctx); err != nil {
		return provider.StockSearch{}, err
	}
	return s.P.Search(ctx, query)
}
