// Package crypto resolves cryptocurrency symbols to USD prices.
package crypto

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"marketproxy/internal/provider"
	"marketproxy/internal/result"
)

// MsgSymbolNotFound is returned when no coin matches the requested symbol.
const MsgSymbolNotFound = "symbol not found"

// Price is the USD price of one coin. CurrentPrice is nil when unknown.
type Price struct {
	Symbol       string   `json:"symbol"`
	CurrentPrice *float64 `json:"currentPrice"`
}

// Service looks up coins through a CryptoProvider.
type Service struct {
	p   provider.CryptoProvider
	log *zap.Logger
}

// NewService returns a Service. log may be nil.
func NewService(p provider.CryptoProvider, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{p: p, log: log.Named("crypto")}
}

// GetCryptoPrice searches for symbol, picks the first exact symbol match and
// reads its current USD price.
func (s *Service) GetCryptoPrice(ctx context.Context, symbol string) result.Result[Price] {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	found, err := s.p.SearchCoins(ctx, symbol)
	if err != nil {
		s.log.Warn("coin search failed", zap.String("symbol", symbol), zap.Error(err))
		return result.FromError[Price](err)
	}

	var id string
	for _, c := range found.Coins {
		if c.Symbol == symbol {
			id = c.ID
			break
		}
	}
	if id == "" {
		return result.NotFound[Price](MsgSymbolNotFound)
	}

	detail, err := s.p.Coin(ctx, id)
	if err != nil {
		s.log.Warn("coin detail failed", zap.String("symbol", symbol), zap.String("id", id), zap.Error(err))
		return result.FromError[Price](err)
	}
	return result.Success(Price{Symbol: symbol, CurrentPrice: detail.CurrentPriceUSD})
}

// GetCryptoList returns the raw candidates for query.
func (s *Service) GetCryptoList(ctx context.Context, query string) result.Result[[]provider.Coin] {
	found, err := s.p.SearchCoins(ctx, query)
	if err != nil {
		s.log.Warn("coin search failed", zap.String("query", query), zap.Error(err))
		return result.FromError[[]provider.Coin](err)
	}
	if found.Coins == nil {
		found.Coins = []provider.Coin{}
	}
	return result.Success(found.Coins)
}
