// Package stock quotes equities and resolves company names to tickers.
package stock

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"marketproxy/internal/provider"
	"marketproxy/internal/result"
)

// MsgSymbolNotFound is returned when the quote call yields nothing.
const MsgSymbolNotFound = "symbol not found"

// Price is the regular market price of one instrument. CurrentPrice is nil
// when the provider has no price.
type Price struct {
	Symbol       string   `json:"symbol"`
	CurrentPrice *float64 `json:"currentPrice"`
}

// Service looks up stocks through a StockProvider.
type Service struct {
	p   provider.StockProvider
	log *zap.Logger
}

// NewService returns a Service. log may be nil.
func NewService(p provider.StockProvider, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{p: p, log: log.Named("stock")}
}

// GetStockPrice quotes all symbols in a single provider call. Results keep
// the provider's order.
func (s *Service) GetStockPrice(ctx context.Context, symbols []string) result.Result[[]Price] {
	norm := make([]string, len(symbols))
	for i, sym := range symbols {
		norm[i] = strings.ToUpper(strings.TrimSpace(sym))
	}

	quotes, err := s.p.Quote(ctx, norm)
	if err != nil {
		s.log.Warn("quote failed", zap.Strings("symbols", norm), zap.Error(err))
		return result.FromError[[]Price](err)
	}
	if len(quotes) == 0 {
		return result.NotFound[[]Price](MsgSymbolNotFound)
	}

	out := make([]Price, 0, len(quotes))
	for _, q := range quotes {
		p := Price{Symbol: q.Symbol}
		if q.RegularMarketPrice != nil && *q.RegularMarketPrice != 0 {
			p.CurrentPrice = q.RegularMarketPrice
		}
		out = append(out, p)
	}
	return result.Success(out)
}

// SearchStock returns the provider's search document unchanged.
func (s *Service) SearchStock(ctx context.Context, query string) result.Result[provider.StockSearch] {
	found, err := s.p.Search(ctx, query)
	if err != nil {
		s.log.Warn("search failed", zap.String("query", query), zap.Error(err))
		return result.FromError[provider.StockSearch](err)
	}
	return result.Success(found)
}

// ResolveSymbols picks the tickers to quote. Explicit symbols win. Otherwise
// companyName is searched and the matching tickers are used; when the search
// fails the result is a single blank symbol, which the quote step reports as
// not found.
func (s *Service) ResolveSymbols(ctx context.Context, symbols []string, companyName string) []string {
	explicit := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		if sym = strings.TrimSpace(sym); sym != "" {
			explicit = append(explicit, sym)
		}
	}
	if len(explicit) > 0 {
		return explicit
	}

	var resolved []string
	s.SearchStock(ctx, companyName).Match(
		func(found provider.StockSearch) { resolved = found.Symbols() },
		func(f result.Failure) {
			s.log.Debug("company name not resolved", zap.String("companyName", companyName), zap.String("reason", f.Message))
			resolved = []string{""}
		},
	)
	return resolved
}
