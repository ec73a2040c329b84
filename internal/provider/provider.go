package provider

import (
	"context"
	"encoding/json"
	"strings"
)

//go:generate mockgen -destination=providertest/mock_provider.go -package=providertest marketproxy/internal/provider CryptoProvider,StockProvider

// CryptoProvider resolves coin candidates and coin details.
type CryptoProvider interface {
	Name() string
	SearchCoins(ctx context.Context, query string) (CoinSearch, error)
	Coin(ctx context.Context, id string) (CoinDetail, error)
}

// StockProvider quotes tickers and searches instruments.
type StockProvider interface {
	Name() string
	Quote(ctx context.Context, symbols []string) ([]StockQuote, error)
	Search(ctx context.Context, query string) (StockSearch, error)
}

// CoinSearch is the candidate list returned by a coin search.
type CoinSearch struct {
	Coins []Coin `json:"coins"`
}

// Coin is one search candidate. The upstream object is kept verbatim so it can
// be re-emitted unchanged; ID and Symbol are decoded for matching.
type Coin struct {
	ID     string
	Symbol string
	raw    json.RawMessage
}

// NewCoin builds a Coin without upstream JSON, mainly for tests.
func NewCoin(id, symbol string) Coin {
	raw, _ := json.Marshal(map[string]string{"id": id, "symbol": symbol})
	return Coin{ID: id, Symbol: symbol, raw: raw}
}

func (c *Coin) UnmarshalJSON(b []byte) error {
	var head struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	c.ID, c.Symbol = head.ID, head.Symbol
	c.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (c Coin) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return json.Marshal(map[string]string{"id": c.ID, "symbol": c.Symbol})
	}
	return c.raw, nil
}

// CoinDetail is the subset of a coin document needed for pricing.
// CurrentPriceUSD is nil when the provider has no USD price.
type CoinDetail struct {
	ID              string
	Symbol          string
	CurrentPriceUSD *float64
}

// StockQuote is one quoted instrument. RegularMarketPrice is nil when absent.
type StockQuote struct {
	Symbol             string
	RegularMarketPrice *float64
}

// StockSearch is the provider's search document, passed through untouched.
type StockSearch struct {
	raw json.RawMessage
}

// NewStockSearch wraps a raw search document.
func NewStockSearch(raw []byte) StockSearch {
	return StockSearch{raw: append(json.RawMessage(nil), raw...)}
}

func (s StockSearch) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

func (s *StockSearch) UnmarshalJSON(b []byte) error {
	s.raw = append(json.RawMessage(nil), b...)
	return nil
}

// Symbols lists quotes[].symbol in order, skipping blank entries.
func (s StockSearch) Symbols() []string {
	var doc struct {
		Quotes []struct {
			Symbol string `json:"symbol"`
		} `json:"quotes"`
	}
	if len(s.raw) == 0 || json.Unmarshal(s.raw, &doc) != nil {
		return nil
	}
	out := make([]string, 0, len(doc.Quotes))
	for _, q := range doc.Quotes {
		if sym := strings.TrimSpace(q.Symbol); sym != "" {
			out = append(out, sym)
		}
	}
	return out
}
