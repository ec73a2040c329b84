package api

import (
	"net/http"
	"strings"
	"time"

	"marketproxy/internal/crypto"
	"marketproxy/internal/provider"
	"marketproxy/internal/result"
	"marketproxy/internal/stock"
)

const (
	msgCryptoPrice  = "Get crypto price successfully."
	msgCryptoSearch = "Search crypto list successfully."
	msgStockPrice   = "Get stock price successfully."
	msgStockSearch  = "Search stock list successfully."
)

// Health is the payload of the root routes.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := Health{
		Status:  "ok",
		Version: s.opts.Version,
		Uptime:  now().Sub(s.startedAt).Truncate(time.Second).String(),
	}
	respond(w, s.log, result.Success(h), "OK")
}

// GET /crypto/price?symbol=ETH
func (s *Server) handleCryptoPrice(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		respond(w, s.log, result.Invalid[crypto.Price]("symbol is required"), "")
		return
	}
	respond(w, s.log, s.crypto.GetCryptoPrice(r.Context(), symbol), msgCryptoPrice)
}

// GET /crypto/search?query=sol
func (s *Server) handleCryptoSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		respond(w, s.log, result.Invalid[[]provider.Coin]("query is required"), "")
		return
	}
	respond(w, s.log, s.crypto.GetCryptoList(r.Context(), query), msgCryptoSearch)
}

// GET /stock/price?symbols=AAPL,MSFT or ?symbols=AAPL&symbols=MSFT or ?companyName=Apple
func (s *Server) handleStockPrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var symbols []string
	for _, v := range q["symbols"] {
		symbols = append(symbols, splitCSV(v)...)
	}
	companyName := strings.TrimSpace(q.Get("companyName"))
	if len(symbols) == 0 && companyName == "" {
		respond(w, s.log, result.Invalid[[]stock.Price]("symbols or companyName is required"), "")
		return
	}
	resolved := s.stock.ResolveSymbols(r.Context(), symbols, companyName)
	respond(w, s.log, s.stock.GetStockPrice(r.Context(), resolved), msgStockPrice)
}

// GET /stock/search?query=apple
func (s *Server) handleStockSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		respond(w, s.log, result.Invalid[provider.StockSearch]("query is required"), "")
		return
	}
	respond(w, s.log, s.stock.SearchStock(r.Context(), query), msgStockSearch)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
