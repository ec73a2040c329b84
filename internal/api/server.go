// Package api exposes the crypto and stock lookups over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"marketproxy/internal/cache"
	"marketproxy/internal/crypto"
	"marketproxy/internal/provider"
	"marketproxy/internal/result"
	"marketproxy/internal/stock"
)

// CryptoService is the crypto lookup used by the handlers.
type CryptoService interface {
	GetCryptoPrice(ctx context.Context, symbol string) result.Result[crypto.Price]
	GetCryptoList(ctx context.Context, query string) result.Result[[]provider.Coin]
}

// StockService is the stock lookup used by the handlers.
type StockService interface {
	GetStockPrice(ctx context.Context, symbols []string) result.Result[[]stock.Price]
	SearchStock(ctx context.Context, query string) result.Result[provider.StockSearch]
	ResolveSymbols(ctx context.Context, symbols []string, companyName string) []string
}

// Options tunes the router. The zero value serves without a cache, allows
// any origin and logs nothing.
type Options struct {
	CORSOrigins []string
	// Cache is optional; nil disables response caching.
	Cache    cache.Store
	CacheTTL time.Duration
	// RequestTimeout is the deadline put on each request context; zero means none.
	RequestTimeout time.Duration
	Version  string
	Logger   *zap.Logger
}

// Server holds the routes and their dependencies.
type Server struct {
	router    chi.Router
	crypto    CryptoService
	stock     StockService
	opts      Options
	log       *zap.Logger
	startedAt time.Time
}

// NewServer wires the routes and middleware.
func NewServer(cs CryptoService, ss StockService, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	s := &Server{
		crypto:    cs,
		stock:     ss,
		opts:      opts,
		log:       log,
		startedAt: now(),
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(recoverPanic(s.log))
	if s.opts.RequestTimeout > 0 {
		r.Use(requestDeadline(s.opts.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Cache"},
		MaxAge:         300,
	}))
	r.Use(middleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, s.log, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, s.log, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	r.Get("/", s.handleHealth)
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.opts.Cache != nil && s.opts.CacheTTL > 0 {
			r.Use(responseCache(s.opts.Cache, s.opts.CacheTTL, s.log))
		}
		r.Route("/crypto", func(r chi.Router) {
			r.Get("/price", s.handleCryptoPrice)
			r.Get("/search", s.handleCryptoSearch)
		})
		r.Route("/stock", func(r chi.Router) {
			r.Get("/price", s.handleStockPrice)
			r.Get("/search", s.handleStockSearch)
		})
	})

	return r
}
