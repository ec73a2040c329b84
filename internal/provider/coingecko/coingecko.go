// Package coingecko is a CryptoProvider backed by the CoinGecko public API.
package coingecko

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"

	"marketproxy/internal/httpx"
	"marketproxy/internal/provider"
)

const (
	// DefaultBaseURL is the public v3 API root.
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	name           = "coingecko"
)

// Client talks to CoinGecko.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	retryCount int
	log        *zap.Logger
	http       *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. the pro host or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithAPIKey sends the key on every request. Pro hosts get the pro header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTimeout bounds each upstream call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetryCount sets how many times transient failures are retried.
func WithRetryCount(n int) Option {
	return func(c *Client) { c.retryCount = n }
}

// WithLogger sets the logger for retries and request failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRestyClient replaces the underlying HTTP client entirely. Other
// transport options are ignored when this is set.
func WithRestyClient(rc *resty.Client) Option {
	return func(c *Client) { c.http = rc }
}

// New builds a CoinGecko client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: 10 * time.Second,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		headers := map[string]string{}
		if c.apiKey != "" {
			headers[apiKeyHeader(c.baseURL)] = c.apiKey
		}
		c.http = httpx.New(httpx.Options{
			BaseURL:    c.baseURL,
			Timeout:    c.timeout,
			RetryCount: c.retryCount,
			Headers:    headers,
			Logger:     c.log.Named(name),
		})
	}
	return c
}

func apiKeyHeader(baseURL string) string {
	if strings.Contains(baseURL, "pro-api.") {
		return "x-cg-pro-api-key"
	}
	return "x-cg-demo-api-key"
}

func (c *Client) Name() string { return name }

// Close releases idle connections.
func (c *Client) Close() error { return c.http.Close() }

// SearchCoins calls GET /search?query=.
func (c *Client) SearchCoins(ctx context.Context, query string) (provider.CoinSearch, error) {
	var out provider.CoinSearch
	if err := httpx.GetJSON(ctx, c.http, name, "/search", map[string]string{"query": query}, &out); err != nil {
		c.log.Debug("coin search failed", zap.String("query", query), zap.Error(err))
		return provider.CoinSearch{}, err
	}
	return out, nil
}

type coinDocument struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	MarketData *struct {
		CurrentPrice map[string]*float64 `json:"current_price"`
	} `json:"market_data"`
}

// Coin calls GET /coins/{id} and extracts the USD price.
func (c *Client) Coin(ctx context.Context, id string) (provider.CoinDetail, error) {
	q := map[string]string{
		"localization":   "false",
		"tickers":        "false",
		"community_data": "false",
		"developer_data": "false",
	}
	var doc coinDocument
	if err := httpx.GetJSON(ctx, c.http, name, "/coins/"+url.PathEscape(id), q, &doc); err != nil {
		c.log.Debug("coin detail failed", zap.String("id", id), zap.Error(err))
		return provider.CoinDetail{}, err
	}
	detail := provider.CoinDetail{ID: doc.ID, Symbol: doc.Symbol}
	if doc.MarketData != nil {
		detail.CurrentPriceUSD = doc.MarketData.CurrentPrice["usd"]
	}
	return detail, nil
}
