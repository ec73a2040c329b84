// Package yahoo is a StockProvider backed by the Yahoo Finance query API.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"resty.dev/v3"

	"marketproxy/internal/httpx"
	"marketproxy/internal/provider"
)

const (
	// DefaultBaseURL is the query host used for quotes and search.
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	// DefaultCookieURL hands out the session cookie required by getcrumb.
	DefaultCookieURL = "https://fc.yahoo.com"

	name       = "yahoo"
	quotePath  = "/v7/finance/quote"
	searchPath = "/v1/finance/search"
	crumbPath  = "/v1/test/getcrumb"
)

var errEmptyCrumb = errors.New("empty crumb")

// Client talks to Yahoo Finance.
type Client struct {
	baseURL      string
	cookieURL    string
	crumbEnabled bool
	timeout      time.Duration
	retryCount   int
	log          *zap.Logger
	http         *resty.Client

	sf    singleflight.Group
	mu    sync.RWMutex
	crumb string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the query host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithCookieURL overrides where the session cookie is obtained.
func WithCookieURL(u string) Option {
	return func(c *Client) { c.cookieURL = u }
}

// WithCrumb turns the cookie+crumb handshake on or off.
func WithCrumb(enabled bool) Option {
	return func(c *Client) { c.crumbEnabled = enabled }
}

// WithTimeout bounds each upstream call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetryCount sets how many times transient failures are retried.
func WithRetryCount(n int) Option {
	return func(c *Client) { c.retryCount = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRestyClient replaces the underlying HTTP client. It must keep a cookie
// jar when the crumb handshake is enabled.
func WithRestyClient(rc *resty.Client) Option {
	return func(c *Client) { c.http = rc }
}

// New builds a Yahoo Finance client. The crumb handshake is on by default.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		cookieURL:    DefaultCookieURL,
		crumbEnabled: true,
		timeout:      10 * time.Second,
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpx.New(httpx.Options{
			BaseURL:    c.baseURL,
			Timeout:    c.timeout,
			RetryCount: c.retryCount,
			Logger:     c.log.Named(name),
		})
	}
	return c
}

func (c *Client) Name() string { return name }

// Close releases idle connections.
func (c *Client) Close() error { return c.http.Close() }

type quoteDocument struct {
	QuoteResponse struct {
		Result []struct {
			Symbol             string   `json:"symbol"`
			RegularMarketPrice *float64 `json:"regularMarketPrice"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// Quote fetches all symbols in one call. Blank symbols are dropped; when none
// remain the result is empty and no request is made.
func (c *Client) Quote(ctx context.Context, symbols []string) ([]provider.StockQuote, error) {
	clean := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	if len(clean) == 0 {
		return nil, nil
	}

	q := map[string]string{"symbols": strings.Join(clean, ",")}
	var doc quoteDocument
	if err := c.getJSON(ctx, quotePath, q, &doc); err != nil {
		c.log.Debug("quote failed", zap.Strings("symbols", clean), zap.Error(err))
		return nil, err
	}

	out := make([]provider.StockQuote, 0, len(doc.QuoteResponse.Result))
	for _, r := range doc.QuoteResponse.Result {
		out = append(out, provider.StockQuote{Symbol: r.Symbol, RegularMarketPrice: r.RegularMarketPrice})
	}
	return out, nil
}

// Search returns the raw search document for query.
func (c *Client) Search(ctx context.Context, query string) (provider.StockSearch, error) {
	body, err := c.get(ctx, searchPath, map[string]string{"q": query})
	if err != nil {
		c.log.Debug("search failed", zap.String("query", query), zap.Error(err))
		return provider.StockSearch{}, err
	}
	if !json.Valid(body) {
		return provider.StockSearch{}, httpx.DecodeError(name, errors.New("search body is not JSON"))
	}
	return provider.NewStockSearch(body), nil
}

func (c *Client) getJSON(ctx context.Context, path string, q map[string]string, out any) error {
	body, err := c.get(ctx, path, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return httpx.DecodeError(name, err)
	}
	return nil
}

// get adds the crumb when enabled and drops a crumb the server rejected.
func (c *Client) get(ctx context.Context, path string, q map[string]string) ([]byte, error) {
	if c.crumbEnabled {
		crumb, err := c.ensureCrumb(ctx)
		if err != nil {
			return nil, err
		}
		q["crumb"] = crumb
	}
	body, err := httpx.Get(ctx, c.http, name, path, q)
	var ue *httpx.UpstreamError
	if c.crumbEnabled && errors.As(err, &ue) && (ue.StatusCode == http.StatusUnauthorized || ue.StatusCode == http.StatusForbidden) {
		c.resetCrumb()
	}
	return body, err
}

// ensureCrumb returns the cached crumb or joins a single shared fetch. The
// fetch is detached from the caller that started it; each caller stops
// waiting when its own ctx is done.
func (c *Client) ensureCrumb(ctx context.Context) (string, error) {
	c.mu.RLock()
	crumb := c.crumb
	c.mu.RUnlock()
	if crumb != "" {
		return crumb, nil
	}

	ch := c.sf.DoChan("crumb", func() (any, error) {
		c.mu.RLock()
		cached := c.crumb
		c.mu.RUnlock()
		if cached != "" {
			return cached, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.crumbTimeout())
		defer cancel()
		fresh, err := c.fetchCrumb(fetchCtx)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.crumb = fresh
		c.mu.Unlock()
		return fresh, nil
	})

	select {
	case <-ctx.Done():
		return "", httpx.TransportError(name, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// crumbTimeout bounds the detached handshake: two calls, each with its retries.
func (c *Client) crumbTimeout() time.Duration {
	t := c.timeout
	if t <= 0 {
		t = 10 * time.Second
	}
	return 2 * time.Duration(c.retryCount+1) * t
}

func (c *Client) fetchCrumb(ctx context.Context) (string, error) {
	// The cookie host answers 404 while still setting the session cookie.
	if _, err := c.http.R().SetContext(ctx).Get(c.cookieURL); err != nil {
		return "", httpx.TransportError(name, err)
	}
	body, err := httpx.Get(ctx, c.http, name, crumbPath, nil)
	if err != nil {
		return "", err
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" {
		return "", httpx.DecodeError(name, errEmptyCrumb)
	}
	c.log.Debug("obtained crumb")
	return crumb, nil
}

func (c *Client) resetCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}
