package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"marketproxy/internal/cache"
	"marketproxy/internal/config"
)

func fakeUpstreams(t *testing.T) (coingeckoURL, yahooURL string) {
	t.Helper()
	cg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			_, _ = w.Write([]byte(`{"coins":[{"id":"ethereum","symbol":"ETH"}]}`))
		case "/coins/ethereum":
			_, _ = w.Write([]byte(`{"id":"ethereum","symbol":"eth","market_data":{"current_price":{"usd":1573.56}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"coin not found"}`))
		}
	}))
	t.Cleanup(cg.Close)

	yf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v7/finance/quote":
			_, _ = w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"AAPL","regularMarketPrice":145.93}],"error":null}}`))
		case "/v1/finance/search":
			_, _ = w.Write([]byte(`{"quotes":[{"symbol":"AAPL"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(yf.Close)
	return cg.URL, yf.URL
}

func testConfig(t *testing.T) config.Config {
	cgURL, yfURL := fakeUpstreams(t)
	cfg := config.Default()
	cfg.CoinGecko.BaseURL = cgURL
	cfg.CoinGecko.RetryCount = 0
	cfg.Yahoo.BaseURL = yfURL
	cfg.Yahoo.CrumbEnabled = false
	cfg.Yahoo.RetryCount = 0
	return cfg
}

func get(t *testing.T, h http.Handler, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestApp_EndToEnd(t *testing.T) {
	t.Parallel()

	// Arrange
	a, err := newApp(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	// Act + Assert: crypto
	code, body := get(t, a.handler, "/crypto/price?symbol=eth")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, map[string]any{"symbol": "ETH", "currentPrice": 1573.56}, body["data"])

	// stock via company name
	code, body = get(t, a.handler, "/stock/price?companyName=Apple")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{map[string]any{"symbol": "AAPL", "currentPrice": 145.93}}, body["data"])

	// search pass-through
	code, body = get(t, a.handler, "/crypto/search?query=eth")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []any{map[string]any{"id": "ethereum", "symbol": "ETH"}}, body["data"])
	code, body = get(t, a.handler, "/stock/search?query=apple")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Search stock list successfully.", body["message"])
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	s, err := newStore(context.Background(), config.Default().Cache)
	require.NoError(t, err)
	require.IsType(t, &cache.Memory{}, s)

	mr := miniredis.RunT(t)
	c := config.Default().Cache
	c.Backend = config.BackendRedis
	c.Redis.Addr = mr.Addr()
	s, err = newStore(context.Background(), c)
	require.NoError(t, err)
	require.IsType(t, &cache.Redis{}, s)
	require.NoError(t, s.Close())
}

func TestNewStore_RedisUnreachable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c := config.Default().Cache
	c.Backend = config.BackendRedis
	c.Redis.Addr = addr
	_, err := newStore(context.Background(), c)
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "redis cache"))
}

func TestRootCmd_Version(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "dev")
}
