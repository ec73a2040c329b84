package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExtractMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"coingecko string error", `{"error":"coin not found"}`, "coin not found"},
		{"coingecko status", `{"status":{"error_code":429,"error_message":"You've exceeded the Rate Limit"}}`, "You've exceeded the Rate Limit"},
		{"yahoo finance", `{"finance":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, "No data found"},
		{"yahoo quote", `{"quoteResponse":{"result":[],"error":{"code":"Unauthorized","description":"Invalid Crumb"}}}`, "Invalid Crumb"},
		{"object error", `{"error":{"message":"bad key"}}`, "bad key"},
		{"plain message", `{"message":"nope"}`, "nope"},
		{"not json", `<html>oops</html>`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractMessage([]byte(tt.body)))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	require.Equal(t, ErrorTypeRateLimit, Classify("coingecko", 429, "").Type)
	require.Equal(t, ErrorTypeServer, Classify("coingecko", 503, "").Type)
	require.Equal(t, ErrorTypeClient, Classify("coingecko", 404, "coin not found").Type)

	e := Classify("yahoo", 401, "")
	require.Equal(t, "yahoo request failed with status 401", e.UserMessage())
}

func TestGet_ReturnsBodyOnSuccess(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "eth", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"coins":[]}`))
	}))
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	defer c.Close()

	// Act
	body, err := Get(context.Background(), c, "coingecko", "/search", map[string]string{"query": "eth"})

	// Assert
	require.NoError(t, err)
	require.JSONEq(t, `{"coins":[]}`, string(body))
}

func TestGet_ClassifiesErrorBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"coin not found"}`))
	}))
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL})
	defer c.Close()

	_, err := Get(context.Background(), c, "coingecko", "/coins/x", nil)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	require.Equal(t, http.StatusNotFound, ue.StatusCode)
	require.Equal(t, ErrorTypeClient, ue.Type)
	require.Equal(t, "coin not found", ue.UserMessage())
}

func TestGet_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL, RetryCount: 2})
	c.SetRetryWaitTime(time.Millisecond).SetRetryMaxWaitTime(5 * time.Millisecond)
	defer c.Close()

	_, err := Get(context.Background(), c, "yahoo", "/", nil)

	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load())
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL, RetryCount: 3})
	c.SetRetryWaitTime(time.Millisecond)
	defer c.Close()

	_, err := Get(context.Background(), c, "yahoo", "/", nil)

	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestGetJSON_DecodeError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()
	c := New(Options{BaseURL: srv.URL})
	defer c.Close()

	var out map[string]any
	err := GetJSON(context.Background(), c, "coingecko", "/", nil, &out)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	require.Equal(t, ErrorTypeDecode, ue.Type)
}

func TestTransportError_Timeout(t *testing.T) {
	t.Parallel()

	e := TransportError("yahoo", context.DeadlineExceeded)
	require.Equal(t, ErrorTypeTimeout, e.Type)
	require.ErrorIs(t, e, context.DeadlineExceeded)
}
