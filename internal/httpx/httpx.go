package httpx

import (
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"
)

const (
	defaultRetryWaitTime    = 500 * time.Millisecond
	defaultRetryMaxWaitTime = 5 * time.Second
	userAgent               = "marketproxy/1.0"
)

// Options configures an upstream client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	Headers    map[string]string
	Logger     *zap.Logger
}

// NewTransport returns a transport tuned for many small JSON calls to a few hosts.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          200,
		MaxIdleConnsPerHost:   100,
		MaxConnsPerHost:       100,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}
}

// New builds a resty client for one upstream provider. Retries are limited to
// idempotent GETs and only for network errors, 408, 429 and 5xx.
func New(opts Options) *resty.Client {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := resty.New().
		SetTransport(NewTransport()).
		SetBaseURL(opts.BaseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetLogger(log.Sugar()).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
		SetRetryDefaultConditions(false).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook(log))
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	for k, v := range opts.Headers {
		c.SetHeader(k, v)
	}
	return c
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	switch code := r.StatusCode(); {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	case code >= 500:
		return true
	}
	return false
}

func retryHook(log *zap.Logger) resty.RetryHookFunc {
	return func(r *resty.Response, err error) {
		fields := make([]zap.Field, 0, 4)
		if r != nil && r.Request != nil {
			fields = append(fields, zap.String("url", r.Request.URL), zap.Int("attempt", r.Request.Attempt))
		}
		if err != nil {
			log.Debug("retrying upstream request after error", append(fields, zap.Error(err))...)
			return
		}
		if r != nil {
			fields = append(fields, zap.Int("status_code", r.StatusCode()))
		}
		log.Debug("retrying upstream request after status", fields...)
	}
}
