// Package cache stores rendered GET responses for a short time.
package cache

import (
	"context"
	"net/http"
	"time"
)

// Store is a byte-value cache with per-entry expiry. Get reports a miss with
// ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Key identifies a request by method, path and query. url.Values.Encode sorts
// by parameter name, so parameter order does not matter while repeated values
// keep their order.
func Key(r *http.Request) string {
	return r.Method + " " + r.URL.Path + "?" + r.URL.Query().Encode()
}
