package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"marketproxy/internal/api"
	"marketproxy/internal/cache"
	"marketproxy/internal/config"
	"marketproxy/internal/crypto"
	"marketproxy/internal/provider/coingecko"
	"marketproxy/internal/provider/ratelimit"
	"marketproxy/internal/provider/yahoo"
	"marketproxy/internal/stock"
)

// app is the fully wired handler plus everything that must be closed on exit.
type app struct {
	handler http.Handler
	closers []io.Closer
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}

func newApp(ctx context.Context, cfg config.Config, log *zap.Logger) (*app, error) {
	a := &app{}

	cg := coingecko.New(
		coingecko.WithBaseURL(cfg.CoinGecko.BaseURL),
		coingecko.WithAPIKey(cfg.CoinGecko.APIKey),
		coingecko.WithTimeout(cfg.CoinGecko.Timeout()),
		coingecko.WithRetryCount(cfg.CoinGecko.RetryCount),
		coingecko.WithLogger(log),
	)
	a.closers = append(a.closers, cg)

	yf := yahoo.New(
		yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
		yahoo.WithCookieURL(cfg.Yahoo.CookieURL),
		yahoo.WithCrumb(cfg.Yahoo.CrumbEnabled),
		yahoo.WithTimeout(cfg.Yahoo.Timeout()),
		yahoo.WithRetryCount(cfg.Yahoo.RetryCount),
		yahoo.WithLogger(log),
	)
	a.closers = append(a.closers, yf)

	cryptoProvider := ratelimit.WrapCrypto(cg, ratelimit.NewLimiter(cfg.CoinGecko.MaxRequestsPerMinute, cfg.CoinGecko.Burst))
	stockProvider := ratelimit.WrapStock(yf, ratelimit.NewLimiter(cfg.Yahoo.MaxRequestsPerMinute, cfg.Yahoo.Burst))

	opts := api.Options{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: cfg.Server.RequestTimeout(),
		Version:        version,
		Logger:         log,
	}
	if cfg.Cache.Enabled {
		store, err := newStore(ctx, cfg.Cache)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.closers = append(a.closers, store)
		opts.Cache = store
		opts.CacheTTL = cfg.Cache.TTL()
		log.Info("response cache enabled", zap.String("backend", cfg.Cache.Backend), zap.Duration("ttl", opts.CacheTTL))
	}

	srv := api.NewServer(
		crypto.NewService(cryptoProvider, log),
		stock.NewService(stockProvider, log),
		opts,
	)
	a.handler = srv.Handler()
	return a, nil
}

func newStore(ctx context.Context, c config.Cache) (cache.Store, error) {
	switch c.Backend {
	case config.BackendRedis:
		r := cache.NewRedis(redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		}))
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := r.Ping(pingCtx); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("redis cache %s: %w", c.Redis.Addr, err)
		}
		return r, nil
	default:
		return cache.NewMemory(c.MaxItems), nil
	}
}

// serve runs the HTTP server until ctx is cancelled, then drains it.
func serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("close", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout(),
		WriteTimeout:      cfg.Server.WriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
