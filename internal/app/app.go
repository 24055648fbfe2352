package app

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/skyfare/internal/config"
	handlers "github.com/example/skyfare/internal/http"
	"github.com/example/skyfare/internal/obs"
	"github.com/example/skyfare/internal/providers"
	"github.com/example/skyfare/internal/routes"
	"github.com/example/skyfare/internal/search"
	"github.com/example/skyfare/internal/travelpayouts"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

type App struct {
	Router      http.Handler
	Service     search.ServiceManagement
	Cache       search.CacheService
	RateLimiter search.RateLimiter
	Metrics     *obs.Metrics
	Logger      *slog.Logger
}

func NewLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// SetAppConfig builds the proxy from cfg. Logs go to logOut.
func SetAppConfig(cfg *config.Config, logOut io.Writer) (*App, error) {
	logger := NewLogger(logOut, cfg.Log.Level)

	customRegistry := prometheus.NewRegistry()
	metrics := obs.NewMetrics(customRegistry)

	upstream, err := newUpstream(cfg, metrics)
	if err != nil {
		return nil, err
	}
	if cfg.Upstream.Sandbox {
		logger.Warn("serving generated flight data, upstream.sandbox is on")
	}

	cache := search.NewCache(cfg.Cache.TTL, metrics)
	rl := search.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	computeTimeout := cfg.Server.RequestTimeout
	if computeTimeout <= 0 {
		computeTimeout = 10 * time.Second
	}
	svc := search.NewService(upstream, cache, metrics, computeTimeout)
	h := handlers.NewHandler(svc, rl, metrics, logger)

	router := routes.GetRoutes(h, metrics, logger, routes.Options{
		Timeout:        computeTimeout + 2*time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	return &App{
		Router:      router,
		Service:     svc,
		Cache:       cache,
		RateLimiter: rl,
		Metrics:     metrics,
		Logger:      logger,
	}, nil
}

func newUpstream(cfg *config.Config, metrics *obs.Metrics) (search.Upstream, error) {
	if cfg.Upstream.Sandbox {
		return providers.NewSandbox(0.2, cfg.Upstream.SandboxFailRate, 0), nil
	}

	limit := rate.Inf
	if cfg.Upstream.RatePerSecond > 0 {
		limit = rate.Limit(cfg.Upstream.RatePerSecond)
	}
	c, err := travelpayouts.NewClient(cfg.Upstream.Token,
		travelpayouts.WithHttpClient(&http.Client{Timeout: cfg.Upstream.Timeout}),
		travelpayouts.WithURLs(cfg.Upstream.PricesURL, cfg.Upstream.PlacesURL),
		travelpayouts.WithDefaults(cfg.Search.Defaults),
		travelpayouts.WithRetry(cfg.Upstream.Retries, cfg.Upstream.Backoff),
		travelpayouts.WithRateLimiter(rate.NewLimiter(limit, 1)),
		travelpayouts.WithObserver(metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("app: upstream client: %w", err)
	}
	return c, nil
}
