package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/kermes/kermes-panel/api/routes"
	announcement "github.com/kermes/kermes-panel/internal/announcements"
	"github.com/kermes/kermes-panel/internal/apiclient"
	"github.com/kermes/kermes-panel/internal/auth"
	brand "github.com/kermes/kermes-panel/internal/brands"
	category "github.com/kermes/kermes-panel/internal/categories"
	discount "github.com/kermes/kermes-panel/internal/discounts"
	product "github.com/kermes/kermes-panel/internal/products"
	"github.com/kermes/kermes-panel/internal/session"
	setting "github.com/kermes/kermes-panel/internal/settings"
	slider "github.com/kermes/kermes-panel/internal/sliders"
	tag "github.com/kermes/kermes-panel/internal/tags"
	"github.com/kermes/kermes-panel/pkg/config"
	"github.com/kermes/kermes-panel/pkg/instance"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/metrics"
	"github.com/kermes/kermes-panel/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "panel"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "panel",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "panel stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional unless sessions live there; it also backs the login throttle.
	var redisClient *redis.Client
	if cfg.Session.UsesRedis() || cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
	}

	var store session.Store = session.NewMemoryStore()
	if cfg.Session.UsesRedis() {
		store, err = session.NewRedisStore(redisClient)
		if err != nil {
			return err
		}
	}
	sessions, err := session.NewManager(store, cfg.Session.TTL)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client, err := apiclient.New(cfg.API.BaseURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		apiclient.WithTokenSource(sessions),
		apiclient.WithUnauthorizedHook(func(ctx context.Context) {
			logg.Warn(ctx, "session.login_required")
		}),
		apiclient.WithRateLimit(cfg.API.RateLimitRPS, cfg.API.RateLimitBurst),
		apiclient.WithMetrics(metrics.NewAPIClientMetrics(registry)),
		apiclient.WithLogger(logg),
	)
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{API: client, Sessions: sessions, Logger: logg})
	if err != nil {
		return err
	}
	svcs := routes.Services{
		Auth:          authService,
		Categories:    category.NewService(client, logg),
		Tags:          tag.NewService(client, logg),
		Brands:        brand.NewService(client, logg),
		Products:      product.NewService(client, logg),
		Discounts:     discount.NewService(client, logg),
		Sliders:       slider.NewService(client, logg),
		Announcements: announcement.NewService(client, logg),
		Settings:      setting.NewService(client, logg),
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, redisClient, sessions, registry, svcs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, logger.Fields{
		"env":           cfg.App.Env,
		"addr":          addr,
		"api":           cfg.API.BaseURL,
		"session_store": cfg.Session.Store,
		"instance":      instance.GetID(),
	})
	logg.Info(logCtx, "starting panel server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down panel server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
