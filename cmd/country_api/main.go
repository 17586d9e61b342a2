package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/country_currency_api/internal/adapters/external"
	"github.com/SscSPs/country_currency_api/internal/adapters/imaging"
	portsrepo "github.com/SscSPs/country_currency_api/internal/core/ports/repositories"
	"github.com/SscSPs/country_currency_api/internal/core/services"
	"github.com/SscSPs/country_currency_api/internal/handlers"
	"github.com/SscSPs/country_currency_api/internal/middleware"
	"github.com/SscSPs/country_currency_api/internal/platform/analytics"
	"github.com/SscSPs/country_currency_api/internal/platform/config"
	"github.com/SscSPs/country_currency_api/internal/platform/scheduler"
	"github.com/SscSPs/country_currency_api/internal/repositories/database/memory"
	"github.com/SscSPs/country_currency_api/internal/repositories/database/pgsql"
	"github.com/SscSPs/country_currency_api/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

// @title Countries API
// @version 1.0
// @description Country data enriched with exchange rates and estimated GDP.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	repos, store, cleanup, err := setupStorage(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	clientOpts := external.Options{Timeout: cfg.ExternalAPITimeout, UserAgent: cfg.ExternalAPIUserAgent}
	svcs := services.NewServiceContainer(cfg, repos, services.Upstreams{
		Countries: external.NewRestCountriesClient(cfg.CountriesAPIURL, clientOpts),
		Rates:     external.NewExchangeRatesClient(cfg.ExchangeRatesAPIURL, clientOpts),
		Renderer:  imaging.NewSummaryRenderer(cfg.ReportingLocation),
	})

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	limiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("value", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient, err := analytics.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	if err != nil {
		logger.Error("Failed to initialize analytics client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer posthogClient.Close()

	// Global middleware (logging, recovery, metrics, CORS, rate limit, analytics)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.MetricsMiddleware(),
		cors.New(corsConfig(cfg.CORSAllowedOrigins)),
		middleware.RateLimit(limiter),
		middleware.AnalyticsMiddleware(posthogClient),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, svcs, store)

	var sched *scheduler.Scheduler
	if cfg.RefreshSchedule != "" {
		refresh := scheduler.RefreshFunc(func(ctx context.Context) error {
			_, err := svcs.Country.RefreshCountries(middleware.WithLogger(ctx, logger))
			return err
		})
		sched, err = scheduler.New(cfg.RefreshSchedule, refresh, 2*cfg.ExternalAPITimeout, logger)
		if err != nil {
			logger.Error("Failed to configure refresh scheduler", slog.String("error", err.Error()))
			os.Exit(1)
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sched != nil {
		sched.Stop(ctx)
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server exited")
}

// setupStorage returns the repositories for the configured driver, an optional
// pinger for /health and a cleanup function.
func setupStorage(cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, handlers.Pinger, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewRepositoryProvider(), nil, func() {}, nil
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, nil, err
	}
	logger.Info("Database connection pool established.")

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			database.ClosePgxPool(dbPool)
			return portsrepo.RepositoryProvider{}, nil, nil, err
		}
	}

	return pgsql.NewRepositoryProvider(dbPool), database.PoolPinger{Pool: dbPool}, func() { database.ClosePgxPool(dbPool) }, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")
	cfg.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
