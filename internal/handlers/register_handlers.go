package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/country_currency_api/cmd/docs"
	portssvc "github.com/SscSPs/country_currency_api/internal/core/ports/services"
	"github.com/SscSPs/country_currency_api/internal/middleware"
	"github.com/SscSPs/country_currency_api/internal/platform/config"
	"github.com/SscSPs/country_currency_api/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// store may be nil when there is nothing to ping.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	store Pinger,
) {
	r.GET("/health", healthHandler(store))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	var adminOnly []gin.HandlerFunc
	if cfg.AdminJWTSecret != "" {
		adminOnly = append(adminOnly, middleware.AuthMiddleware(cfg.AdminJWTSecret))
	}
	h := newCountryHandler(services.Country, services.SummaryImage, cfg.ReportingLocation)
	registerCountryRoutes(r, h, adminOnly...)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// healthHandler godoc
// @Summary Liveness and store reachability
// @Tags root
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthHandler(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store != nil {
			if err := store.Ping(c.Request.Context()); err != nil {
				middleware.GetLoggerFromCtx(c.Request.Context()).Error("Health check failed", slog.String("error", err.Error()))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
