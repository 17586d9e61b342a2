package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/country_currency_api/internal/apperrors"
	portssvc "github.com/SscSPs/country_currency_api/internal/core/ports/services"
	"github.com/SscSPs/country_currency_api/internal/dto"
	"github.com/SscSPs/country_currency_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	msgUpstreamUnavailable = "External data source unavailable"
	msgInternal            = "Internal server error"
	msgCountryNotFound     = "Country not found"
	msgImageNotFound       = "Summary image not found"
)

// countryHandler handles HTTP requests related to countries.
type countryHandler struct {
	countryService portssvc.CountrySvcFacade
	imageService   portssvc.SummaryImageSvc
	loc            *time.Location
}

// newCountryHandler creates a new countryHandler.
func newCountryHandler(cs portssvc.CountrySvcFacade, is portssvc.SummaryImageSvc, loc *time.Location) *countryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &countryHandler{
		countryService: cs,
		imageService:   is,
		loc:            loc,
	}
}

// registerCountryRoutes registers routes related to countries.
// adminOnly guards the mutating endpoints and may be empty.
func registerCountryRoutes(r gin.IRouter, h *countryHandler, adminOnly ...gin.HandlerFunc) {
	countries := r.Group("/countries")
	{
		countries.POST("/refresh", withGuards(adminOnly, h.refreshCountries)...)
		countries.GET("", h.listCountries)
		countries.GET("/image", h.getSummaryImage)
		countries.GET("/:name", h.getCountry)
		countries.DELETE("/:name", withGuards(adminOnly, h.deleteCountry)...)
	}
	r.GET("/status", h.getStatus)
}

func withGuards(guards []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(guards)+1)
	chain = append(chain, guards...)
	return append(chain, handler)
}

// refreshCountries godoc
// @Summary Refresh countries from the upstream sources
// @Description Fetches the country directory and exchange rates, derives GDP estimates and upserts every country in one batch
// @Tags countries
// @Produce  json
// @Success 200 {object} dto.RefreshResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Failure 503 {object} dto.ErrorResponse "External data source unavailable"
// @Security BearerAuth
// @Router /countries/refresh [post]
func (h *countryHandler) refreshCountries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestedBy, _ := middleware.GetSubjectFromContext(c)
	logger.Info("Received request to refresh countries", slog.String("requested_by", requestedBy))

	result, err := h.countryService.RefreshCountries(c.Request.Context())
	if err != nil {
		if upErr, ok := apperrors.IsUpstream(err); ok {
			logger.Error("External data source unavailable during refresh",
				slog.String("source", upErr.Source),
				slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
				Error:   msgUpstreamUnavailable,
				Details: "Could not fetch data from " + upErr.Source,
			})
			return
		}
		logger.Error("Unexpected error during refresh", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternal})
		return
	}

	logger.Info("Countries refreshed successfully", slog.Int("total_countries", result.Total()))
	c.JSON(http.StatusOK, dto.ToRefreshResponse(*result, h.loc))
}

// listCountries godoc
// @Summary List countries
// @Description Lists stored countries with optional case-insensitive region and currency filters
// @Tags countries
// @Produce  json
// @Param   region query string false "Region, matched case-insensitively"
// @Param   currency query string false "Currency code, matched case-insensitively"
// @Param   sort query string false "Sort order" Enums(gdp_desc, gdp_asc, population_desc, population_asc, name_asc, name_desc)
// @Success 200 {array} dto.CountryResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /countries [get]
func (h *countryHandler) listCountries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.ListCountriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for ListCountries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters"})
		return
	}
	filter := query.ToFilter()

	countries, err := h.countryService.ListCountries(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to list countries from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternal})
		return
	}

	logger.Debug("Countries listed", slog.Int("count", len(countries)), slog.String("sort", string(filter.Sort)))
	c.JSON(http.StatusOK, dto.ToListCountryResponse(countries, h.loc))
}

// getCountry godoc
// @Summary Get a country by name
// @Description Retrieves one country; the name is matched case-insensitively
// @Tags countries
// @Produce  json
// @Param   name path string true "Country name"
// @Success 200 {object} dto.CountryResponse
// @Failure 404 {object} dto.ErrorResponse "Country not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /countries/{name} [get]
func (h *countryHandler) getCountry(c *gin.Context) {
	name := c.Param("name")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("country_name", name))

	country, err := h.countryService.GetCountryByName(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Country not found")
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgCountryNotFound})
		} else {
			logger.Error("Failed to get country from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternal})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCountryResponse(*country, h.loc))
}

// deleteCountry godoc
// @Summary Delete a country by name
// @Description Removes one country; the name is matched case-insensitively
// @Tags countries
// @Param   name path string true "Country name"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Country not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /countries/{name} [delete]
func (h *countryHandler) deleteCountry(c *gin.Context) {
	name := c.Param("name")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("country_name", name))

	if err := h.countryService.DeleteCountry(c.Request.Context(), name); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Country to delete not found")
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgCountryNotFound})
		} else {
			logger.Error("Failed to delete country", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternal})
		}
		return
	}

	deletedBy, _ := middleware.GetSubjectFromContext(c)
	logger.Info("Country deleted successfully", slog.String("deleted_by", deletedBy))
	c.Status(http.StatusNoContent)
}

// getStatus godoc
// @Summary Store status
// @Description Reports the number of stored countries and the last refresh time, null when empty
// @Tags status
// @Produce  json
// @Success 200 {object} dto.StatusResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /status [get]
func (h *countryHandler) getStatus(c *gin.Context) {
	stats, err := h.countryService.GetStatus(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get status", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternal})
		return
	}
	c.JSON(http.StatusOK, dto.ToStatusResponse(stats, h.loc))
}

// getSummaryImage godoc
// @Summary Summary image
// @Description Serves the PNG summary generated by the last successful refresh
// @Tags countries
// @Produce  png
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse "Summary image not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /countries/image [get]
func (h *countryHandler) getSummaryImage(c *gin.Context) {
	data, err := h.imageService.SummaryImage(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgImageNotFound})
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to read summary image", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternal})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}
