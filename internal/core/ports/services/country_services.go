package services

import (
	"context"
	"time"

	"github.com/SscSPs/country_currency_api/internal/core/domain"
)

// CountryReaderSvc defines read operations for country data
type CountryReaderSvc interface {
	// ListCountries retrieves countries, optionally filtered by region and currency, in the requested order.
	ListCountries(ctx context.Context, filter domain.CountryFilter) ([]domain.Country, error)

	// GetCountryByName retrieves a country by case-insensitive name.
	GetCountryByName(ctx context.Context, name string) (*domain.Country, error)

	// GetStatus reports the stored count and last refresh instant.
	GetStatus(ctx context.Context) (domain.CountryStats, error)
}

// CountryWriterSvc defines write operations for country data
type CountryWriterSvc interface {
	// RefreshCountries runs one fetch, merge and upsert cycle.
	RefreshCountries(ctx context.Context) (*domain.RefreshResult, error)

	// DeleteCountry removes a country by case-insensitive name.
	DeleteCountry(ctx context.Context, name string) error
}

// CountrySvcFacade combines all country-related service interfaces
type CountrySvcFacade interface {
	CountryReaderSvc
	CountryWriterSvc
}

// SummaryImageSvc manages the cached summary image.
type SummaryImageSvc interface {
	// GenerateSummaryImage renders and caches the image, replacing any previous one.
	GenerateSummaryImage(ctx context.Context, countries []domain.Country, refreshedAt time.Time) error

	// SummaryImage returns the cached PNG bytes, or apperrors.ErrNotFound if none was generated yet.
	SummaryImage(ctx context.Context) ([]byte, error)
}
