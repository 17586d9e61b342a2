package repositories

import (
	"context"

	"github.com/SscSPs/country_currency_api/internal/core/domain"
)

// CountryReader defines read operations for country data
type CountryReader interface {
	// ListCountries retrieves countries matching the filter, in the filter's order.
	ListCountries(ctx context.Context, filter domain.CountryFilter) ([]domain.Country, error)

	// ListAllCountries retrieves every stored country, used to reconcile a refresh cycle.
	ListAllCountries(ctx context.Context) ([]domain.Country, error)

	// FindCountryByName retrieves a country by case-insensitive exact name.
	// Returns apperrors.ErrNotFound when no country matches.
	FindCountryByName(ctx context.Context, name string) (*domain.Country, error)

	// GetCountryStats returns the stored count and the most recent refresh instant.
	GetCountryStats(ctx context.Context) (domain.CountryStats, error)
}

// CountryWriter defines write operations for country data
type CountryWriter interface {
	// ApplyRefresh commits every insert and update of the plan atomically.
	ApplyRefresh(ctx context.Context, plan domain.RefreshPlan) error

	// DeleteCountryByName removes a country by case-insensitive exact name.
	// Returns apperrors.ErrNotFound when no country matches.
	DeleteCountryByName(ctx context.Context, name string) error
}

// CountryRepositoryFacade combines all country-related repository interfaces
// This is a facade for clients that need access to all operations
type CountryRepositoryFacade interface {
	CountryReader
	CountryWriter
}
