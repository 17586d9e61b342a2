package dto

import (
	"time"

	"github.com/SscSPs/country_currency_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListCountriesQuery holds the optional query parameters of the country listing.
type ListCountriesQuery struct {
	Region   string `form:"region"`
	Currency string `form:"currency"`
	Sort     string `form:"sort"`
}

// ToFilter converts the raw query into a domain filter.
func (q ListCountriesQuery) ToFilter() domain.CountryFilter {
	return domain.NewCountryFilter(q.Region, q.Currency, q.Sort)
}

// CountryResponse defines the data returned for a country.
// Absent optional values are serialized as null.
type CountryResponse struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Capital         *string          `json:"capital"`
	Region          *string          `json:"region"`
	Population      int64            `json:"population"`
	CurrencyCode    *string          `json:"currency_code"`
	ExchangeRate    *decimal.Decimal `json:"exchange_rate" swaggertype:"string"`
	EstimatedGDP    *decimal.Decimal `json:"estimated_gdp" swaggertype:"string"`
	FlagURL         *string          `json:"flag_url"`
	LastRefreshedAt time.Time        `json:"last_refreshed_at"`
}

// ToCountryResponse converts a domain Country to CountryResponse, rendering
// the refresh instant in loc.
func ToCountryResponse(c domain.Country, loc *time.Location) CountryResponse {
	return CountryResponse{
		ID:              c.ID,
		Name:            c.Name,
		Capital:         c.Capital,
		Region:          c.Region,
		Population:      c.Population,
		CurrencyCode:    c.CurrencyCode,
		ExchangeRate:    c.ExchangeRate,
		EstimatedGDP:    c.EstimatedGDP,
		FlagURL:         c.FlagURL,
		LastRefreshedAt: inZone(c.LastRefreshedAt, loc),
	}
}

// ToListCountryResponse converts a slice of domain Countries
func ToListCountryResponse(countries []domain.Country, loc *time.Location) []CountryResponse {
	res := make([]CountryResponse, len(countries))
	for i, c := range countries {
		res[i] = ToCountryResponse(c, loc)
	}
	return res
}

// StatusResponse reports the size of the store and its last refresh.
type StatusResponse struct {
	TotalCountries  int        `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}

// ToStatusResponse converts domain stats; the timestamp stays null for an empty store.
func ToStatusResponse(stats domain.CountryStats, loc *time.Location) StatusResponse {
	res := StatusResponse{TotalCountries: stats.TotalCountries}
	if stats.TotalCountries > 0 && stats.LastRefreshedAt != nil {
		t := inZone(*stats.LastRefreshedAt, loc)
		res.LastRefreshedAt = &t
	}
	return res
}

// RefreshResponse is returned by a successful refresh.
type RefreshResponse struct {
	TotalCountries int       `json:"total_countries"`
	RefreshedAt    time.Time `json:"refreshed_at"`
}

// ToRefreshResponse converts a committed refresh result.
func ToRefreshResponse(r domain.RefreshResult, loc *time.Location) RefreshResponse {
	return RefreshResponse{
		TotalCountries: r.Total(),
		RefreshedAt:    inZone(r.RefreshedAt, loc),
	}
}

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func inZone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t.UTC()
	}
	return t.In(loc)
}
