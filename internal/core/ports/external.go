package ports

import (
	"context"
	"time"

	"github.com/SscSPs/country_currency_api/internal/core/domain"
)

// CountrySource fetches the country directory from an external service.
type CountrySource interface {
	FetchCountries(ctx context.Context) ([]domain.ExternalCountry, error)
}

// ExchangeRateSource fetches currency exchange rates from an external service.
type ExchangeRateSource interface {
	FetchExchangeRates(ctx context.Context) (*domain.ExchangeRates, error)
}

// MultiplierSource yields the per-record GDP multiplier, an integer in [1000, 2000].
type MultiplierSource interface {
	Multiplier() int64
}

// SummaryRenderer encodes the reporting image of the stored countries.
type SummaryRenderer interface {
	RenderSummary(countries []domain.Country, refreshedAt time.Time) ([]byte, error)
}
