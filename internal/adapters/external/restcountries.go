package external

import (
	"context"
	"log/slog"

	"github.com/SscSPs/country_currency_api/internal/core/domain"
	"github.com/SscSPs/country_currency_api/internal/core/ports"
	"github.com/SscSPs/country_currency_api/internal/middleware"
)

// CountriesSourceName identifies the country directory in errors and metrics.
const CountriesSourceName = domain.CountriesSourceName

// RestCountriesClient fetches the country directory.
type RestCountriesClient struct {
	getter jsonGetter
}

var _ ports.CountrySource = (*RestCountriesClient)(nil)

// NewRestCountriesClient creates a client for the country directory at url.
func NewRestCountriesClient(url string, opts Options) *RestCountriesClient {
	return &RestCountriesClient{getter: newJSONGetter(CountriesSourceName, url, opts)}
}

// FetchCountries returns every country of the directory. An empty payload yields an empty slice.
func (c *RestCountriesClient) FetchCountries(ctx context.Context) ([]domain.ExternalCountry, error) {
	var countries []domain.ExternalCountry
	if err := c.getter.getJSON(ctx, &countries); err != nil {
		return nil, err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	if len(countries) == 0 {
		logger.Warn("No countries returned from upstream", slog.String("source", CountriesSourceName))
		return []domain.ExternalCountry{}, nil
	}

	logger.Info("Fetched countries", slog.Int("count", len(countries)))
	return countries, nil
}
