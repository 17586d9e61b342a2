package external

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/country_currency_api/internal/apperrors"
	"github.com/SscSPs/country_currency_api/internal/core/domain"
	"github.com/SscSPs/country_currency_api/internal/core/ports"
	"github.com/SscSPs/country_currency_api/internal/middleware"
)

// ExchangeRatesSourceName identifies the rate service in errors and metrics.
const ExchangeRatesSourceName = domain.ExchangeRatesSourceName

var errEmptyRates = errors.New("exchange rates data is empty")

// ExchangeRatesClient fetches the latest currency rates.
type ExchangeRatesClient struct {
	getter jsonGetter
}

var _ ports.ExchangeRateSource = (*ExchangeRatesClient)(nil)

// NewExchangeRatesClient creates a client for the rate service at url.
func NewExchangeRatesClient(url string, opts Options) *ExchangeRatesClient {
	return &ExchangeRatesClient{getter: newJSONGetter(ExchangeRatesSourceName, url, opts)}
}

// FetchExchangeRates returns the base code and the code→rate mapping.
// A payload without rates is a hard failure since no refresh can proceed without them.
func (c *ExchangeRatesClient) FetchExchangeRates(ctx context.Context) (*domain.ExchangeRates, error) {
	var rates domain.ExchangeRates
	if err := c.getter.getJSON(ctx, &rates); err != nil {
		return nil, err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	if rates.Result != "" && !strings.EqualFold(rates.Result, "success") {
		logger.Error("Exchange rate upstream reported failure", slog.String("result", rates.Result))
		return nil, apperrors.NewUpstreamUnavailable(ExchangeRatesSourceName, fmt.Errorf("result %q", rates.Result))
	}
	if len(rates.Rates) == 0 {
		logger.Warn("No exchange rates returned from upstream")
		return nil, apperrors.NewUpstreamMalformed(ExchangeRatesSourceName, errEmptyRates)
	}

	logger.Info("Fetched exchange rates", slog.Int("count", len(rates.Rates)), slog.String("base_code", rates.BaseCode))
	return &rates, nil
}
