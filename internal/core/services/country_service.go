package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/country_currency_api/internal/apperrors"
	"github.com/SscSPs/country_currency_api/internal/core/domain"
	"github.com/SscSPs/country_currency_api/internal/core/ports"
	portsrepo "github.com/SscSPs/country_currency_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/country_currency_api/internal/core/ports/services"
	"github.com/SscSPs/country_currency_api/internal/platform/metrics"
	"golang.org/x/sync/errgroup"
)

var errNoRates = errors.New("no exchange rates available")

// countryService implements the CountrySvcFacade interface
type countryService struct {
	BaseService
	countryRepo  portsrepo.CountryRepositoryFacade
	countrySrc   ports.CountrySource
	rateSrc      ports.ExchangeRateSource
	multipliers  ports.MultiplierSource
	summaryImage portssvc.SummaryImageSvc
	now          func() time.Time
}

// CountryServiceOption configures optional collaborators of the country service.
type CountryServiceOption func(*countryService)

// WithMultiplierSource overrides the random GDP multiplier.
func WithMultiplierSource(src ports.MultiplierSource) CountryServiceOption {
	return func(s *countryService) {
		s.multipliers = src
	}
}

// WithSummaryImageService regenerates the summary image after each committed refresh.
func WithSummaryImageService(svc portssvc.SummaryImageSvc) CountryServiceOption {
	return func(s *countryService) {
		s.summaryImage = svc
	}
}

// WithClock overrides the source of refresh instants.
func WithClock(now func() time.Time) CountryServiceOption {
	return func(s *countryService) {
		s.now = now
	}
}

// NewCountryService creates a new country service with the provided dependencies
func NewCountryService(
	countryRepo portsrepo.CountryRepositoryFacade,
	countrySrc ports.CountrySource,
	rateSrc ports.ExchangeRateSource,
	opts ...CountryServiceOption,
) portssvc.CountrySvcFacade {
	s := &countryService{
		countryRepo: countryRepo,
		countrySrc:  countrySrc,
		rateSrc:     rateSrc,
		multipliers: NewRandomMultiplier(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.CountrySvcFacade = (*countryService)(nil)

// RefreshCountries fetches both upstreams concurrently, derives every record,
// reconciles them against the stored set and commits the result in one batch.
// Any upstream failure aborts the cycle before the store is touched.
func (s *countryService) RefreshCountries(ctx context.Context) (*domain.RefreshResult, error) {
	start := time.Now()

	external, rates, err := s.fetchUpstreams(ctx)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, apperrors.ErrUpstreamUnavailable) {
			outcome = metrics.OutcomeUnavailable
		} else if errors.Is(err, apperrors.ErrUpstreamMalformed) {
			outcome = metrics.OutcomeMalformed
		}
		metrics.ObserveRefresh(outcome, 0, 0, time.Since(start))
		s.LogError(ctx, err, "Refresh aborted while fetching upstream data")
		return nil, err
	}

	refreshedAt := s.now().UTC()
	derived := make([]domain.DerivedCountry, 0, len(external))
	for _, ext := range external {
		derived = append(derived, DeriveCountry(ext, rates.Rates, s.multipliers, refreshedAt))
	}

	// Past this point the cycle runs to completion even if the caller goes away.
	commitCtx := context.WithoutCancel(ctx)

	stored, err := s.countryRepo.ListAllCountries(commitCtx)
	if err != nil {
		metrics.ObserveRefresh(metrics.OutcomeError, 0, 0, time.Since(start))
		s.LogError(ctx, err, "Failed to load stored countries")
		return nil, fmt.Errorf("failed to load stored countries: %w", err)
	}

	plan := Reconcile(derived, ExistingByName(stored))
	if err := s.countryRepo.ApplyRefresh(commitCtx, plan); err != nil {
		metrics.ObserveRefresh(metrics.OutcomeError, 0, 0, time.Since(start))
		s.LogError(ctx, err, "Failed to commit refresh",
			slog.Int("inserts", len(plan.Inserts)),
			slog.Int("updates", len(plan.Updates)))
		return nil, fmt.Errorf("failed to commit refresh: %w", err)
	}

	result := &domain.RefreshResult{
		Inserted:    plan.Inserted(),
		Updated:     plan.Updated(),
		RefreshedAt: refreshedAt,
	}
	metrics.ObserveRefresh(metrics.OutcomeSuccess, result.Inserted, result.Updated, time.Since(start))
	s.LogInfo(ctx, "Countries refreshed",
		slog.Int("inserted", result.Inserted),
		slog.Int("updated", result.Updated),
		slog.Int("folded", plan.Folded),
		slog.String("base_code", rates.BaseCode))

	s.regenerateSummary(commitCtx, refreshedAt)
	return result, nil
}

func (s *countryService) fetchUpstreams(ctx context.Context) ([]domain.ExternalCountry, *domain.ExchangeRates, error) {
	var (
		external []domain.ExternalCountry
		rates    *domain.ExchangeRates
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		external, err = s.countrySrc.FetchCountries(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rates, err = s.rateSrc.FetchExchangeRates(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if rates == nil || len(rates.Rates) == 0 {
		return nil, nil, apperrors.NewUpstreamMalformed(domain.ExchangeRatesSourceName, errNoRates)
	}
	return external, rates, nil
}

// regenerateSummary rebuilds the cached image. Failures are logged only, the data is already committed.
func (s *countryService) regenerateSummary(ctx context.Context, refreshedAt time.Time) {
	if s.summaryImage == nil {
		return
	}
	countries, err := s.countryRepo.ListAllCountries(ctx)
	if err != nil {
		s.LogWarn(ctx, "Skipping summary image, stored countries unavailable", slog.String("error", err.Error()))
		return
	}
	if err := s.summaryImage.GenerateSummaryImage(ctx, countries, refreshedAt); err != nil {
		s.LogWarn(ctx, "Failed to generate summary image", slog.String("error", err.Error()))
	}
}

// ListCountries retrieves countries matching the filter
func (s *countryService) ListCountries(ctx context.Context, filter domain.CountryFilter) ([]domain.Country, error) {
	countries, err := s.countryRepo.ListCountries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list countries",
			slog.String("region", filter.Region),
			slog.String("currency", filter.Currency),
			slog.String("sort", string(filter.Sort)))
		return nil, err
	}

	if countries == nil {
		return []domain.Country{}, nil
	}

	s.LogDebug(ctx, "Countries listed successfully", slog.Int("count", len(countries)))
	return countries, nil
}

// GetCountryByName retrieves a country by case-insensitive name
func (s *countryService) GetCountryByName(ctx context.Context, name string) (*domain.Country, error) {
	country, err := s.countryRepo.FindCountryByName(ctx, name)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find country by name", slog.String("name", name))
		}
		return nil, err
	}
	return country, nil
}

// DeleteCountry removes a country by case-insensitive name
func (s *countryService) DeleteCountry(ctx context.Context, name string) error {
	if err := s.countryRepo.DeleteCountryByName(ctx, name); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete country", slog.String("name", name))
		}
		return err
	}
	s.LogInfo(ctx, "Country deleted", slog.String("name", name))
	return nil
}

// GetStatus reports the stored count and last refresh instant
func (s *countryService) GetStatus(ctx context.Context) (domain.CountryStats, error) {
	stats, err := s.countryRepo.GetCountryStats(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to get country stats")
		return domain.CountryStats{}, err
	}
	if stats.TotalCountries == 0 {
		stats.LastRefreshedAt = nil
	}
	return stats, nil
}
