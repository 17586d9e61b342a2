package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/country_currency_api/internal/apperrors"
	"github.com/SscSPs/country_currency_api/internal/core/domain"
	portssvc "github.com/SscSPs/country_currency_api/internal/core/ports/services"
	"github.com/SscSPs/country_currency_api/internal/core/services"
	"github.com/SscSPs/country_currency_api/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock upstream sources ---
type MockCountrySource struct {
	mock.Mock
}

func (m *MockCountrySource) FetchCountries(ctx context.Context) ([]domain.ExternalCountry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExternalCountry), args.Error(1)
}

type MockExchangeRateSource struct {
	mock.Mock
}

func (m *MockExchangeRateSource) FetchExchangeRates(ctx context.Context) (*domain.ExchangeRates, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRates), args.Error(1)
}

// --- Mock CountryRepository ---
type MockCountryRepository struct {
	mock.Mock
}

func (m *MockCountryRepository) ListCountries(ctx context.Context, filter domain.CountryFilter) ([]domain.Country, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Country), args.Error(1)
}

func (m *MockCountryRepository) ListAllCountries(ctx context.Context) ([]domain.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Country), args.Error(1)
}

func (m *MockCountryRepository) FindCountryByName(ctx context.Context, name string) (*domain.Country, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Country), args.Error(1)
}

func (m *MockCountryRepository) GetCountryStats(ctx context.Context) (domain.CountryStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CountryStats), args.Error(1)
}

func (m *MockCountryRepository) ApplyRefresh(ctx context.Context, plan domain.RefreshPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockCountryRepository) DeleteCountryByName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// --- Mock SummaryImageSvc ---
type MockSummaryImageService struct {
	mock.Mock
}

func (m *MockSummaryImageService) GenerateSummaryImage(ctx context.Context, countries []domain.Country, refreshedAt time.Time) error {
	args := m.Called(ctx, countries, refreshedAt)
	return args.Error(0)
}

func (m *MockSummaryImageService) SummaryImage(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func strPtr(s string) *string { return &s }

func rates(pairs map[string]string) *domain.ExchangeRates {
	out := &domain.ExchangeRates{Result: "success", BaseCode: "USD", Rates: map[string]decimal.Decimal{}}
	for code, v := range pairs {
		out.Rates[code] = decimal.RequireFromString(v)
	}
	return out
}

func testland() domain.ExternalCountry {
	return domain.ExternalCountry{
		Name:       "Testland",
		Population: 1000,
		Currencies: []domain.CurrencyInfo{{Code: strPtr("TST")}},
	}
}

// --- Refresh against the in-memory store ---
type RefreshTestSuite struct {
	suite.Suite
	ctx        context.Context
	countries  *MockCountrySource
	rateSource *MockExchangeRateSource
	images     *MockSummaryImageService
	repo       *memory.CountryRepository
	now        time.Time
	service    portssvc.CountrySvcFacade
}

func (suite *RefreshTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.countries = new(MockCountrySource)
	suite.rateSource = new(MockExchangeRateSource)
	suite.images = new(MockSummaryImageService)
	suite.repo = memory.NewCountryRepository()
	suite.now = time.Date(2025, 10, 22, 9, 30, 0, 0, time.UTC)
	suite.service = suite.newService()
}

func (suite *RefreshTestSuite) newService(opts ...services.CountryServiceOption) portssvc.CountrySvcFacade {
	base := []services.CountryServiceOption{
		services.WithClock(func() time.Time { return suite.now }),
		services.WithSummaryImageService(suite.images),
	}
	return services.NewCountryService(suite.repo, suite.countries, suite.rateSource, append(base, opts...)...)
}

func TestRefreshTestSuite(t *testing.T) {
	suite.Run(t, new(RefreshTestSuite))
}

func (suite *RefreshTestSuite) TestRefresh_TestlandScenario() {
	suite.countries.On("FetchCountries", mock.Anything).Return([]domain.ExternalCountry{testland()}, nil).Once()
	suite.rateSource.On("FetchExchangeRates", mock.Anything).Return(rates(map[string]string{"TST": "10"}), nil).Once()
	suite.images.On("GenerateSummaryImage", mock.Anything, mock.Anything, suite.now).Return(nil).Once()

	result, err := suite.service.RefreshCountries(suite.ctx)

	suite.Require().NoError(err)
	suite.Equal(1, result.Inserted)
	suite.Equal(0, result.Updated)
	suite.Equal(1, result.Total())
	suite.True(result.RefreshedAt.Equal(suite.now))

	stored, err := suite.repo.FindCountryByName(suite.ctx, "testland")
	suite.Require().NoError(err)
	suite.Equal("TST", *stored.CurrencyCode)
	suite.True(decimal.NewFromInt(10).Equal(*stored.ExchangeRate))
	suite.Require().NotNil(stored.EstimatedGDP)
	suite.True(stored.EstimatedGDP.GreaterThanOrEqual(decimal.NewFromInt(100000)))
	suite.True(stored.EstimatedGDP.LessThanOrEqual(decimal.NewFromInt(200000)))

	suite.countries.AssertExpectations(suite.T())
	suite.rateSource.AssertExpectations(suite.T())
	suite.images.AssertExpectations(suite.T())
}

func (suite *RefreshTestSuite) TestRefresh_FixedMultiplierGivesExactGDP() {
	service := suite.newService(services.WithMultiplierSource(services.FixedMultiplier(1500)))
	suite.countries.On("FetchCountries", mock.Anything).Return([]domain.ExternalCountry{testland()}, nil).Once()
	suite.rateSource.On("FetchExchangeRates", mock.Anything).Return(rates(map[string]string{"TST": "7"}), nil).Once()
	suite.images.On("GenerateSummaryImage", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := service.RefreshCountries(suite.ctx)
	suite.Require().NoError(err)

	stored, err := suite.repo.FindCountryByName(suite.ctx, "Testland")
	suite.Require().NoError(err)
	// 1000 * 1500 / 7 = 214285.714...
	suite.Equal("214285.71", stored.EstimatedGDP.StringFixed(2))
}

func (suite *RefreshTestSuite) TestRefresh_EmptyRatesLeaveStoreUnchanged() {
	suite.countries.On("FetchCountries", mock.Anything).Return([]domain.ExternalCountry{testland()}, nil).Once()
	suite.rateSource.On("FetchExchangeRates", mock.Anything).Return(rates(nil), nil).Once()

	result, err := suite.service.RefreshCountries(suite.ctx)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrUpstreamMalformed)
	stats, err := suite.repo.GetCountryStats(suite.ctx)
	suite.Require().NoError(err)
	suite.Zero(stats.TotalCountries)
	suite.images.AssertNotCalled(suite.T(), "GenerateSummaryImage", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RefreshTestSuite) TestRefresh_IsIdempotent() {
	external := []domain.ExternalCountry{
		testland(),
		{Name: "Nowhere", Population: 50, Capital: strPtr("Null Island")},
		{Name: "Zeroland", Population: 10, Currencies: []domain.CurrencyInfo{{Code: strPtr("ZRO")}}},
	}
	fixed := services.WithMultiplierSource(services.FixedMultiplier(1234))
	service := suite.newService(fixed)
	suite.countries.On("FetchCountries", mock.Anything).Return(external, nil).Twice()
	suite.rateSource.On("FetchExchangeRates", mock.Anything).Return(rates(map[string]string{"TST": "10", "ZRO": "0"}), nil).Twice()
	suite.images.On("GenerateSummaryImage", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	first, err := service.RefreshCountries(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(3, first.Inserted)
	before, err := suite.repo.ListAllCountries(suite.ctx)
	suite.Require().NoError(err)

	suite.now = suite.now.Add(time.Hour)
	second, err := service.RefreshCountries(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(0, second.Inserted)
	suite.Equal(3, second.Updated)

	after, err := suite.repo.ListAllCountries(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(after, len(before))
	for i := range before {
		b, a := before[i], after[i]
		suite.True(a.LastRefreshedAt.After(b.LastRefreshedAt))
		b.LastRefreshedAt, a.LastRefreshedAt = time.Time{}, time.Time{}
		suite.Equal(b, a)
	}
}

func (suite *RefreshTestSuite) TestRefresh_VanishedCountryIsRetained() {
	fixed := services.WithMultiplierSource(services.FixedMultiplier(1000))
	service := suite.newService(fixed)
	gone := domain.ExternalCountry{Name: "Atlantis", Population: 7, Currencies: []domain.CurrencyInfo{{Code: strPtr("TST")}}}
	suite.images.On("GenerateSummaryImage", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.rateSource.On("FetchExchangeRates", mock.Anything).Return(rates(map[string]string{"TST": "10"}), nil)

	suite.countries.On("FetchCountries", mock.Anything).Return([]domain.ExternalCountry{testland(), gone}, nil).Once()
	_, err := service.RefreshCountries(suite.ctx)
	suite.Require().NoError(err)
	before, err := suite.repo.FindCountryByName(suite.ctx, "Atlantis")
	suite.Require().NoError(err)

	suite.now = suite.now.Add(time.Hour)
	suite.countries.On("FetchCountries", mock.Anything).Return([]domain.ExternalCountry{testland()}, nil).Once()
	result, err := service.RefreshCountries(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(1, result.Updated)

	after, err := suite.repo.FindCountryByName(suite.ctx, "Atlantis")
	suite.Require().NoError(err)
	suite.Equal(before, after)
}

func (suite *RefreshTestSuite) TestRefresh_CaseVariantNamesStayUnique() {
	suite.countries.On("FetchCountries", mock.Anything).Return([]domain.ExternalCountry{
		{Name: "Freedonia", Population: 1},
		{Name: "FREEDONIA", Population: 2},
	}, nil).Once()
	suite.rateSource.On("FetchExchangeRates", mock.Anything).Return(rates(map[string]string{"TST": "1"}), nil).Once()
	suite.images.On("GenerateSummaryImage", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.RefreshCountries(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(1, result.Inserted)
	suite.Equal(1, result.Updated)

	all, err := suite.repo.ListAllCountries(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(all, 1)
	suite.Equal(int64(2), all[0].Population)
}

func (suite *RefreshTestSuite) TestRefresh_ImageFailureDoesNotFailRefresh() {
	suite.countries.On("FetchCountries", mock.Anything).Return([]domain.ExternalCountry{testland()}, nil).Once()
	suite.rateSource.On("FetchExchangeRates", mock.Anything).Return(rates(map[string]string{"TST": "10"}), nil).Once()
	suite.images.On("GenerateSummaryImage", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	result, err := suite.service.RefreshCountries(suite.ctx)

	suite.Require().NoError(err)
	suite.Equal(1, result.Inserted)
}

// --- Refresh and queries against a mocked store ---
type CountryServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	mockRepo   *MockCountryRepository
	countries  *MockCountrySource
	rateSource *MockExchangeRateSource
	service    portssvc.CountrySvcFacade
}

func (suite *CountryServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(MockCountryRepository)
	suite.countries = new(MockCountrySource)
	suite.rateSource = new(MockExchangeRateSource)
	suite.service = services.NewCountryService(suite.mockRepo, suite.countries, suite.rateSource)
}

func TestCountryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CountryServiceTestSuite))
}

func (suite *CountryServiceTestSuite) TestRefresh_UpstreamErrorAbortsBeforeStore() {
	upErr := apperrors.NewUpstreamUnavailable(domain.CountriesSourceName, errors.New("connection refused"))
	suite.countries.On("FetchCountries", mock.Anything).Return(nil, upErr).Once()
	suite.rateSource.On("FetchExchangeRates", mock.Anything).Return(rates(map[string]string{"TST": "1"}), nil).Maybe()

	result, err := suite.service.RefreshCountries(suite.ctx)

	suite.Require().Error(err)
	suite.Nil(result)
	got, ok := apperrors.IsUpstream(err)
	suite.Require().True(ok)
	suite.Equal(domain.CountriesSourceName, got.Source)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListAllCountries", mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyRefresh", mock.Anything, mock.Anything)
}

func (suite *CountryServiceTestSuite) TestRefresh_RateErrorPropagates() {
	upErr := apperrors.NewUpstreamMalformed(domain.ExchangeRatesSourceName, errors.New("unexpected EOF"))
	suite.countries.On("FetchCountries", mock.Anything).Return([]domain.ExternalCountry{}, nil).Maybe()
	suite.rateSource.On("FetchExchangeRates", mock.Anything).Return(nil, upErr).Once()

	_, err := suite.service.RefreshCountries(suite.ctx)

	suite.ErrorIs(err, apperrors.ErrUpstreamMalformed)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyRefresh", mock.Anything, mock.Anything)
}

func (suite *CountryServiceTestSuite) TestRefresh_CommitErrorIsInternal() {
	suite.countries.On("FetchCountries", mock.Anything).Return([]domain.ExternalCountry{testland()}, nil).Once()
	suite.rateSource.On("FetchExchangeRates", mock.Anything).Return(rates(map[string]string{"TST": "1"}), nil).Once()
	suite.mockRepo.On("ListAllCountries", mock.Anything).Return([]domain.Country{}, nil).Once()
	suite.mockRepo.On("ApplyRefresh", mock.Anything, mock.MatchedBy(func(p domain.RefreshPlan) bool {
		return len(p.Inserts) == 1 && p.Inserts[0].Name == "Testland" && len(p.Updates) == 0
	})).Return(assert.AnError).Once()

	_, err := suite.service.RefreshCountries(suite.ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
	_, isUpstream := apperrors.IsUpstream(err)
	suite.False(isUpstream)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CountryServiceTestSuite) TestListCountries_PassesFilterThrough() {
	filter := domain.NewCountryFilter("Africa", "NGN", "gdp_desc")
	suite.mockRepo.On("ListCountries", suite.ctx, filter).Return(nil, nil).Once()

	countries, err := suite.service.ListCountries(suite.ctx, filter)

	suite.Require().NoError(err)
	suite.NotNil(countries)
	suite.Empty(countries)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CountryServiceTestSuite) TestGetCountryByName_NotFound() {
	suite.mockRepo.On("FindCountryByName", suite.ctx, "Nowhere").Return(nil, apperrors.ErrNotFound).Once()

	country, err := suite.service.GetCountryByName(suite.ctx, "Nowhere")

	suite.Nil(country)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CountryServiceTestSuite) TestDeleteCountry() {
	suite.mockRepo.On("DeleteCountryByName", suite.ctx, "France").Return(nil).Once()
	suite.mockRepo.On("DeleteCountryByName", suite.ctx, "Gone").Return(apperrors.ErrNotFound).Once()

	suite.NoError(suite.service.DeleteCountry(suite.ctx, "France"))
	suite.ErrorIs(suite.service.DeleteCountry(suite.ctx, "Gone"), apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CountryServiceTestSuite) TestGetStatus_EmptyStoreHasNoTimestamp() {
	now := time.Now()
	suite.mockRepo.On("GetCountryStats", suite.ctx).Return(domain.CountryStats{TotalCountries: 0, LastRefreshedAt: &now}, nil).Once()

	stats, err := suite.service.GetStatus(suite.ctx)

	suite.Require().NoError(err)
	suite.Zero(stats.TotalCountries)
	suite.Nil(stats.LastRefreshedAt)
}
