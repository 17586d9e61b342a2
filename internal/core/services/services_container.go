package services

import (
	"github.com/SscSPs/country_currency_api/internal/core/ports"
	portsrepo "github.com/SscSPs/country_currency_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/country_currency_api/internal/core/ports/services"
	"github.com/SscSPs/country_currency_api/internal/platform/config"
)

// Upstreams groups the external collaborators of the refresh cycle.
type Upstreams struct {
	Countries ports.CountrySource
	Rates     ports.ExchangeRateSource
	Renderer  ports.SummaryRenderer
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, upstreams Upstreams) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The image service goes first since the country service regenerates it after each refresh
	container.SummaryImage = NewSummaryImageService(upstreams.Renderer, cfg.ImageCacheDir)

	container.Country = NewCountryService(
		repos.CountryRepo,
		upstreams.Countries,
		upstreams.Rates,
		WithSummaryImageService(container.SummaryImage),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CountrySvcFacade = (*countryService)(nil)
	_ portssvc.SummaryImageSvc  = (*summaryImageService)(nil)
)
