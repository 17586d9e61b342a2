package memory

import (
	portsrepo "github.com/SscSPs/country_currency_api/internal/core/ports/repositories"
)

func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CountryRepo: NewCountryRepository(),
	}
}
