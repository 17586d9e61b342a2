package pgsql

import (
	portsrepo "github.com/SscSPs/country_currency_api/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CountryRepo: newPgxCountryRepository(dbPool),
	}
}
