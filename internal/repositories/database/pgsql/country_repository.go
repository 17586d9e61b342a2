package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/country_currency_api/internal/apperrors"
	"github.com/SscSPs/country_currency_api/internal/core/domain"
	portsrepo "github.com/SscSPs/country_currency_api/internal/core/ports/repositories"
	"github.com/SscSPs/country_currency_api/internal/models"
	"github.com/SscSPs/country_currency_api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const countryColumns = `id, name, capital, region, population, currency_code, exchange_rate, estimated_gdp, flag_url, last_refreshed_at`

const insertCountrySQL = `
	INSERT INTO countries (name, capital, region, population, currency_code, exchange_rate, estimated_gdp, flag_url, last_refreshed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

// last_refreshed_at only moves forward, even when an older cycle commits late.
const updateCountrySQL = `
	UPDATE countries SET
		capital = $2,
		region = $3,
		population = $4,
		currency_code = $5,
		exchange_rate = $6,
		estimated_gdp = $7,
		flag_url = $8,
		last_refreshed_at = GREATEST(last_refreshed_at, $9)
	WHERE id = $1;
`

var orderClauses = map[domain.SortOrder]string{
	domain.SortGDPDesc:        "estimated_gdp DESC NULLS LAST, LOWER(name) ASC",
	domain.SortGDPAsc:         "estimated_gdp ASC NULLS LAST, LOWER(name) ASC",
	domain.SortPopulationDesc: "population DESC, LOWER(name) ASC",
	domain.SortPopulationAsc:  "population ASC, LOWER(name) ASC",
	domain.SortNameAsc:        "LOWER(name) ASC, name ASC",
	domain.SortNameDesc:       "LOWER(name) DESC, name DESC",
}

type PgxCountryRepository struct {
	BaseRepository
}

// newPgxCountryRepository creates a new repository for country data.
func newPgxCountryRepository(pool *pgxpool.Pool) portsrepo.CountryRepositoryFacade {
	return &PgxCountryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CountryRepositoryFacade = (*PgxCountryRepository)(nil)

// buildListQuery assembles the filtered, ordered listing query and its arguments.
func buildListQuery(filter domain.CountryFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.Region != "" {
		args = append(args, filter.Region)
		where = append(where, "LOWER(region) = LOWER($"+strconv.Itoa(len(args))+")")
	}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		where = append(where, "UPPER(currency_code) = UPPER($"+strconv.Itoa(len(args))+")")
	}

	order, ok := orderClauses[filter.Sort]
	if !ok {
		order = orderClauses[domain.DefaultSortOrder]
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(countryColumns)
	b.WriteString(" FROM countries")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(order)
	b.WriteString(";")
	return b.String(), args
}

func scanCountry(row pgx.Row) (models.Country, error) {
	var m models.Country
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Capital,
		&m.Region,
		&m.Population,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.EstimatedGDP,
		&m.FlagURL,
		&m.LastRefreshedAt,
	)
	return m, err
}

// ListCountries retrieves countries matching the filter, in the filter's order.
func (r *PgxCountryRepository) ListCountries(ctx context.Context, filter domain.CountryFilter) ([]domain.Country, error) {
	query, args := buildListQuery(filter)
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer rows.Close()

	modelCountries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Country, error) {
		return scanCountry(row)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Country{}, nil
		}
		return nil, fmt.Errorf("failed to scan countries: %w", err)
	}

	return mapping.ToDomainCountrySlice(modelCountries), nil
}

// ListAllCountries retrieves every stored country ordered by name.
func (r *PgxCountryRepository) ListAllCountries(ctx context.Context) ([]domain.Country, error) {
	return r.ListCountries(ctx, domain.CountryFilter{Sort: domain.SortNameAsc})
}

// FindCountryByName retrieves a country by case-insensitive exact name.
func (r *PgxCountryRepository) FindCountryByName(ctx context.Context, name string) (*domain.Country, error) {
	query := `SELECT ` + countryColumns + ` FROM countries WHERE LOWER(name) = LOWER($1);`

	m, err := scanCountry(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("country "+name+" not found")
		}
		return nil, fmt.Errorf("failed to find country by name %s: %w", name, err)
	}

	country := mapping.ToDomainCountry(m)
	return &country, nil
}

// GetCountryStats returns the stored count and the most recent refresh instant.
func (r *PgxCountryRepository) GetCountryStats(ctx context.Context) (domain.CountryStats, error) {
	query := `SELECT COUNT(*), MAX(last_refreshed_at) FROM countries;`

	var (
		total int
		last  *time.Time
	)
	if err := r.Pool.QueryRow(ctx, query).Scan(&total, &last); err != nil {
		return domain.CountryStats{}, fmt.Errorf("failed to get country stats: %w", err)
	}

	stats := domain.CountryStats{TotalCountries: total}
	if last != nil {
		utc := last.UTC()
		stats.LastRefreshedAt = &utc
	}
	return stats, nil
}

// ApplyRefresh writes every update and insert of the plan in one transaction,
// sent to the server as a single batch.
func (r *PgxCountryRepository) ApplyRefresh(ctx context.Context, plan domain.RefreshPlan) (err error) {
	batch := &pgx.Batch{}
	for _, c := range plan.Updates {
		m := mapping.ToModelCountry(c)
		batch.Queue(updateCountrySQL,
			m.ID, m.Capital, m.Region, m.Population, m.CurrencyCode,
			m.ExchangeRate, m.EstimatedGDP, m.FlagURL, m.LastRefreshedAt)
	}
	for _, c := range plan.Inserts {
		m := mapping.ToModelCountry(c)
		batch.Queue(insertCountrySQL,
			m.Name, m.Capital, m.Region, m.Population, m.CurrencyCode,
			m.ExchangeRate, m.EstimatedGDP, m.FlagURL, m.LastRefreshedAt)
	}
	if batch.Len() == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, execErr := results.Exec(); execErr != nil {
			_ = results.Close()
			return mapWriteError(execErr)
		}
	}
	if err = results.Close(); err != nil {
		return mapWriteError(err)
	}

	return r.Commit(ctx, tx)
}

// DeleteCountryByName removes a country by case-insensitive exact name.
func (r *PgxCountryRepository) DeleteCountryByName(ctx context.Context, name string) error {
	query := `DELETE FROM countries WHERE LOWER(name) = LOWER($1);`

	tag, err := r.Pool.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("failed to delete country %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("country "+name+" not found")
	}
	return nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.NewDuplicateError("duplicate country: " + pgErr.Detail)
	}
	return fmt.Errorf("failed to apply refresh batch: %w", err)
}
