// Package memory is a process-local country store, used when no database is configured
// and in tests that need a real store without Postgres.
package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/country_currency_api/internal/apperrors"
	"github.com/SscSPs/country_currency_api/internal/core/domain"
	portsrepo "github.com/SscSPs/country_currency_api/internal/core/ports/repositories"
)

// CountryRepository keeps countries in a map keyed by lowercased name.
// A refresh is applied to a copy that replaces the live map only when every write succeeded.
type CountryRepository struct {
	mu     sync.RWMutex
	rows   map[string]domain.Country
	nextID int64
}

var _ portsrepo.CountryRepositoryFacade = (*CountryRepository)(nil)

// NewCountryRepository creates an empty store.
func NewCountryRepository() *CountryRepository {
	return &CountryRepository{rows: make(map[string]domain.Country), nextID: 1}
}

// ListCountries returns the countries matching filter, ordered by filter.Sort.
func (r *CountryRepository) ListCountries(ctx context.Context, filter domain.CountryFilter) ([]domain.Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Country, 0, len(r.rows))
	for _, c := range r.rows {
		if filter.Region != "" && (c.Region == nil || !strings.EqualFold(*c.Region, filter.Region)) {
			continue
		}
		if filter.Currency != "" && (c.CurrencyCode == nil || !strings.EqualFold(*c.CurrencyCode, filter.Currency)) {
			continue
		}
		out = append(out, c)
	}
	SortCountries(out, filter.Sort)
	return out, nil
}

// ListAllCountries returns every stored country ordered by name.
func (r *CountryRepository) ListAllCountries(ctx context.Context) ([]domain.Country, error) {
	return r.ListCountries(ctx, domain.CountryFilter{Sort: domain.SortNameAsc})
}

// FindCountryByName returns the country whose name matches case-insensitively.
func (r *CountryRepository) FindCountryByName(ctx context.Context, name string) (*domain.Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.rows[domain.NameKey(name)]
	if !ok {
		return nil, apperrors.NewNotFoundError("country "+name+" not found")
	}
	return &c, nil
}

// GetCountryStats returns the count and the latest refresh instant.
func (r *CountryRepository) GetCountryStats(ctx context.Context) (domain.CountryStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := domain.CountryStats{TotalCountries: len(r.rows)}
	for _, c := range r.rows {
		if stats.LastRefreshedAt == nil || c.LastRefreshedAt.After(*stats.LastRefreshedAt) {
			t := c.LastRefreshedAt
			stats.LastRefreshedAt = &t
		}
	}
	return stats, nil
}

// ApplyRefresh applies every update then every insert of plan, all or nothing.
// Updates whose row vanished in the meantime are skipped, like an UPDATE matching no row.
func (r *CountryRepository) ApplyRefresh(ctx context.Context, plan domain.RefreshPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := maps.Clone(r.rows)
	nextID := r.nextID

	for _, u := range plan.Updates {
		key := domain.NameKey(u.Name)
		stored, ok := next[key]
		if !ok || stored.ID != u.ID {
			continue
		}
		if stored.LastRefreshedAt.After(u.LastRefreshedAt) {
			u.LastRefreshedAt = stored.LastRefreshedAt
		}
		u.Name = stored.Name
		next[key] = u
	}

	for _, c := range plan.Inserts {
		key := domain.NameKey(c.Name)
		if _, exists := next[key]; exists {
			return apperrors.NewDuplicateError("country " + c.Name + " already exists")
		}
		c.ID = nextID
		nextID++
		next[key] = c
	}

	r.rows = next
	r.nextID = nextID
	return nil
}

// DeleteCountryByName removes the country whose name matches case-insensitively.
func (r *CountryRepository) DeleteCountryByName(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NameKey(name)
	if _, ok := r.rows[key]; !ok {
		return apperrors.NewNotFoundError("country "+name+" not found")
	}
	delete(r.rows, key)
	return nil
}

// SortCountries orders countries in place. Countries without a GDP estimate
// come last under both GDP orders, and remaining ties fall back to name.
func SortCountries(countries []domain.Country, order domain.SortOrder) {
	sort.SliceStable(countries, func(i, j int) bool {
		a, b := countries[i], countries[j]
		switch order {
		case domain.SortGDPDesc, domain.SortGDPAsc:
			if (a.EstimatedGDP == nil) != (b.EstimatedGDP == nil) {
				return b.EstimatedGDP == nil
			}
			if a.EstimatedGDP != nil {
				if cmp := a.EstimatedGDP.Cmp(*b.EstimatedGDP); cmp != 0 {
					if order == domain.SortGDPDesc {
						return cmp > 0
					}
					return cmp < 0
				}
			}
		case domain.SortPopulationDesc:
			if a.Population != b.Population {
				return a.Population > b.Population
			}
		case domain.SortPopulationAsc:
			if a.Population != b.Population {
				return a.Population < b.Population
			}
		case domain.SortNameDesc:
			return nameLess(b, a)
		}
		return nameLess(a, b)
	})
}

func nameLess(a, b domain.Country) bool {
	la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if la != lb {
		return la < lb
	}
	return a.Name < b.Name
}
