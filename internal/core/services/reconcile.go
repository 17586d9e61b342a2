package services

import (
	"github.com/SscSPs/country_currency_api/internal/core/domain"
	"github.com/SscSPs/country_currency_api/internal/utils/mapping"
)

type pendingRef struct {
	update bool
	index  int
}

// ExistingByName indexes stored countries by their case-insensitive name key.
func ExistingByName(stored []domain.Country) map[string]domain.Country {
	byName := make(map[string]domain.Country, len(stored))
	for _, c := range stored {
		byName[domain.NameKey(c.Name)] = c
	}
	return byName
}

// Reconcile computes, in memory, the writes of one refresh cycle.
// A derived record matching a stored name overwrites its mutable fields, anything
// else becomes an insert. Stored records absent from derived are left alone.
// A name repeated within derived is folded into the pending write, last one wins.
func Reconcile(derived []domain.DerivedCountry, existing map[string]domain.Country) domain.RefreshPlan {
	plan := domain.RefreshPlan{}
	pending := make(map[string]pendingRef, len(derived))

	for _, d := range derived {
		key := domain.NameKey(d.Name)

		if ref, seen := pending[key]; seen {
			plan.Folded++
			if ref.update {
				plan.Updates[ref.index] = overwrite(plan.Updates[ref.index], d)
			} else {
				plan.Inserts[ref.index] = mapping.DerivedToCountry(0, d)
			}
			continue
		}

		if stored, ok := existing[key]; ok {
			pending[key] = pendingRef{update: true, index: len(plan.Updates)}
			plan.Updates = append(plan.Updates, overwrite(stored, d))
			continue
		}

		pending[key] = pendingRef{index: len(plan.Inserts)}
		plan.Inserts = append(plan.Inserts, mapping.DerivedToCountry(0, d))
	}

	return plan
}

// overwrite replaces every mutable field of stored with d, keeping ID and name.
// The refresh instant never moves backwards.
func overwrite(stored domain.Country, d domain.DerivedCountry) domain.Country {
	refreshedAt := d.LastRefreshedAt
	if stored.LastRefreshedAt.After(refreshedAt) {
		refreshedAt = stored.LastRefreshedAt
	}
	updated := mapping.DerivedToCountry(stored.ID, d)
	updated.Name = stored.Name
	updated.LastRefreshedAt = refreshedAt
	return updated
}
