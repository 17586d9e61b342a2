package domain

import "strings"

// SortOrder is one of the recognised list orderings.
type SortOrder string

const (
	SortGDPDesc        SortOrder = "gdp_desc"
	SortGDPAsc         SortOrder = "gdp_asc"
	SortPopulationDesc SortOrder = "population_desc"
	SortPopulationAsc  SortOrder = "population_asc"
	SortNameAsc        SortOrder = "name_asc"
	SortNameDesc       SortOrder = "name_desc"

	DefaultSortOrder = SortNameAsc
)

// ParseSortOrder maps a raw query value onto a SortOrder.
// Matching is case-insensitive; unknown or empty values yield DefaultSortOrder.
func ParseSortOrder(raw string) SortOrder {
	switch s := SortOrder(strings.ToLower(strings.TrimSpace(raw))); s {
	case SortGDPDesc, SortGDPAsc, SortPopulationDesc, SortPopulationAsc, SortNameAsc, SortNameDesc:
		return s
	default:
		return DefaultSortOrder
	}
}

// CountryFilter narrows and orders a country listing.
// Empty Region or Currency means no filter on that field.
type CountryFilter struct {
	Region   string
	Currency string
	Sort     SortOrder
}

// NewCountryFilter builds a filter from raw query values.
func NewCountryFilter(region, currency, sort string) CountryFilter {
	return CountryFilter{
		Region:   strings.TrimSpace(region),
		Currency: strings.TrimSpace(currency),
		Sort:     ParseSortOrder(sort),
	}
}

// NameKey returns the case-insensitive key used to match country names.
func NameKey(name string) string {
	return strings.ToLower(name)
}
