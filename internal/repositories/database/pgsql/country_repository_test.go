package pgsql

import (
	"errors"
	"testing"

	"github.com/SscSPs/country_currency_api/internal/apperrors"
	"github.com/SscSPs/country_currency_api/internal/core/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.CountryFilter
		wantWhere string
		wantOrder string
		wantArgs  []any
	}{
		{
			name:      "no filters defaults to name",
			filter:    domain.NewCountryFilter("", "", ""),
			wantOrder: " ORDER BY LOWER(name) ASC, name ASC;",
		},
		{
			name:      "region only",
			filter:    domain.NewCountryFilter("Africa", "", "population_desc"),
			wantWhere: " WHERE LOWER(region) = LOWER($1)",
			wantOrder: " ORDER BY population DESC, LOWER(name) ASC;",
			wantArgs:  []any{"Africa"},
		},
		{
			name:      "currency only",
			filter:    domain.NewCountryFilter("", "ngn", "gdp_asc"),
			wantWhere: " WHERE UPPER(currency_code) = UPPER($1)",
			wantOrder: " ORDER BY estimated_gdp ASC NULLS LAST, LOWER(name) ASC;",
			wantArgs:  []any{"ngn"},
		},
		{
			name:      "both filters",
			filter:    domain.NewCountryFilter("europe", "EUR", "GDP_DESC"),
			wantWhere: " WHERE LOWER(region) = LOWER($1) AND UPPER(currency_code) = UPPER($2)",
			wantOrder: " ORDER BY estimated_gdp DESC NULLS LAST, LOWER(name) ASC;",
			wantArgs:  []any{"europe", "EUR"},
		},
		{
			name:      "unknown sort on a raw filter",
			filter:    domain.CountryFilter{Sort: "bogus"},
			wantOrder: " ORDER BY LOWER(name) ASC, name ASC;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListQuery(tt.filter)

			want := "SELECT " + countryColumns + " FROM countries" + tt.wantWhere + tt.wantOrder
			assert.Equal(t, want, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestOrderClauses_CoverEverySortOrder(t *testing.T) {
	for _, s := range []domain.SortOrder{
		domain.SortGDPDesc, domain.SortGDPAsc,
		domain.SortPopulationDesc, domain.SortPopulationAsc,
		domain.SortNameAsc, domain.SortNameDesc,
	} {
		assert.Contains(t, orderClauses, s)
	}
}

func TestMapWriteError(t *testing.T) {
	dup := mapWriteError(&pgconn.PgError{Code: uniqueViolation, Detail: "Key (lower(name))=(france) already exists."})
	assert.ErrorIs(t, dup, apperrors.ErrDuplicate)

	other := errors.New("connection reset")
	mapped := mapWriteError(other)
	assert.ErrorIs(t, mapped, other)
	assert.NotErrorIs(t, mapped, apperrors.ErrDuplicate)
}
