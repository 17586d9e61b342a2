package mapping

import (
	"github.com/SscSPs/country_currency_api/internal/core/domain"
	"github.com/SscSPs/country_currency_api/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelCountry converts a domain Country to a model Country
func ToModelCountry(d domain.Country) models.Country {
	return models.Country{
		ID:              d.ID,
		Name:            d.Name,
		Capital:         d.Capital,
		Region:          d.Region,
		Population:      d.Population,
		CurrencyCode:    d.CurrencyCode,
		ExchangeRate:    toNullDecimal(d.ExchangeRate),
		EstimatedGDP:    toNullDecimal(d.EstimatedGDP),
		FlagURL:         d.FlagURL,
		LastRefreshedAt: d.LastRefreshedAt.UTC(),
	}
}

// ToDomainCountry converts a model Country to a domain Country
func ToDomainCountry(m models.Country) domain.Country {
	return domain.Country{
		ID:              m.ID,
		Name:            m.Name,
		Capital:         m.Capital,
		Region:          m.Region,
		Population:      m.Population,
		CurrencyCode:    m.CurrencyCode,
		ExchangeRate:    fromNullDecimal(m.ExchangeRate),
		EstimatedGDP:    fromNullDecimal(m.EstimatedGDP),
		FlagURL:         m.FlagURL,
		LastRefreshedAt: m.LastRefreshedAt.UTC(),
	}
}

// ToDomainCountrySlice converts a slice of model Countries to domain Countries
func ToDomainCountrySlice(ms []models.Country) []domain.Country {
	ds := make([]domain.Country, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCountry(m)
	}
	return ds
}

// DerivedToCountry turns a derived record into a domain Country carrying the given stored ID.
// Pass 0 for records that do not exist yet.
func DerivedToCountry(id int64, d domain.DerivedCountry) domain.Country {
	return domain.Country{
		ID:              id,
		Name:            d.Name,
		Capital:         d.Capital,
		Region:          d.Region,
		Population:      d.Population,
		CurrencyCode:    d.CurrencyCode,
		ExchangeRate:    d.ExchangeRate,
		EstimatedGDP:    d.EstimatedGDP,
		FlagURL:         d.FlagURL,
		LastRefreshedAt: d.LastRefreshedAt.UTC(),
	}
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func fromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
