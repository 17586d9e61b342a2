package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Country is a stored country record. Optional fields are nil when absent.
type Country struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"` // Natural key, unique case-insensitively
	Capital         *string          `json:"capital"`
	Region          *string          `json:"region"`
	Population      int64            `json:"population"`
	CurrencyCode    *string          `json:"currencyCode"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate"` // Local currency units per one unit of the base currency
	EstimatedGDP    *decimal.Decimal `json:"estimatedGdp"` // Derived, never supplied by the upstream
	FlagURL         *string          `json:"flagUrl"`
	LastRefreshedAt time.Time        `json:"lastRefreshedAt"` // Stored as an absolute instant (UTC)
}

// DerivedCountry is a country enriched with currency data, ready to be reconciled with the store.
type DerivedCountry struct {
	Name            string
	Capital         *string
	Region          *string
	Population      int64
	CurrencyCode    *string
	ExchangeRate    *decimal.Decimal
	EstimatedGDP    *decimal.Decimal
	FlagURL         *string
	LastRefreshedAt time.Time
}

// CurrencyInfo describes one currency as reported by the country directory.
type CurrencyInfo struct {
	Code   *string `json:"code"`
	Name   *string `json:"name"`
	Symbol *string `json:"symbol"`
}

// ExternalCountry is the transient shape of one entry of the country directory.
type ExternalCountry struct {
	Name       string         `json:"name"`
	Capital    *string        `json:"capital"`
	Region     *string        `json:"region"`
	Population int64          `json:"population"`
	Flag       *string        `json:"flag"`
	Currencies []CurrencyInfo `json:"currencies"`
}

// ExchangeRates is the transient rate lookup of one refresh cycle.
type ExchangeRates struct {
	Result   string                     `json:"result"`
	BaseCode string                     `json:"base_code"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// CountryStats summarises the stored set.
type CountryStats struct {
	TotalCountries  int
	LastRefreshedAt *time.Time // nil when the store is empty
}

// Names of the upstream data sources, as reported to API callers.
const (
	CountriesSourceName     = "RestCountries API"
	ExchangeRatesSourceName = "Exchange Rate API"
)
